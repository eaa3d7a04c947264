package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_ReferenceScenario(t *testing.T) {
	// 65700 QAR vehicle, 10000 down, 48 months, standard, new rules.
	res, err := Calculate(DefaultRateBook(), DefaultRequest())
	require.NoError(t, err)

	assert.InDelta(t, 15.22, Round2(res.DownPaymentPercentage), 0.001)
	assert.Equal(t, 0.0575, res.ProfitRate)
	assert.Equal(t, 55700.0, res.BalanceAmount)
	assert.InDelta(t, 12811.0, res.ProfitAmount, 0.001)
	assert.InDelta(t, 68511.0, res.TotalFinancing, 0.001)
	assert.Equal(t, 1427.31, Round2(res.MonthlyInstalment))
	assert.InDelta(t, 78511.0, res.TotalPayable, 0.001)
}

func TestCalculate_Invariants(t *testing.T) {
	book := DefaultRateBook()
	reqs := []Request{
		{VehicleValue: 65700, DownPayment: 10000, TenureMonths: 48, VehicleType: VehicleStandard, CustomerType: "individual", UseNewRules: true},
		{VehicleValue: 250000, DownPayment: 50000, TenureMonths: 36, VehicleType: VehicleLandCruiser, CustomerType: "individual", UseNewRules: false},
		{VehicleValue: 120000, DownPayment: 30000, TenureMonths: 60, VehicleType: VehicleHybrid, CustomerType: "qatari", UseNewRules: true, IsRepeatCustomer: true},
		{VehicleValue: 400000, DownPayment: 100000, TenureMonths: 24, VehicleType: VehicleLX600, CustomerType: "Qatari", UseNewRules: false},
	}

	for _, req := range reqs {
		res, err := Calculate(book, req)
		require.NoError(t, err)

		// Exact identities, before any rounding.
		assert.Equal(t, res.BalanceAmount+res.ProfitAmount, res.TotalFinancing)
		assert.Equal(t, res.TotalFinancing+req.DownPayment, res.TotalPayable)
		// Instalment × tenure recovers total financing within 0.01.
		assert.InDelta(t, res.TotalFinancing, res.MonthlyInstalment*float64(req.TenureMonths), 0.01)
	}
}

func TestCalculate_Validation(t *testing.T) {
	book := DefaultRateBook()
	base := DefaultRequest()

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero vehicle value", func(r *Request) { r.VehicleValue = 0 }},
		{"negative vehicle value", func(r *Request) { r.VehicleValue = -100 }},
		{"zero down payment", func(r *Request) { r.DownPayment = 0 }},
		{"down payment equals value", func(r *Request) { r.DownPayment = r.VehicleValue }},
		{"down payment exceeds value", func(r *Request) { r.DownPayment = r.VehicleValue + 1 }},
		{"zero tenure", func(r *Request) { r.TenureMonths = 0 }},
		{"tenure over individual cap", func(r *Request) { r.TenureMonths = 49 }},
		{"tenure over qatari cap", func(r *Request) { r.CustomerType = "qatari"; r.TenureMonths = 61 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := base
			tc.mutate(&req)
			_, err := Calculate(book, req)
			assert.Error(t, err)
		})
	}
}

func TestCalculate_TenureBoundaries(t *testing.T) {
	book := DefaultRateBook()

	req := DefaultRequest()
	req.TenureMonths = 48
	_, err := Calculate(book, req)
	assert.NoError(t, err, "48 months must be accepted for individual")

	req.TenureMonths = 49
	_, err = Calculate(book, req)
	assert.Error(t, err, "49 months must be rejected for individual")

	req.CustomerType = "qatari"
	req.TenureMonths = 60
	_, err = Calculate(book, req)
	assert.NoError(t, err, "60 months must be accepted for qatari")

	// Case-insensitive customer type match.
	req.CustomerType = "QATARI"
	_, err = Calculate(book, req)
	assert.NoError(t, err)
}

func TestResolve_NewRules(t *testing.T) {
	book := DefaultRateBook()

	assert.Equal(t, 0.0575, book.Resolve(VehicleStandard, 20, false, true))
	assert.Equal(t, 0.039, book.Resolve(VehicleHybrid, 20, false, true))
	assert.Equal(t, 0.069, book.Resolve(VehicleLandCruiser, 20, false, true))
	assert.Equal(t, 0.069, book.Resolve(VehicleLX600, 20, false, true))
	assert.Equal(t, 0.069, book.Resolve(VehicleLX700, 20, false, true))

	// Unknown type falls back to standard.
	assert.Equal(t, 0.0575, book.Resolve(VehicleType("camper"), 20, false, true))
}

func TestResolve_LegacyRules(t *testing.T) {
	book := DefaultRateBook()

	assert.Equal(t, 0.049, book.Resolve(VehicleHybrid, 20, false, false))
	assert.Equal(t, 0.068, book.Resolve(VehicleStandard, 20, false, false))

	// LC/LX under 50% down payment get the high-value rate.
	assert.Equal(t, 0.0816, book.Resolve(VehicleLandCruiser, 49.9, false, false))
	assert.Equal(t, 0.0816, book.Resolve(VehicleLX600, 10, false, false))
	assert.Equal(t, 0.0816, book.Resolve(VehicleLX700, 30, false, false))

	// At or above the threshold they drop to the legacy standard rate.
	assert.Equal(t, 0.068, book.Resolve(VehicleLandCruiser, 50, false, false))
	assert.Equal(t, 0.068, book.Resolve(VehicleLX600, 75, false, false))
}

func TestResolve_RepeatCustomerDiscount(t *testing.T) {
	book := DefaultRateBook()

	for _, vt := range VehicleTypes() {
		for _, newRules := range []bool{true, false} {
			base := book.Resolve(vt, 20, false, newRules)
			discounted := book.Resolve(vt, 20, true, newRules)
			assert.Equal(t, base*0.90, discounted,
				"discounted rate must be exactly 90%% of base (type=%s newRules=%v)", vt, newRules)
		}
	}
}

func TestCalculate_GrandTotal(t *testing.T) {
	req := DefaultRequest()
	req.ServicesContracts = 2500
	req.ComprehensiveInsurance = 3200

	res, err := Calculate(DefaultRateBook(), req)
	require.NoError(t, err)

	assert.Equal(t, 5700.0, res.TotalAdditionalCosts)
	assert.Equal(t, res.TotalPayable+5700.0, res.GrandTotal)
}

func TestCalculate_Idempotent(t *testing.T) {
	book := DefaultRateBook()
	req := DefaultRequest()

	a, err := Calculate(book, req)
	require.NoError(t, err)
	b, err := Calculate(book, req)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1427.31, Round2(1427.3125))
	assert.Equal(t, 15.22, Round2(15.220700152207))
	assert.Equal(t, 0.0, Round2(0))
	assert.False(t, math.Signbit(Round2(0)))
}
