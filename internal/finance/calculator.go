package finance

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Request holds the inputs for one Murabaha calculation.
type Request struct {
	VehicleValue           float64
	DownPayment            float64
	TenureMonths           int
	VehicleType            VehicleType
	CustomerType           string
	ServicesContracts      float64
	ComprehensiveInsurance float64
	UseNewRules            bool
	IsRepeatCustomer       bool
}

// DefaultRequest returns a Request with the documented default values.
func DefaultRequest() Request {
	return Request{
		VehicleValue: DefaultVehicleValue,
		DownPayment:  DefaultDownPayment,
		TenureMonths: DefaultTenureMonths,
		VehicleType:  VehicleStandard,
		CustomerType: DefaultCustomerType,
		UseNewRules:  true,
	}
}

// Result is the computed financing breakdown. All values are full-precision
// float64; rounding happens only at presentation time (Round2/Round3).
//
// Invariants: TotalFinancing == BalanceAmount + ProfitAmount,
// TotalPayable == TotalFinancing + down payment,
// MonthlyInstalment == TotalFinancing / tenure.
type Result struct {
	DownPaymentPercentage float64
	BalanceAmount         float64
	ProfitRate            float64
	ProfitAmount          float64
	TotalFinancing        float64
	MonthlyInstalment     float64
	TotalPayable          float64
	TotalAdditionalCosts  float64
	GrandTotal            float64
}

// MaxTenure returns the tenure cap in months for a customer type.
// The "qatari" match is case-insensitive on the literal string.
func MaxTenure(customerType string) int {
	if strings.EqualFold(strings.TrimSpace(customerType), "qatari") {
		return MaxTenureQatari
	}
	return MaxTenureIndividual
}

// Validate rejects malformed or out-of-range requests. Vehicle type and the
// boolean flags are deliberately not range-checked.
func Validate(req Request) error {
	if req.VehicleValue <= 0 {
		return fmt.Errorf("vehicle value must be positive")
	}
	if req.DownPayment <= 0 {
		return fmt.Errorf("down payment must be positive")
	}
	if req.DownPayment >= req.VehicleValue {
		return fmt.Errorf("down payment must be less than vehicle value")
	}
	if req.TenureMonths <= 0 {
		return fmt.Errorf("tenure must be positive")
	}
	if max := MaxTenure(req.CustomerType); req.TenureMonths > max {
		return fmt.Errorf("maximum tenure for %s customers is %d months", req.CustomerType, max)
	}
	return nil
}

// Calculate runs the Murabaha schedule for a validated request.
//
// Profit uses the flat-rate method: balance × rate × (months / 12). Murabaha
// contracts fix total profit at inception, so there is no compounding.
func Calculate(book *RateBook, req Request) (Result, error) {
	if err := Validate(req); err != nil {
		return Result{}, err
	}

	balance := req.VehicleValue - req.DownPayment
	dpPct := (req.DownPayment / req.VehicleValue) * 100
	rate := book.Resolve(req.VehicleType, dpPct, req.IsRepeatCustomer, req.UseNewRules)

	profit := balance * rate * (float64(req.TenureMonths) / 12.0)
	totalFinancing := balance + profit
	monthly := totalFinancing / float64(req.TenureMonths)
	totalPayable := totalFinancing + req.DownPayment

	additional := req.ServicesContracts + req.ComprehensiveInsurance

	return Result{
		DownPaymentPercentage: dpPct,
		BalanceAmount:         balance,
		ProfitRate:            rate,
		ProfitAmount:          profit,
		TotalFinancing:        totalFinancing,
		MonthlyInstalment:     monthly,
		TotalPayable:          totalPayable,
		TotalAdditionalCosts:  additional,
		GrandTotal:            totalPayable + additional,
	}, nil
}

// Round2 rounds a monetary amount to 2 decimal places for presentation.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Round3 rounds a percentage to 3 decimal places for presentation.
func Round3(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(3).Float64()
	return f
}
