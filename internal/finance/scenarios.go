package finance

import (
	"log"
	"sort"
)

// Scenario is one down-payment × tenure combination from the comparator.
type Scenario struct {
	DownPayment           float64 `json:"down_payment"`
	DownPaymentPercentage float64 `json:"down_payment_percentage"`
	TenureMonths          int     `json:"tenure_months"`
	MonthlyInstalment     float64 `json:"monthly_instalment"`
	TotalPayable          float64 `json:"total_payable"`
	ProfitAmount          float64 `json:"profit_amount"`
}

// CompareScenarios calculates the full schedule for every down-payment ×
// tenure combination and returns the surviving scenarios sorted ascending
// by monthly instalment. Combinations that fail validation are logged and
// skipped, not fatal — a 60-month tenure is simply absent from an
// individual customer's comparison.
func CompareScenarios(book *RateBook, vehicleValue float64, downPayments []float64, tenures []int, vt VehicleType, customerType string) []Scenario {
	scenarios := make([]Scenario, 0, len(downPayments)*len(tenures))

	for _, dp := range downPayments {
		for _, tenure := range tenures {
			req := Request{
				VehicleValue: vehicleValue,
				DownPayment:  dp,
				TenureMonths: tenure,
				VehicleType:  vt,
				CustomerType: customerType,
				UseNewRules:  true,
			}
			res, err := Calculate(book, req)
			if err != nil {
				log.Printf("[Finance] scenario skipped (down_payment=%.2f tenure=%d): %v", dp, tenure, err)
				continue
			}
			scenarios = append(scenarios, Scenario{
				DownPayment:           dp,
				DownPaymentPercentage: Round2(res.DownPaymentPercentage),
				TenureMonths:          tenure,
				MonthlyInstalment:     Round2(res.MonthlyInstalment),
				TotalPayable:          Round2(res.TotalPayable),
				ProfitAmount:          Round2(res.ProfitAmount),
			})
		}
	}

	sort.SliceStable(scenarios, func(i, j int) bool {
		return scenarios[i].MonthlyInstalment < scenarios[j].MonthlyInstalment
	})
	return scenarios
}
