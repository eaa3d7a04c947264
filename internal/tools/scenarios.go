package tools

import (
	"context"
	"fmt"

	"github.com/qmotors/dealerbot-go/internal/finance"
)

// ScenariosTool compares financing across every down-payment × tenure
// combination, sorted by monthly instalment. A batch wrapper around the
// calculator; combinations that fail validation are skipped.
type ScenariosTool struct {
	Book *finance.RateBook
}

func (t *ScenariosTool) Name() string { return "calculate_multiple_scenarios" }

func (t *ScenariosTool) Description() string {
	return "Calculate multiple Murabaha financing scenarios across down payments and tenures for comparison."
}

func (t *ScenariosTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"vehicle_value": map[string]any{"type": "number", "description": "Total value of the vehicle in QAR"},
			"down_payments": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "number"},
				"description": "Down payment amounts to compare (array or comma-separated string)",
			},
			"tenures": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "integer"},
				"description": "Tenure periods in months to compare (array or comma-separated string)",
			},
			"vehicle_type":  map[string]any{"type": "string", "description": "Vehicle type (free-form accepted)"},
			"customer_type": map[string]any{"type": "string", "description": "Customer type: individual or qatari"},
		},
		"required": []string{},
	}
}

func (t *ScenariosTool) Execute(_ context.Context, args map[string]any) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = calcFailure(fmt.Sprintf("Calculation error: %v", r))
		}
	}()

	vehicleValue := finance.SafeFloat(args["vehicle_value"], finance.DefaultVehicleValue)
	downPayments := finance.ParseFloatList(args["down_payments"], []float64{10000, 15000, 20000})
	tenures := finance.ParseIntList(args["tenures"], []int{36, 48, 60})
	vehicleType := finance.NormalizeVehicleType(finance.SafeString(args["vehicle_type"], "standard"))
	customerType := finance.SafeString(args["customer_type"], finance.DefaultCustomerType)

	scenarios := finance.CompareScenarios(t.Book, vehicleValue, downPayments, tenures, vehicleType, customerType)

	return marshal(map[string]any{
		"success":         true,
		"scenarios_count": len(scenarios),
		"comparison_parameters": map[string]any{
			"vehicle_value": vehicleValue,
			"vehicle_type":  vehicleType,
			"customer_type": customerType,
		},
		"scenarios": scenarios,
		"timestamp": now(),
	})
}
