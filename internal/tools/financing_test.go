package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qmotors/dealerbot-go/internal/finance"
)

func execJSON(t *testing.T, tool Tool, args map[string]any) map[string]any {
	t.Helper()
	out, err := tool.Execute(context.Background(), args)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	return payload
}

func TestFinancingTool_Contract(t *testing.T) {
	RunToolContractTests(t, &FinancingTool{Book: finance.DefaultRateBook()})
}

func TestFinancingTool_Defaults(t *testing.T) {
	tool := &FinancingTool{Book: finance.DefaultRateBook()}
	payload := execJSON(t, tool, map[string]any{})

	assert.Equal(t, true, payload["success"])
	assert.Equal(t, true, payload["shariah_compliant"])
	assert.Equal(t, "Murabaha (Cost-Plus)", payload["financing_model"])

	breakdown := payload["financial_breakdown"].(map[string]any)
	assert.Equal(t, 65700.0, breakdown["vehicle_value"])
	assert.Equal(t, 15.22, breakdown["down_payment_percentage"])
	assert.Equal(t, 5.75, breakdown["profit_rate_percentage"])
	assert.Equal(t, 55700.0, breakdown["balance_amount"])
	assert.Equal(t, 12811.0, breakdown["profit_amount"])
	assert.Equal(t, 68511.0, breakdown["total_financing_amount"])
	assert.Equal(t, 1427.31, breakdown["monthly_instalment"])
	assert.Equal(t, 78511.0, breakdown["total_payable"])

	rules := payload["business_rules_applied"].(map[string]any)
	assert.Equal(t, 48.0, rules["max_tenure_months"])
	assert.Equal(t, "new_rules_2024", rules["rules_version"])
	assert.Equal(t, "not_applied", rules["repeat_customer_discount"])

	terms := payload["islamic_terminology"].(map[string]any)
	assert.Equal(t, "Al-Silm (Vehicle Value)", terms["vehicle_value"])
}

func TestFinancingTool_StringlyArguments(t *testing.T) {
	tool := &FinancingTool{Book: finance.DefaultRateBook()}
	payload := execJSON(t, tool, map[string]any{
		"vehicle_value": "65,700 QAR",
		"down_payment":  "10,000",
		"tenure_months": "48",
		"vehicle_type":  "Land Cruiser",
		"use_new_rules": "true",
	})

	require.Equal(t, true, payload["success"])
	breakdown := payload["financial_breakdown"].(map[string]any)
	assert.Equal(t, 6.9, breakdown["profit_rate_percentage"])

	inputs := payload["input_parameters"].(map[string]any)
	assert.Equal(t, "land_cruiser", inputs["vehicle_type"])
}

func TestFinancingTool_UnparseableNumbersFallBack(t *testing.T) {
	tool := &FinancingTool{Book: finance.DefaultRateBook()}
	payload := execJSON(t, tool, map[string]any{
		"vehicle_value": "lots of money",
		"down_payment":  []any{"nope"},
	})

	// Conversion failure is not an error: defaults apply.
	assert.Equal(t, true, payload["success"])
	breakdown := payload["financial_breakdown"].(map[string]any)
	assert.Equal(t, 65700.0, breakdown["vehicle_value"])
	assert.Equal(t, 10000.0, breakdown["down_payment"])
}

func TestFinancingTool_ValidationFailure(t *testing.T) {
	tool := &FinancingTool{Book: finance.DefaultRateBook()}
	payload := execJSON(t, tool, map[string]any{
		"vehicle_value": 50000,
		"down_payment":  50000,
	})

	assert.Equal(t, false, payload["success"])
	assert.Contains(t, payload["error"], "down payment must be less than vehicle value")
	assert.NotContains(t, payload, "financial_breakdown", "no partial results on failure")
}

func TestFinancingTool_QatariTenure(t *testing.T) {
	tool := &FinancingTool{Book: finance.DefaultRateBook()}

	payload := execJSON(t, tool, map[string]any{
		"tenure_months": 60,
		"customer_type": "qatari",
	})
	assert.Equal(t, true, payload["success"])

	payload = execJSON(t, tool, map[string]any{
		"tenure_months": 60,
		"customer_type": "individual",
	})
	assert.Equal(t, false, payload["success"])
}

func TestFinancingTool_RepeatCustomerDiscount(t *testing.T) {
	tool := &FinancingTool{Book: finance.DefaultRateBook()}

	base := execJSON(t, tool, map[string]any{})
	discounted := execJSON(t, tool, map[string]any{"is_repeat_customer": true})

	baseRate := base["financial_breakdown"].(map[string]any)["profit_rate_percentage"].(float64)
	discRate := discounted["financial_breakdown"].(map[string]any)["profit_rate_percentage"].(float64)
	assert.InDelta(t, baseRate*0.90, discRate, 0.001)

	rules := discounted["business_rules_applied"].(map[string]any)
	assert.Equal(t, "applied", rules["repeat_customer_discount"])
}
