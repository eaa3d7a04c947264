package tools

import (
	"context"
	"fmt"

	"github.com/qmotors/dealerbot-go/internal/finance"
)

// FinancingTool calculates a Shariah-compliant Murabaha vehicle financing
// schedule. Pure computation over its arguments plus the rate book — no
// outward call.
type FinancingTool struct {
	Book *finance.RateBook
}

func (t *FinancingTool) Name() string { return "calculate_islamic_financing" }

func (t *FinancingTool) Description() string {
	return "Calculate Shariah-compliant vehicle financing using Murabaha (cost-plus) principles with vehicle type support and customer-specific tenure rules."
}

func (t *FinancingTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"vehicle_value":           map[string]any{"type": "number", "description": "Total value of the vehicle (Al-Silm) in QAR"},
			"down_payment":            map[string]any{"type": "number", "description": "Initial down payment (Al-Masrof) in QAR"},
			"tenure_months":           map[string]any{"type": "integer", "description": "Financing tenure in months"},
			"vehicle_type":            map[string]any{"type": "string", "description": "Vehicle type: standard, hybrid, land_cruiser, lx600, lx700 (free-form accepted)"},
			"customer_type":           map[string]any{"type": "string", "description": "Customer type: individual or qatari (affects maximum tenure)"},
			"services_contracts":      map[string]any{"type": "number", "description": "Optional services contracts amount in QAR"},
			"comprehensive_insurance": map[string]any{"type": "number", "description": "Comprehensive insurance amount in QAR"},
			"use_new_rules":           map[string]any{"type": "boolean", "description": "Use the current rate table (default) or the legacy rules"},
			"is_repeat_customer":      map[string]any{"type": "boolean", "description": "Repeat financing customers get a 10% rate discount"},
		},
		"required": []string{},
	}
}

func (t *FinancingTool) Execute(_ context.Context, args map[string]any) (out string, err error) {
	// The calculator never lets a failure escape its boundary: anything
	// unexpected becomes a structured failure result.
	defer func() {
		if r := recover(); r != nil {
			out, err = calcFailure(fmt.Sprintf("Calculation error: %v", r))
		}
	}()

	req := finance.Request{
		VehicleValue:           finance.SafeFloat(args["vehicle_value"], finance.DefaultVehicleValue),
		DownPayment:            finance.SafeFloat(args["down_payment"], finance.DefaultDownPayment),
		TenureMonths:           finance.SafeInt(args["tenure_months"], finance.DefaultTenureMonths),
		VehicleType:            finance.NormalizeVehicleType(finance.SafeString(args["vehicle_type"], "standard")),
		CustomerType:           finance.SafeString(args["customer_type"], finance.DefaultCustomerType),
		ServicesContracts:      finance.SafeFloat(args["services_contracts"], 0),
		ComprehensiveInsurance: finance.SafeFloat(args["comprehensive_insurance"], 0),
		UseNewRules:            finance.SafeBool(args["use_new_rules"], true),
		IsRepeatCustomer:       finance.SafeBool(args["is_repeat_customer"], false),
	}

	res, calcErr := finance.Calculate(t.Book, req)
	if calcErr != nil {
		return calcFailure(fmt.Sprintf("Calculation error: %v", calcErr))
	}

	discount := "not_applied"
	if req.IsRepeatCustomer {
		discount = "applied"
	}

	return marshal(map[string]any{
		"success":               true,
		"calculation_timestamp": now(),
		"shariah_compliant":     true,
		"financing_model":       "Murabaha (Cost-Plus)",

		"input_parameters": map[string]any{
			"vehicle_value":           req.VehicleValue,
			"down_payment":            req.DownPayment,
			"tenure_months":           req.TenureMonths,
			"vehicle_type":            req.VehicleType,
			"customer_type":           req.CustomerType,
			"services_contracts":      req.ServicesContracts,
			"comprehensive_insurance": req.ComprehensiveInsurance,
			"use_new_rules":           req.UseNewRules,
			"is_repeat_customer":      req.IsRepeatCustomer,
		},

		"financial_breakdown": map[string]any{
			"vehicle_value":           finance.Round2(req.VehicleValue),
			"down_payment":            finance.Round2(req.DownPayment),
			"down_payment_percentage": finance.Round2(res.DownPaymentPercentage),
			"balance_amount":          finance.Round2(res.BalanceAmount),
			"profit_rate_percentage":  finance.Round3(res.ProfitRate * 100),
			"profit_amount":           finance.Round2(res.ProfitAmount),
			"total_financing_amount":  finance.Round2(res.TotalFinancing),
			"monthly_instalment":      finance.Round2(res.MonthlyInstalment),
			"total_payable":           finance.Round2(res.TotalPayable),
		},

		"islamic_terminology": finance.IslamicTerms,

		"additional_costs": map[string]any{
			"services_contracts":      finance.Round2(req.ServicesContracts),
			"comprehensive_insurance": finance.Round2(req.ComprehensiveInsurance),
			"total_additional_costs":  finance.Round2(res.TotalAdditionalCosts),
			"grand_total":             finance.Round2(res.GrandTotal),
		},

		"business_rules_applied": map[string]any{
			"max_tenure_months":        finance.MaxTenure(req.CustomerType),
			"rules_version":            finance.RulesVersion(req.UseNewRules),
			"repeat_customer_discount": discount,
			"vehicle_specific_rates":   "applied",
		},
	})
}
