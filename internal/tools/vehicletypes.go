package tools

import (
	"context"
	"strings"

	"github.com/qmotors/dealerbot-go/internal/finance"
)

// VehicleTypesTool lists the supported vehicle classifications and their
// profit rates under either rule generation.
type VehicleTypesTool struct {
	Book *finance.RateBook
}

func (t *VehicleTypesTool) Name() string { return "get_available_vehicle_types" }

func (t *VehicleTypesTool) Description() string {
	return "Get the list of supported vehicle types and their current Murabaha profit rates."
}

func (t *VehicleTypesTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"use_new_rules": map[string]any{"type": "boolean", "description": "Show current rates (default) or the legacy rates"},
		},
		"required": []string{},
	}
}

func (t *VehicleTypesTool) Execute(_ context.Context, args map[string]any) (string, error) {
	useNewRules := finance.SafeBool(args["use_new_rules"], true)

	// Sample rate at 20% down payment, no discount — enough to show the
	// legacy high-value split without a full request.
	const sampleDownPaymentPct = 20

	info := map[string]any{}
	for _, vt := range finance.VehicleTypes() {
		variants := finance.Variants(vt)
		rate := t.Book.Resolve(vt, sampleDownPaymentPct, false, useNewRules)

		examples := variants
		if len(examples) > 3 {
			examples = examples[:3]
		}
		info[string(vt)] = map[string]any{
			"description":            titleCase(variants[0]),
			"example_variations":     examples,
			"profit_rate_percentage": finance.Round3(rate * 100),
			"rules_applied":          finance.RulesVersion(useNewRules),
		}
	}

	return marshal(map[string]any{
		"success":       true,
		"vehicle_types": info,
		"rules_version": finance.RulesVersion(useNewRules),
		"timestamp":     now(),
	})
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
