package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/qmotors/dealerbot-go/internal/cache"
	"github.com/qmotors/dealerbot-go/internal/cms"
	"github.com/qmotors/dealerbot-go/internal/finance"
)

// CarModelsTool retrieves car models and trims from the CMS, with model
// and category filtering.
type CarModelsTool struct {
	CMS *cms.Client
}

func (t *CarModelsTool) Name() string { return "get_car_models" }

func (t *CarModelsTool) Description() string {
	return "Retrieves car models and trims with filtering by model name and vehicle category."
}

func (t *CarModelsTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"car_model": map[string]any{
				"type":        "string",
				"description": "Model name(s) to search for, e.g. 'RAV4' or 'Prado, Land Cruiser' or a JSON array",
			},
			"category": map[string]any{
				"type":        "string",
				"description": "Vehicle category filter, e.g. 'SUV', 'Sedan', 'Hybrid'",
			},
		},
		"required": []string{},
	}
}

func (t *CarModelsTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	models := finance.ParseStringList(args["car_model"])
	category := finance.SafeString(args["category"], "")

	items, err := t.fetchTrims(ctx)
	if err != nil {
		return statusFailure("error", fmt.Sprintf("API request failed: %v", err), "", map[string]any{
			"count": 0, "cars": []any{},
		})
	}

	filtered := make([]cms.Item, 0, len(items))
	for _, item := range items {
		if matchesCarModel(item, models) && matchesCategory(item, category) {
			filtered = append(filtered, item)
		}
	}

	return marshal(map[string]any{
		"status": "success",
		"count":  len(filtered),
		"cars":   cms.CleanTrims(filtered),
		"filters_applied": map[string]any{
			"car_model": models,
			"category":  category,
		},
		"timestamp": now(),
	})
}

func (t *CarModelsTool) fetchTrims(ctx context.Context) ([]cms.Item, error) {
	var items []cms.Item
	if cache.GetJSON(ctx, cache.CMSKey("trims"), &items) {
		return items, nil
	}
	items, err := t.CMS.Trims(ctx)
	if err != nil {
		return nil, err
	}
	cache.SetJSON(ctx, cache.CMSKey("trims"), items)
	return items, nil
}

// matchesCarModel reports whether any requested model name appears in the
// vehicle's carName. An empty filter matches everything.
func matchesCarModel(item cms.Item, models []string) bool {
	if len(models) == 0 {
		return true
	}
	name, _ := item["carName"].(string)
	if name == "" {
		return false
	}
	name = strings.ToLower(name)
	for _, m := range models {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" && strings.Contains(name, m) {
			return true
		}
	}
	return false
}

func matchesCategory(item cms.Item, category string) bool {
	if category == "" {
		return true
	}
	types, _ := item["carTypes"].(string)
	return strings.Contains(strings.ToLower(types), strings.ToLower(category))
}
