package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/qmotors/dealerbot-go/internal/cache"
	"github.com/qmotors/dealerbot-go/internal/cms"
	"github.com/qmotors/dealerbot-go/internal/finance"
)

// SpecialOffersTool retrieves the current special offers from the CMS.
type SpecialOffersTool struct {
	CMS *cms.Client
}

func (t *SpecialOffersTool) Name() string { return "get_special_offers" }

func (t *SpecialOffersTool) Description() string {
	return "Retrieves current special offers, optionally filtered by model slug."
}

func (t *SpecialOffersTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"slug": map[string]any{
				"type":        "string",
				"description": "Model to filter by, e.g. 'Prado' or 'Land Cruiser'",
			},
		},
		"required": []string{},
	}
}

func (t *SpecialOffersTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	slug := finance.SafeString(args["slug"], "")

	offers, err := t.fetchOffers(ctx)
	if err != nil {
		return statusFailure("error", fmt.Sprintf("API request failed: %v", err), "", map[string]any{
			"count": 0, "offers": []any{},
		})
	}

	cleaned := make([]cms.Item, 0, len(offers))
	for _, offer := range offers {
		if matchesSlug(offer, slug) {
			cleaned = append(cleaned, cms.CleanOffer(offer))
		}
	}

	return marshal(map[string]any{
		"status":    "success",
		"count":     len(cleaned),
		"offers":    cleaned,
		"timestamp": now(),
	})
}

func (t *SpecialOffersTool) fetchOffers(ctx context.Context) ([]cms.Item, error) {
	var offers []cms.Item
	if cache.GetJSON(ctx, cache.CMSKey("offers"), &offers) {
		return offers, nil
	}
	offers, err := t.CMS.SpecialOffers(ctx)
	if err != nil {
		return nil, err
	}
	cache.SetJSON(ctx, cache.CMSKey("offers"), offers)
	return offers, nil
}

// matchesSlug matches a human model name ("Land Cruiser") against CMS slug
// fields ("land-cruiser-summer-offer"): spaces become hyphens, then a
// case-insensitive substring check.
func matchesSlug(item cms.Item, slug string) bool {
	if slug == "" {
		return true
	}
	itemSlug, _ := item["slug"].(string)
	needle := strings.ToLower(strings.ReplaceAll(slug, " ", "-"))
	return strings.Contains(strings.ToLower(itemSlug), needle)
}
