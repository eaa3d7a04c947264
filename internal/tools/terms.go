package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/qmotors/dealerbot-go/internal/cache"
	"github.com/qmotors/dealerbot-go/internal/cms"
	"github.com/qmotors/dealerbot-go/internal/finance"
)

// TermsConditionsTool retrieves terms & conditions entries from the CMS.
type TermsConditionsTool struct {
	CMS *cms.Client
}

func (t *TermsConditionsTool) Name() string { return "get_terms_conditions" }

func (t *TermsConditionsTool) Description() string {
	return "Retrieves terms and conditions for models and offers, with slug and offer-type filtering."
}

func (t *TermsConditionsTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"slug": map[string]any{
				"type":        "string",
				"description": "Model to filter by, e.g. 'Prado' or 'Land Cruiser'",
			},
			"offer_type": map[string]any{
				"type":        "string",
				"description": "Offer type to filter by, e.g. 'ramadan'",
			},
		},
		"required": []string{},
	}
}

func (t *TermsConditionsTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	slug := finance.SafeString(args["slug"], "")
	offerType := finance.SafeString(args["offer_type"], "")

	terms, err := t.fetchTerms(ctx)
	if err != nil {
		return statusFailure("error", fmt.Sprintf("API request failed: %v", err), "", map[string]any{
			"count": 0, "terms_conditions": []any{},
		})
	}

	cleaned := make([]cms.Item, 0, len(terms))
	for _, term := range terms {
		if matchesSlug(term, slug) && matchesOfferType(term, offerType) {
			cleaned = append(cleaned, cms.CleanTerm(term))
		}
	}

	return marshal(map[string]any{
		"status":           "success",
		"count":            len(cleaned),
		"terms_conditions": cleaned,
		"timestamp":        now(),
	})
}

func (t *TermsConditionsTool) fetchTerms(ctx context.Context) ([]cms.Item, error) {
	var terms []cms.Item
	if cache.GetJSON(ctx, cache.CMSKey("terms"), &terms) {
		return terms, nil
	}
	terms, err := t.CMS.TermsConditions(ctx)
	if err != nil {
		return nil, err
	}
	cache.SetJSON(ctx, cache.CMSKey("terms"), terms)
	return terms, nil
}

func matchesOfferType(item cms.Item, offerType string) bool {
	if offerType == "" {
		return true
	}
	v, _ := item["offerType"].(string)
	return strings.Contains(strings.ToLower(v), strings.ToLower(offerType))
}
