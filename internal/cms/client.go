// Package cms is the client for the content-management GraphQL endpoint
// that serves vehicle trims, special offers, and terms & conditions.
//
// The CMS exposes persisted queries over GET:
//
//	<base>/graphql/execute.json/<site>/<query>;language=<lang>;brand=<brand>
//
// Responses are loosely-typed documents; extraction and reshaping for agent
// consumption happen here so the tools stay thin.
package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Persisted query names on the CMS side.
const (
	queryTrims         = "TrimsEndpoint"
	querySpecialOffers = "T4-MainSpecialOffers"
	queryTerms         = "T26-Terms-Conditions"
)

// Config holds CMS connection settings.
type Config struct {
	BaseURL  string
	Site     string // e.g. "ToyotaWebsite"
	Brand    string // e.g. "toyota"
	Language string // e.g. "en"
}

// Client talks to the CMS GraphQL endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a CMS client with a dedicated HTTP client and timeout.
func NewClient(cfg Config) *Client {
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Item is one loosely-typed CMS document.
type Item = map[string]any

// Trims fetches all car models with their trims.
func (c *Client) Trims(ctx context.Context) ([]Item, error) {
	doc, err := c.execute(ctx, queryTrims)
	if err != nil {
		return nil, err
	}
	return listItems(doc, "carFragmentsList")
}

// SpecialOffers fetches the currently available offers. The CMS nests them
// one level deeper than the other queries: the offers list lives on the
// first item's availableOffers field.
func (c *Client) SpecialOffers(ctx context.Context) ([]Item, error) {
	doc, err := c.execute(ctx, querySpecialOffers)
	if err != nil {
		return nil, err
	}
	items, err := listItems(doc, "t4MainspecialoffersList")
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	raw, _ := items[0]["availableOffers"].([]any)
	offers := make([]Item, 0, len(raw))
	for _, o := range raw {
		if m, ok := o.(map[string]any); ok {
			offers = append(offers, m)
		}
	}
	return offers, nil
}

// TermsConditions fetches the terms & conditions entries.
func (c *Client) TermsConditions(ctx context.Context) ([]Item, error) {
	doc, err := c.execute(ctx, queryTerms)
	if err != nil {
		return nil, err
	}
	return listItems(doc, "t26Terms_conditionsList")
}

// execute GETs a persisted query and decodes the response document.
func (c *Client) execute(ctx context.Context, query string) (map[string]any, error) {
	url := fmt.Sprintf("%s/graphql/execute.json/%s/%s;language=%s;brand=%s",
		c.cfg.BaseURL, c.cfg.Site, query, c.cfg.Language, c.cfg.Brand)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build CMS request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CMS request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CMS returned status %d for %s", resp.StatusCode, query)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read CMS response: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode CMS response: %w", err)
	}
	return doc, nil
}

// listItems extracts data.<listName>.items from a response document.
func listItems(doc map[string]any, listName string) ([]Item, error) {
	data, ok := doc["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("no data field in CMS response")
	}
	list, ok := data[listName].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("no %s in CMS response", listName)
	}
	raw, _ := list["items"].([]any)
	items := make([]Item, 0, len(raw))
	for _, it := range raw {
		if m, ok := it.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items, nil
}
