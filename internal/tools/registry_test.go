package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qmotors/dealerbot-go/internal/finance"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, 0, r.Len())
	assert.Nil(t, r.Get("calculate_islamic_financing"))

	book := finance.DefaultRateBook()
	r.Register(&FinancingTool{Book: book})
	r.Register(&VehicleTypesTool{Book: book})
	r.Register(&ScenariosTool{Book: book})

	assert.Equal(t, 3, r.Len())
	assert.NotNil(t, r.Get("calculate_islamic_financing"))
	assert.Nil(t, r.Get("unknown_tool"))
}

func TestRegistry_OrderAndSchemas(t *testing.T) {
	r := NewRegistry()
	book := finance.DefaultRateBook()
	r.Register(&VehicleTypesTool{Book: book})
	r.Register(&FinancingTool{Book: book})

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "get_available_vehicle_types", all[0].Name())
	assert.Equal(t, "calculate_islamic_financing", all[1].Name())

	schemas := r.Schemas()
	require.Len(t, schemas, 2)
	fn := schemas[0]["function"].(map[string]any)
	assert.Equal(t, "get_available_vehicle_types", fn["name"])
}

func TestRegistry_ReplaceKeepsOrder(t *testing.T) {
	r := NewRegistry()
	book := finance.DefaultRateBook()
	r.Register(&FinancingTool{Book: book})
	r.Register(&FinancingTool{Book: book})

	assert.Equal(t, 1, r.Len())
}

func TestRegisteredToolsExecute(t *testing.T) {
	// The pure calculator tools must be executable straight off a fresh
	// registry with no external clients.
	r := NewRegistry()
	book := finance.DefaultRateBook()
	r.Register(&FinancingTool{Book: book})

	out, err := r.Get("calculate_islamic_financing").Execute(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, out, `"success":true`)
}
