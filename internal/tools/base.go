// Package tools implements the dealership agent tools: the Murabaha
// financing calculator, catalog lookups against the CMS, and the
// test-drive booking flow against the dealer backend. Each tool is a
// stand-alone request/response translator the orchestration platform
// invokes by name with loosely-typed JSON arguments.
package tools

import "context"

// Tool is the contract every agent tool implements.
//
// Execute returns the tool result as a JSON string. Domain failures
// (validation, upstream errors) are reported inside the payload with a
// success/status flag — the platform needs a tool result either way — so
// the error return is reserved for argument-decoding catastrophes.
type Tool interface {
	// Name returns the tool name used in function calls.
	Name() string

	// Description returns what the tool does, for the model.
	Description() string

	// Parameters returns the JSON Schema for the tool arguments.
	Parameters() map[string]any

	// Execute runs the tool with the given arguments.
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// ToSchema converts a tool to OpenAI function calling format.
func ToSchema(t Tool) map[string]any {
	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        t.Name(),
			"description": t.Description(),
			"parameters":  t.Parameters(),
		},
	}
}
