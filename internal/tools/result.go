package tools

import (
	"encoding/json"
	"time"
)

// Result envelopes mirror the platform's conventions: the calculator tools
// report a success flag, the HTTP-backed tools report a status string
// (success / not_found / error / validation_error). Every envelope carries
// an informational timestamp that is not part of any computation.

func now() string {
	return time.Now().Format(time.RFC3339)
}

// marshal encodes a payload for return to the platform.
func marshal(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// calcFailure is the failure envelope for the calculator tools.
func calcFailure(msg string) (string, error) {
	return marshal(map[string]any{
		"success":               false,
		"error":                 msg,
		"calculation_timestamp": now(),
		"shariah_compliant":     true,
	})
}

// statusFailure is the failure envelope for the lookup/booking tools.
// extra fields are merged in so count/list fields keep their zero shapes.
func statusFailure(status, errMsg, message string, extra map[string]any) (string, error) {
	payload := map[string]any{
		"status":    status,
		"error":     errMsg,
		"timestamp": now(),
	}
	if message != "" {
		payload["message"] = message
	}
	for k, v := range extra {
		payload[k] = v
	}
	return marshal(payload)
}
