package finance

import (
	"encoding/json"
	"strconv"
	"strings"
)

// The agent platform passes tool arguments as loosely-typed JSON: numbers
// arrive as float64 or as strings with currency symbols, lists arrive as
// native arrays, JSON-encoded strings, or bare comma-separated strings.
// Everything is parsed once here into canonical Go values; unparseable
// input falls back to the caller's default instead of failing.

// SafeFloat converts any value to float64, falling back to def.
// Strings are cleaned of thousands separators and currency markers first.
func SafeFloat(v any, def float64) float64 {
	switch x := v.(type) {
	case nil:
		return def
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return def
		}
		return f
	case string:
		cleaned := strings.NewReplacer(",", "", "QAR", "", "AED", "", "$", "").Replace(x)
		f, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
		if err != nil {
			return def
		}
		return f
	default:
		return def
	}
}

// SafeInt converts any value to int, falling back to def.
func SafeInt(v any, def int) int {
	return int(SafeFloat(v, float64(def)))
}

// SafeBool converts any value to bool, falling back to def.
// Accepts the usual string spellings ("true", "1", "yes").
func SafeBool(v any, def bool) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	case float64:
		return x != 0
	}
	return def
}

// SafeString converts any value to a trimmed string, falling back to def
// when the input is nil or blank.
func SafeString(v any, def string) string {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}

// ParseStringList normalizes a loosely-typed list parameter into []string.
//
// Accepted shapes, in order of preference:
//   - native arrays ([]string, []any)
//   - JSON array strings: `["Prado","RAV4"]`
//   - bracketed or bare comma-separated strings: `[Prado, RAV4]`, `Prado,RAV4`
//
// A JSON array holding a single comma-separated string (`["Prado, RAV4"]`)
// is split again — the platform produces this shape for multi-value input.
// Returns nil for nil/empty input.
func ParseStringList(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case []string:
		return cleanList(x)
	case []any:
		items := make([]string, 0, len(x))
		for _, item := range x {
			items = append(items, toString(item))
		}
		return cleanList(items)
	case string:
		return parseListString(x)
	default:
		return parseListString(toString(x))
	}
}

// ParseFloatList parses a loosely-typed list into []float64, falling back
// to def when the input is missing or yields nothing.
func ParseFloatList(v any, def []float64) []float64 {
	if nums, ok := v.([]any); ok {
		out := make([]float64, 0, len(nums))
		for _, n := range nums {
			out = append(out, SafeFloat(n, 0))
		}
		if len(out) > 0 {
			return out
		}
		return def
	}

	var out []float64
	for _, s := range ParseStringList(v) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			continue
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// ParseIntList parses a loosely-typed list into []int, falling back to def.
func ParseIntList(v any, def []int) []int {
	floats := ParseFloatList(v, nil)
	if len(floats) == 0 {
		return def
	}
	out := make([]int, len(floats))
	for i, f := range floats {
		out[i] = int(f)
	}
	return out
}

func parseListString(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// JSON array format first.
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		var parsed []any
		if err := json.Unmarshal([]byte(s), &parsed); err == nil {
			items := make([]string, 0, len(parsed))
			for _, item := range parsed {
				items = append(items, toString(item))
			}
			// Single comma-separated element inside the array.
			if len(items) == 1 && strings.Contains(items[0], ",") {
				return cleanList(strings.Split(items[0], ","))
			}
			return cleanList(items)
		}
		// Not valid JSON — strip the brackets and fall through to
		// comma splitting.
		s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	}

	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		items = append(items, strings.Trim(strings.TrimSpace(p), `"'`))
	}
	return cleanList(items)
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if t := strings.TrimSpace(item); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}
