package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeFloat(t *testing.T) {
	assert.Equal(t, 65700.0, SafeFloat(65700.0, 0))
	assert.Equal(t, 48.0, SafeFloat(48, 0))
	assert.Equal(t, 65700.0, SafeFloat("65,700", 0))
	assert.Equal(t, 65700.0, SafeFloat("65,700 QAR", 0))
	assert.Equal(t, 12500.5, SafeFloat("AED 12,500.50", 0))
	assert.Equal(t, 99.0, SafeFloat("$99", 0))

	// Fallbacks.
	assert.Equal(t, 10.0, SafeFloat(nil, 10))
	assert.Equal(t, 10.0, SafeFloat("not a number", 10))
	assert.Equal(t, 10.0, SafeFloat([]string{"x"}, 10))
}

func TestSafeInt(t *testing.T) {
	assert.Equal(t, 48, SafeInt("48", 0))
	assert.Equal(t, 48, SafeInt(48.0, 0))
	assert.Equal(t, 36, SafeInt(nil, 36))
}

func TestSafeBool(t *testing.T) {
	assert.True(t, SafeBool(true, false))
	assert.True(t, SafeBool("true", false))
	assert.True(t, SafeBool("1", false))
	assert.False(t, SafeBool("no", true))
	assert.True(t, SafeBool(nil, true))
	assert.True(t, SafeBool("maybe", true))
}

func TestSafeString(t *testing.T) {
	assert.Equal(t, "qatari", SafeString("qatari", "individual"))
	assert.Equal(t, "individual", SafeString("", "individual"))
	assert.Equal(t, "individual", SafeString("   ", "individual"))
	assert.Equal(t, "individual", SafeString(nil, "individual"))
	assert.Equal(t, "x", SafeString("  x  ", "individual"))
}

func TestParseStringList(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  []string
	}{
		{"json array", `["Prado","RAV4"]`, []string{"Prado", "RAV4"}},
		{"json array with single comma-separated element", `["Prado, RAV4,Land Cruiser"]`, []string{"Prado", "RAV4", "Land Cruiser"}},
		{"bare comma-separated", "Prado, RAV4,Land Cruiser", []string{"Prado", "RAV4", "Land Cruiser"}},
		{"single value", "Prado", []string{"Prado"}},
		{"bracketed non-json", "[Prado, RAV4]", []string{"Prado", "RAV4"}},
		{"native string slice", []string{" Prado ", "RAV4"}, []string{"Prado", "RAV4"}},
		{"native any slice", []any{"Prado", "RAV4"}, []string{"Prado", "RAV4"}},
		{"empty string", "", nil},
		{"nil", nil, nil},
		{"only separators", " , , ", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseStringList(tc.input))
		})
	}
}

func TestParseFloatList(t *testing.T) {
	def := []float64{10000, 15000, 20000}

	assert.Equal(t, []float64{1000, 2000}, ParseFloatList("1000,2000", def))
	assert.Equal(t, []float64{1000, 2000}, ParseFloatList(`[1000, 2000]`, def))
	assert.Equal(t, []float64{1000, 2000}, ParseFloatList([]any{1000.0, 2000.0}, def))
	assert.Equal(t, def, ParseFloatList(nil, def))
	assert.Equal(t, def, ParseFloatList("abc,def", def))
}

func TestParseIntList(t *testing.T) {
	def := []int{36, 48, 60}

	assert.Equal(t, []int{24, 36}, ParseIntList("24, 36", def))
	assert.Equal(t, []int{24, 36}, ParseIntList([]any{24.0, 36.0}, def))
	assert.Equal(t, def, ParseIntList(nil, def))
}
