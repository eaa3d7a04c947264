package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeVehicleType(t *testing.T) {
	tests := []struct {
		input string
		want  VehicleType
	}{
		{"standard", VehicleStandard},
		{"Normal", VehicleStandard},
		{"hybrid", VehicleHybrid},
		{"HEV", VehicleHybrid},
		{"Hybrid Electric Vehicle", VehicleHybrid},
		{"Land Cruiser", VehicleLandCruiser},
		{"landcruiser", VehicleLandCruiser},
		{"LC", VehicleLandCruiser},
		{"Toyota Land Cruiser", VehicleLandCruiser},
		{"lx600", VehicleLX600},
		{"LX 600", VehicleLX600},
		{"Lexus LX600", VehicleLX600},
		{"lx700", VehicleLX700},
		{"lx 700", VehicleLX700},

		// Keyword fallbacks.
		{"some electric thing", VehicleHybrid},

		// Synonym order: hybrid is checked before land_cruiser, so the
		// hybrid LC normalizes to hybrid.
		{"Land Cruiser Hybrid", VehicleHybrid},

		// Silent degrade to standard — typos included.
		{"", VehicleStandard},
		{"   ", VehicleStandard},
		{"Camry", VehicleStandard},
		{"lx800", VehicleStandard},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeVehicleType(tc.input))
		})
	}
}

func TestNormalizeVehicleType_VariantsShareRate(t *testing.T) {
	book := DefaultRateBook()

	// All Land Cruiser spellings must resolve to the same rate.
	rates := map[float64]bool{}
	for _, in := range []string{"Land Cruiser", "landcruiser", "LC"} {
		vt := NormalizeVehicleType(in)
		assert.Equal(t, VehicleLandCruiser, vt)
		rates[book.Resolve(vt, 20, false, true)] = true
	}
	assert.Len(t, rates, 1)
}
