package finance

import "strings"

// NormalizeVehicleType maps a free-form vehicle description to a canonical
// VehicleType. Matching is case-insensitive: the synonym table is checked
// first (exact match or any variant contained in the input), then broader
// keyword fallbacks for hybrid, Land Cruiser, LX600 and LX700.
//
// Unrecognized input silently degrades to "standard". That makes a typo
// indistinguishable from an explicit standard request — documented
// behavior, kept as-is.
func NormalizeVehicleType(input string) VehicleType {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return VehicleStandard
	}

	for _, entry := range vehicleSynonyms {
		for _, variant := range entry.Variants {
			if s == variant || strings.Contains(s, variant) {
				return entry.Type
			}
		}
	}

	switch {
	case containsAny(s, "hybrid", "hev", "electric"):
		return VehicleHybrid
	case containsAny(s, "land cruiser", "landcruiser", "lc"):
		return VehicleLandCruiser
	case containsAny(s, "lx600", "lx 600"):
		return VehicleLX600
	case containsAny(s, "lx700", "lx 700"):
		return VehicleLX700
	default:
		return VehicleStandard
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
