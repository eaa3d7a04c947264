// Package finance implements the Murabaha (cost-plus) vehicle financing
// calculator: input normalization, validation, profit-rate resolution,
// the flat-rate schedule computation, and the multi-scenario comparator.
//
// All lookup tables are immutable package data. A deployment can override
// the profit rates from a YAML rate book loaded once at startup.
package finance

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// VehicleType is a canonical vehicle classification used for rate lookup.
type VehicleType string

const (
	VehicleStandard    VehicleType = "standard"
	VehicleHybrid      VehicleType = "hybrid"
	VehicleLandCruiser VehicleType = "land_cruiser"
	VehicleLX600       VehicleType = "lx600"
	VehicleLX700       VehicleType = "lx700"
)

// Request defaults. Applied field by field when an input is missing or
// unparseable — a deliberate leniency, not an error path.
const (
	DefaultVehicleValue = 65700.0
	DefaultDownPayment  = 10000.0
	DefaultTenureMonths = 48
	DefaultCustomerType = "individual"
)

// Tenure caps by customer type.
const (
	MaxTenureIndividual = 48
	MaxTenureQatari     = 60
)

// IslamicTerms maps result fields to their Islamic-finance term labels.
// Echoed verbatim in every successful calculation.
var IslamicTerms = map[string]string{
	"vehicle_value":      "Al-Silm (Vehicle Value)",
	"down_payment":       "Al-Masrof (Down Payment)",
	"balance_amount":     "Al-Baqi (Balance Amount)",
	"profit_rate":        "Nisbat Al-Ribh (Profit Rate)",
	"profit_amount":      "Al-Ribh (Profit Amount)",
	"total_financing":    "Al-Mablagh Al-Muwazzaf (Total Financing)",
	"monthly_instalment": "Al-Qist Al-Shahri (Monthly Instalment)",
	"total_payable":      "Al-Mablagh Al-Mustahiq Kulluh (Total Payable)",
}

// synonymEntry pairs a canonical type with its accepted spellings.
// Order matters: the first matching entry wins, so "land cruiser hybrid"
// normalizes to hybrid, not land_cruiser.
type synonymEntry struct {
	Type     VehicleType
	Variants []string
}

var vehicleSynonyms = []synonymEntry{
	{VehicleStandard, []string{"standard", "normal", "regular", "conventional", "basic", "ordinary"}},
	{VehicleHybrid, []string{"hybrid", "hev", "hybrid electric vehicle", "electric hybrid", "eco"}},
	{VehicleLandCruiser, []string{"land cruiser", "landcruiser", "lc", "toyota land cruiser", "land cruiser hybrid"}},
	{VehicleLX600, []string{"lx600", "lexus lx600", "lx 600", "lexus lx 600"}},
	{VehicleLX700, []string{"lx700", "lexus lx700", "lx 700", "lexus lx 700"}},
}

// VehicleTypes returns the canonical types in table order.
func VehicleTypes() []VehicleType {
	out := make([]VehicleType, len(vehicleSynonyms))
	for i, e := range vehicleSynonyms {
		out[i] = e.Type
	}
	return out
}

// Variants returns the accepted spellings for a canonical type.
func Variants(vt VehicleType) []string {
	for _, e := range vehicleSynonyms {
		if e.Type == vt {
			return e.Variants
		}
	}
	return nil
}

// RateBook holds the Murabaha profit rates for both rule generations.
// Rates are fractions (0.0575), never percentages.
type RateBook struct {
	// Current per-vehicle-type rates ("new rules").
	Current map[VehicleType]float64 `yaml:"current"`

	// Legacy ruleset parameters.
	LegacyHybrid    float64 `yaml:"legacyHybrid"`    // HEV rate
	LegacyHighValue float64 `yaml:"legacyHighValue"` // LC/LX with <50% down payment
	LegacyStandard  float64 `yaml:"legacyStandard"`  // everything else

	// RepeatFactor is multiplied onto the resolved rate for repeat
	// customers, after rule selection.
	RepeatFactor float64 `yaml:"repeatFactor"`

	// HighValueThreshold is the down-payment percentage below which the
	// legacy high-value rate applies.
	HighValueThreshold float64 `yaml:"highValueThreshold"`
}

// DefaultRateBook returns the built-in rate tables.
func DefaultRateBook() *RateBook {
	return &RateBook{
		Current: map[VehicleType]float64{
			VehicleStandard:    0.0575,
			VehicleHybrid:      0.039,
			VehicleLandCruiser: 0.069,
			VehicleLX600:       0.069,
			VehicleLX700:       0.069,
		},
		LegacyHybrid:       0.049,
		LegacyHighValue:    0.0816,
		LegacyStandard:     0.068,
		RepeatFactor:       0.90,
		HighValueThreshold: 50,
	}
}

// LoadRateBook reads a YAML rate book from path. A missing file returns
// the defaults — deployments only ship an override when rates change.
func LoadRateBook(path string) (*RateBook, error) {
	book := DefaultRateBook()
	if path == "" {
		return book, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return book, nil
		}
		return nil, fmt.Errorf("read rate book: %w", err)
	}
	if err := yaml.Unmarshal(data, book); err != nil {
		return nil, fmt.Errorf("parse rate book: %w", err)
	}
	return book, nil
}

// Resolve returns the profit rate fraction for a request.
//
// New rules: fixed rate per vehicle type (unknown types fall back to the
// standard rate). Legacy rules: hybrid gets its own rate; Land Cruiser and
// LX models financed with less than the threshold down payment get the
// high-value rate; everything else the legacy standard rate. The repeat
// customer discount applies after selection, regardless of rule generation.
func (b *RateBook) Resolve(vt VehicleType, downPaymentPct float64, repeatCustomer, useNewRules bool) float64 {
	var rate float64
	if useNewRules {
		var ok bool
		rate, ok = b.Current[vt]
		if !ok {
			rate = b.Current[VehicleStandard]
		}
	} else {
		switch {
		case vt == VehicleHybrid:
			rate = b.LegacyHybrid
		case (vt == VehicleLandCruiser || vt == VehicleLX600 || vt == VehicleLX700) && downPaymentPct < b.HighValueThreshold:
			rate = b.LegacyHighValue
		default:
			rate = b.LegacyStandard
		}
	}

	if repeatCustomer {
		rate *= b.RepeatFactor
	}
	return rate
}

// RulesVersion is the label echoed in results for the active rule set.
func RulesVersion(useNewRules bool) string {
	if useNewRules {
		return "new_rules_2024"
	}
	return "old_rules"
}
