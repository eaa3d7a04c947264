package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/qmotors/dealerbot-go/internal/cache"
	"github.com/qmotors/dealerbot-go/internal/dealer"
	"github.com/qmotors/dealerbot-go/internal/finance"
)

// TestDriveCarsTool lists the vehicles available for test drives.
type TestDriveCarsTool struct {
	Dealer *dealer.Client
}

func (t *TestDriveCarsTool) Name() string { return "get_test_drive_cars" }

func (t *TestDriveCarsTool) Description() string {
	return "Retrieves the vehicles available for test drive booking, with model, brand and active filters."
}

func (t *TestDriveCarsTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"car_model": map[string]any{"type": "string", "description": "Model name filter, e.g. 'Corolla Cross'"},
			"brand":     map[string]any{"type": "string", "description": "Brand code filter: 'TOY' or 'LEX'"},
			"is_active": map[string]any{"type": "boolean", "description": "Only vehicles currently bookable (default true)"},
		},
		"required": []string{},
	}
}

func (t *TestDriveCarsTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	carModel := finance.SafeString(args["car_model"], "")
	brand := finance.SafeString(args["brand"], "")
	activeOnly := finance.SafeBool(args["is_active"], true)

	page, err := t.fetchFleet(ctx)
	if err != nil {
		return statusFailure("error", fmt.Sprintf("API request failed: %v", err), "", map[string]any{
			"count": 0, "total_size": 0, "cars": []any{},
		})
	}

	filtered := make([]map[string]any, 0, len(page.Records))
	for _, car := range page.Records {
		if matchesFleetCar(car, carModel, brand, activeOnly) {
			filtered = append(filtered, car)
		}
	}

	return marshal(map[string]any{
		"status":     "success",
		"count":      len(filtered),
		"total_size": page.TotalSize,
		"done":       page.Done,
		"cars":       filtered,
		"timestamp":  now(),
	})
}

func (t *TestDriveCarsTool) fetchFleet(ctx context.Context) (*dealer.FleetPage, error) {
	var page dealer.FleetPage
	if cache.GetJSON(ctx, cache.FleetKey("cars"), &page) {
		return &page, nil
	}
	fresh, err := t.Dealer.TestDriveCars(ctx)
	if err != nil {
		return nil, err
	}
	cache.SetJSON(ctx, cache.FleetKey("cars"), fresh)
	return fresh, nil
}

func matchesFleetCar(car map[string]any, carModel, brand string, activeOnly bool) bool {
	if carModel != "" {
		name, _ := car["Name"].(string)
		if !strings.Contains(strings.ToLower(name), strings.ToLower(carModel)) {
			return false
		}
	}
	if brand != "" {
		b, _ := car["Vehicle_Brand__c"].(string)
		if !strings.EqualFold(b, brand) {
			return false
		}
	}
	if activeOnly {
		if active, ok := car["IsActive"].(bool); ok && !active {
			return false
		}
	}
	return true
}

// TestDriveLocationsTool lists the showrooms offering a specific car.
type TestDriveLocationsTool struct {
	Dealer *dealer.Client
}

func (t *TestDriveLocationsTool) Name() string { return "get_test_drive_locations" }

func (t *TestDriveLocationsTool) Description() string {
	return "Retrieves test drive locations for a specific car, with city and location-name filters."
}

func (t *TestDriveLocationsTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"resource_car_id": map[string]any{"type": "string", "description": "The car resource ID from the test drive cars list"},
			"city":            map[string]any{"type": "string", "description": "City filter, e.g. 'Doha', 'Lusail'"},
			"location_name":   map[string]any{"type": "string", "description": "Location name filter, e.g. 'Main Showroom'"},
		},
		"required": []string{"resource_car_id"},
	}
}

func (t *TestDriveLocationsTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	resourceCarID := finance.SafeString(args["resource_car_id"], "")
	if resourceCarID == "" {
		return statusFailure("error", "resource_car_id is required", "", map[string]any{
			"count": 0, "locations": []any{},
		})
	}
	city := finance.SafeString(args["city"], "")
	locationName := finance.SafeString(args["location_name"], "")

	locations, err := t.Dealer.Locations(ctx, resourceCarID)
	if err != nil {
		return statusFailure("error", fmt.Sprintf("API request failed: %v", err), "", map[string]any{
			"count": 0, "locations": []any{},
		})
	}

	filtered := make([]map[string]any, 0, len(locations))
	for _, loc := range locations {
		if matchesLocation(loc, city, locationName) {
			filtered = append(filtered, loc)
		}
	}

	return marshal(map[string]any{
		"status":    "success",
		"count":     len(filtered),
		"locations": filtered,
		"timestamp": now(),
	})
}

func matchesLocation(loc map[string]any, city, name string) bool {
	if city != "" {
		c, _ := loc["City"].(string)
		if !strings.Contains(strings.ToLower(c), strings.ToLower(city)) {
			return false
		}
	}
	if name != "" {
		n, _ := loc["Name"].(string)
		if !strings.Contains(strings.ToLower(n), strings.ToLower(name)) {
			return false
		}
	}
	return true
}

// TestDriveSlotsTool lists available appointment slots for a date.
type TestDriveSlotsTool struct {
	Dealer *dealer.Client
}

func (t *TestDriveSlotsTool) Name() string { return "get_test_drive_slots" }

func (t *TestDriveSlotsTool) Description() string {
	return "Retrieves available test drive time slots for a date, location and vehicle."
}

func (t *TestDriveSlotsTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"date":         map[string]any{"type": "string", "description": "Requested date in YYYY-MM-DD format"},
			"territory_id": map[string]any{"type": "string", "description": "Location (territory) ID from the locations list"},
			"vehicle_id":   map[string]any{"type": "string", "description": "Vehicle ID from the cars list"},
		},
		"required": []string{"date", "territory_id", "vehicle_id"},
	}
}

func (t *TestDriveSlotsTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	date := finance.SafeString(args["date"], "")
	territoryID := finance.SafeString(args["territory_id"], "")
	vehicleID := finance.SafeString(args["vehicle_id"], "")

	if date == "" || territoryID == "" || vehicleID == "" {
		return statusFailure("error", "date, territory_id and vehicle_id are required", "", map[string]any{
			"count": 0, "slots": []any{},
		})
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return statusFailure("error", "Invalid date format - use YYYY-MM-DD", "", map[string]any{
			"count": 0, "slots": []any{},
		})
	}

	groups, err := t.Dealer.Slots(ctx, dealer.SlotQuery{
		Date:        date,
		TerritoryID: territoryID,
		VehicleID:   vehicleID,
	})
	if err != nil {
		return statusFailure("error", fmt.Sprintf("API request failed: %v", err), "", map[string]any{
			"count": 0, "slots": []any{}, "territory_id": territoryID,
		})
	}

	slots := dealer.SlotsForTerritory(groups, territoryID)
	if slots == nil {
		slots = []map[string]any{}
	}

	return marshal(map[string]any{
		"status":       "success",
		"count":        len(slots),
		"slots":        slots,
		"territory_id": territoryID,
		"date":         date,
		"vehicle_id":   vehicleID,
		"timestamp":    now(),
	})
}
