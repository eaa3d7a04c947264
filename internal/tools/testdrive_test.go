package tools

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qmotors/dealerbot-go/internal/dealer"
)

func newDealerClient(t *testing.T, handler http.HandlerFunc) *dealer.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return dealer.NewClient(srv.URL)
}

const fleetBody = `{"responseCode":1,"message":"ok","data":{
	"totalSize":3,"done":true,"records":[
		{"Id":"car1","Name":"Corolla Cross","Vehicle_Brand__c":"TOY","IsActive":true},
		{"Id":"car2","Name":"LX600","Vehicle_Brand__c":"LEX","IsActive":true},
		{"Id":"car3","Name":"Camry","Vehicle_Brand__c":"TOY","IsActive":false}
	]}}`

func TestTestDriveCarsTool_Contract(t *testing.T) {
	c := newDealerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fleetBody))
	})
	RunToolContractTests(t, &TestDriveCarsTool{Dealer: c})
}

func TestTestDriveCarsTool_Filters(t *testing.T) {
	c := newDealerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/orders/test_drive/cars", r.URL.Path)
		w.Write([]byte(fleetBody))
	})
	tool := &TestDriveCarsTool{Dealer: c}

	// Default hides the inactive Camry.
	payload := execJSON(t, tool, map[string]any{})
	assert.Equal(t, "success", payload["status"])
	assert.Equal(t, 2.0, payload["count"])
	assert.Equal(t, 3.0, payload["total_size"])

	payload = execJSON(t, tool, map[string]any{"is_active": false})
	assert.Equal(t, 3.0, payload["count"])

	payload = execJSON(t, tool, map[string]any{"brand": "LEX"})
	assert.Equal(t, 1.0, payload["count"])

	payload = execJSON(t, tool, map[string]any{"car_model": "corolla"})
	assert.Equal(t, 1.0, payload["count"])
	cars := payload["cars"].([]any)
	require.Len(t, cars, 1)
	assert.Equal(t, "Corolla Cross", cars[0].(map[string]any)["Name"])
}

func TestTestDriveCarsTool_BackendError(t *testing.T) {
	c := newDealerClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responseCode":0,"message":"maintenance window"}`))
	})
	payload := execJSON(t, &TestDriveCarsTool{Dealer: c}, map[string]any{})

	assert.Equal(t, "error", payload["status"])
	assert.Contains(t, payload["error"], "maintenance window")
	assert.Equal(t, 0.0, payload["count"])
}

func TestTestDriveLocationsTool_RequiresCarID(t *testing.T) {
	tool := &TestDriveLocationsTool{Dealer: dealer.NewClient("http://unused")}
	payload := execJSON(t, tool, map[string]any{})

	assert.Equal(t, "error", payload["status"])
	assert.Contains(t, payload["error"], "resource_car_id is required")
}

func TestTestDriveLocationsTool_Filters(t *testing.T) {
	c := newDealerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/orders/test_drive/locations/car1", r.URL.Path)
		w.Write([]byte(`{"responseCode":1,"data":[
			{"Id":"loc1","Name":"Main Showroom","City":"Doha"},
			{"Id":"loc2","Name":"North Branch","City":"Lusail"}
		]}`))
	})
	tool := &TestDriveLocationsTool{Dealer: c}

	payload := execJSON(t, tool, map[string]any{"resource_car_id": "car1"})
	assert.Equal(t, 2.0, payload["count"])

	payload = execJSON(t, tool, map[string]any{"resource_car_id": "car1", "city": "doha"})
	assert.Equal(t, 1.0, payload["count"])

	payload = execJSON(t, tool, map[string]any{"resource_car_id": "car1", "location_name": "north"})
	assert.Equal(t, 1.0, payload["count"])
}

func TestTestDriveSlotsTool_RequiresAllParams(t *testing.T) {
	tool := &TestDriveSlotsTool{Dealer: dealer.NewClient("http://unused")}
	payload := execJSON(t, tool, map[string]any{"date": "2026-09-01"})

	assert.Equal(t, "error", payload["status"])
	assert.Contains(t, payload["error"], "required")
}

func TestTestDriveSlotsTool_RejectsMalformedDate(t *testing.T) {
	// A bad date must fail locally, never reach the backend.
	tool := &TestDriveSlotsTool{Dealer: dealer.NewClient("http://unused")}

	for _, date := range []string{"01-09-2026", "2026/09/01", "next tuesday", "2026-13-40"} {
		payload := execJSON(t, tool, map[string]any{
			"date":         date,
			"territory_id": "ter1",
			"vehicle_id":   "car1",
		})

		assert.Equal(t, "error", payload["status"], date)
		assert.Contains(t, payload["error"], "Invalid date format", date)
		assert.Equal(t, 0.0, payload["count"], date)
	}
}

func TestTestDriveSlotsTool_NarrowsToTerritory(t *testing.T) {
	c := newDealerClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/orders/test_drive/slots", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"responseCode":1,"data":[
			{"territoryId":"ter1","availableSlots":[{"startTime":"10:00"},{"startTime":"11:00"}]},
			{"territoryId":"ter2","availableSlots":[{"startTime":"14:00"}]}
		]}`))
	})
	tool := &TestDriveSlotsTool{Dealer: c}

	payload := execJSON(t, tool, map[string]any{
		"date":         "2026-09-01",
		"territory_id": "ter1",
		"vehicle_id":   "car1",
	})

	assert.Equal(t, "success", payload["status"])
	assert.Equal(t, 2.0, payload["count"])
	assert.Equal(t, "ter1", payload["territory_id"])

	// Unknown territory yields an empty list, not an error.
	payload = execJSON(t, tool, map[string]any{
		"date":         "2026-09-01",
		"territory_id": "ter9",
		"vehicle_id":   "car1",
	})
	assert.Equal(t, "success", payload["status"])
	assert.Equal(t, 0.0, payload["count"])
}
