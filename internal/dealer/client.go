// Package dealer is the client for the dealership backend REST API:
// test-drive fleet, locations, slot availability, appointment booking,
// and the mobile OTP login flow.
//
// Every endpoint answers with the same envelope; responseCode 1 means
// success, anything else carries an error message for the caller.
package dealer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnauthorized is returned when the backend rejects the bearer token.
var ErrUnauthorized = errors.New("authentication failed: invalid or expired token")

// ValidationError is a 400 from the backend with its message preserved,
// so tools can tell bad input apart from server trouble.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("bad request: %s", e.Message)
}

// envelope is the backend's standard response wrapper.
type envelope struct {
	ResponseCode int             `json:"responseCode"`
	Message      string          `json:"message"`
	Data         json.RawMessage `json:"data"`
}

// Client talks to the dealership backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a dealer backend client with a request timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// FleetPage is the test-drive fleet listing.
type FleetPage struct {
	TotalSize int              `json:"totalSize"`
	Done      bool             `json:"done"`
	Records   []map[string]any `json:"records"`
}

// TestDriveCars fetches the full test-drive fleet.
func (c *Client) TestDriveCars(ctx context.Context) (*FleetPage, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/v1/orders/test_drive/cars", nil, "")
	if err != nil {
		return nil, err
	}
	var page FleetPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("decode fleet page: %w", err)
	}
	return &page, nil
}

// Locations fetches the test-drive locations offering a resource car.
func (c *Client) Locations(ctx context.Context, resourceCarID string) ([]map[string]any, error) {
	path := "/api/v1/orders/test_drive/locations/" + resourceCarID
	data, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	var locations []map[string]any
	if err := json.Unmarshal(data, &locations); err != nil {
		return nil, fmt.Errorf("decode locations: %w", err)
	}
	return locations, nil
}

// SlotQuery selects the slot availability to look up.
type SlotQuery struct {
	Date        string `json:"date"` // YYYY-MM-DD
	TerritoryID string `json:"territoryId"`
	VehicleID   string `json:"vehicleId"`
}

// TerritorySlots is the per-territory slot availability.
type TerritorySlots struct {
	TerritoryID string           `json:"territoryId"`
	Slots       []map[string]any `json:"availableSlots"`
}

// Slots fetches slot availability for a date, grouped by territory.
func (c *Client) Slots(ctx context.Context, q SlotQuery) ([]TerritorySlots, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/v1/orders/test_drive/slots", q, "")
	if err != nil {
		return nil, err
	}
	var groups []TerritorySlots
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("decode slots: %w", err)
	}
	return groups, nil
}

// SlotsForTerritory narrows a Slots result to one territory.
func SlotsForTerritory(groups []TerritorySlots, territoryID string) []map[string]any {
	for _, g := range groups {
		if g.TerritoryID == territoryID {
			return g.Slots
		}
	}
	return nil
}

// Booking is the appointment creation payload.
type Booking struct {
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Mobile          string   `json:"mobile"`
	StartTime       string   `json:"startTime"`
	Brand           string   `json:"brand"`
	ModelOfInterest string   `json:"modelOfInterest"`
	TerritoryID     string   `json:"territoryId"`
	Resources       []string `json:"resources"`
	VehicleID       string   `json:"vehicleId"`
}

// BookingResult carries the created appointment id and the backend message.
type BookingResult struct {
	AppointmentID string
	Message       string
}

// BookAppointment creates a test-drive appointment. Requires a bearer
// token from VerifyOTP.
func (c *Client) BookAppointment(ctx context.Context, token string, b Booking) (*BookingResult, error) {
	data, msg, err := c.doEnvelope(ctx, http.MethodPost, "/api/v1/orders/test_drive/appointment", b, token)
	if err != nil {
		return nil, err
	}

	var payload struct {
		AppointmentID string `json:"appointmentId"`
	}
	if len(data) > 0 {
		json.Unmarshal(data, &payload)
	}
	return &BookingResult{AppointmentID: payload.AppointmentID, Message: msg}, nil
}

// OTPRequestResult carries the server timestamp the verify call needs.
type OTPRequestResult struct {
	ServerTime string
	Message    string
}

// RequestOTP asks the backend to SMS a login code to a mobile number.
func (c *Client) RequestOTP(ctx context.Context, mobile string) (*OTPRequestResult, error) {
	body := map[string]string{"mobile": mobile}
	data, msg, err := c.doEnvelope(ctx, http.MethodPost, "/api/v1/auth/otp/mobile/request", body, "")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Time string `json:"time"`
	}
	if len(data) > 0 {
		json.Unmarshal(data, &payload)
	}
	return &OTPRequestResult{ServerTime: payload.Time, Message: msg}, nil
}

// AuthResult is a successful OTP login.
type AuthResult struct {
	AccessToken        string `json:"accessToken"`
	RefreshToken       string `json:"refreshToken"`
	MustUpdateUserData bool   `json:"mustUpdateUserData"`
	MustAddMobile      bool   `json:"mustAddMobile"`
}

// VerifyOTP exchanges mobile + OTP code for access and refresh tokens.
// otpStartTime is the server time echoed by RequestOTP.
func (c *Client) VerifyOTP(ctx context.Context, mobile, otp, otpStartTime string) (*AuthResult, error) {
	body := map[string]string{
		"mobile":         mobile,
		"otp":            otp,
		"otp_start_time": otpStartTime,
	}
	data, _, err := c.doEnvelope(ctx, http.MethodPost, "/api/v1/auth/login/mobile", body, "")
	if err != nil {
		return nil, err
	}

	var auth AuthResult
	if err := json.Unmarshal(data, &auth); err != nil {
		return nil, fmt.Errorf("decode auth result: %w", err)
	}
	return &auth, nil
}

// do performs a request and unwraps the envelope, returning the raw data.
func (c *Client) do(ctx context.Context, method, path string, body any, token string) (json.RawMessage, error) {
	data, _, err := c.doEnvelope(ctx, method, path, body, token)
	return data, err
}

func (c *Client) doEnvelope(ctx context.Context, method, path string, body any, token string) (json.RawMessage, string, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read backend response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, "", ErrUnauthorized
	case http.StatusBadRequest:
		var env envelope
		msg := "invalid input data"
		if json.Unmarshal(raw, &env) == nil && env.Message != "" {
			msg = env.Message
		}
		return nil, "", &ValidationError{Message: msg}
	default:
		return nil, "", fmt.Errorf("backend returned status %d for %s", resp.StatusCode, path)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, "", fmt.Errorf("decode backend envelope: %w", err)
	}
	if env.ResponseCode != 1 {
		msg := env.Message
		if msg == "" {
			msg = "unknown error"
		}
		return nil, "", fmt.Errorf("backend error: %s", msg)
	}
	return env.Data, env.Message, nil
}
