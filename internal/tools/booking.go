package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/qmotors/dealerbot-go/internal/dealer"
	"github.com/qmotors/dealerbot-go/internal/finance"
)

// BookTestDriveTool creates a test-drive appointment. Requires the bearer
// token obtained through the OTP login flow.
type BookTestDriveTool struct {
	Dealer *dealer.Client
}

func (t *BookTestDriveTool) Name() string { return "book_test_drive" }

func (t *BookTestDriveTool) Description() string {
	return "Book a test drive appointment. Requires a valid access token from the OTP login flow."
}

func (t *BookTestDriveTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"access_token":      map[string]any{"type": "string", "description": "Bearer token from verify_otp_login"},
			"first_name":        map[string]any{"type": "string", "description": "Customer's first name"},
			"last_name":         map[string]any{"type": "string", "description": "Customer's last name"},
			"mobile":            map[string]any{"type": "string", "description": "Mobile number in international format, e.g. +97460417026"},
			"start_time":        map[string]any{"type": "string", "description": "Slot start time, e.g. 2025-10-10T10:00:00"},
			"brand":             map[string]any{"type": "string", "description": "'Toyota' or 'Lexus'"},
			"model_of_interest": map[string]any{"type": "string", "description": "Car model the customer wants to drive"},
			"territory_id":      map[string]any{"type": "string", "description": "Location (territory) ID"},
			"resources":         map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Resource IDs from the slots response (array or comma-separated string)"},
			"vehicle_id":        map[string]any{"type": "string", "description": "Vehicle ID from the cars list"},
		},
		"required": []string{"access_token", "first_name", "last_name", "mobile", "start_time", "brand", "model_of_interest", "territory_id", "resources", "vehicle_id"},
	}
}

func (t *BookTestDriveTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	token := finance.SafeString(args["access_token"], "")
	booking := dealer.Booking{
		FirstName:       finance.SafeString(args["first_name"], ""),
		LastName:        finance.SafeString(args["last_name"], ""),
		Mobile:          cleanMobile(finance.SafeString(args["mobile"], "")),
		StartTime:       finance.SafeString(args["start_time"], ""),
		Brand:           finance.SafeString(args["brand"], ""),
		ModelOfInterest: finance.SafeString(args["model_of_interest"], ""),
		TerritoryID:     finance.SafeString(args["territory_id"], ""),
		Resources:       finance.ParseStringList(args["resources"]),
		VehicleID:       finance.SafeString(args["vehicle_id"], ""),
	}

	if msg := validateBooking(token, booking); msg != "" {
		return statusFailure("validation_error", msg, "Please check your booking details", nil)
	}

	res, err := t.Dealer.BookAppointment(ctx, token, booking)
	if err != nil {
		var verr *dealer.ValidationError
		switch {
		case errors.Is(err, dealer.ErrUnauthorized):
			return statusFailure("error", "Authentication failed - invalid or expired token",
				"Please login again to book the test drive", nil)
		case errors.As(err, &verr):
			return statusFailure("validation_error", fmt.Sprintf("Bad request: %s", verr.Message),
				"Please check your booking details", nil)
		default:
			return statusFailure("error", fmt.Sprintf("Booking failed: %v", err),
				"Test drive booking failed", nil)
		}
	}

	return marshal(map[string]any{
		"status":           "success",
		"message":          "Test drive booked successfully",
		"appointment_id":   res.AppointmentID,
		"response_message": res.Message,
		"timestamp":        now(),
	})
}

func validateBooking(token string, b dealer.Booking) string {
	switch {
	case token == "":
		return "access_token is required - complete the OTP login first"
	case b.FirstName == "":
		return "first_name is required"
	case b.LastName == "":
		return "last_name is required"
	case !validMobile(b.Mobile):
		return "mobile must be in international format, e.g. +97460417026"
	case !validStartTime(b.StartTime):
		return "start_time must be an ISO timestamp, e.g. 2025-10-10T10:00:00"
	case !strings.EqualFold(b.Brand, "Toyota") && !strings.EqualFold(b.Brand, "Lexus"):
		return "brand must be 'Toyota' or 'Lexus'"
	case b.ModelOfInterest == "":
		return "model_of_interest is required"
	case b.TerritoryID == "":
		return "territory_id is required"
	case len(b.Resources) == 0:
		return "resources must contain at least one resource ID"
	case b.VehicleID == "":
		return "vehicle_id is required"
	}
	return ""
}

func validStartTime(s string) bool {
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339} {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
