package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/qmotors/dealerbot-go/internal/dealer"
	"github.com/qmotors/dealerbot-go/internal/finance"
)

// mobilePattern is the generic international format: + then 8 to 15 digits.
var mobilePattern = regexp.MustCompile(`^\+\d{8,15}$`)

var nonMobileChars = regexp.MustCompile(`[^\d+]`)

// cleanMobile strips spaces and punctuation, keeping digits and the +.
func cleanMobile(mobile string) string {
	return nonMobileChars.ReplaceAllString(mobile, "")
}

// validMobile checks international format; Qatar numbers (+974) must carry
// exactly 8 subscriber digits after the country code.
func validMobile(mobile string) bool {
	if !mobilePattern.MatchString(mobile) {
		return false
	}
	if strings.HasPrefix(mobile, "+974") && len(mobile[len("+974"):]) != 8 {
		return false
	}
	return true
}

// RequestOTPTool asks the backend to SMS a login code to the customer.
type RequestOTPTool struct {
	Dealer *dealer.Client
}

func (t *RequestOTPTool) Name() string { return "request_login_otp" }

func (t *RequestOTPTool) Description() string {
	return "Request an OTP verification code by SMS for test drive booking login."
}

func (t *RequestOTPTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mobile": map[string]any{"type": "string", "description": "Mobile number in international format, e.g. +97403012026"},
		},
		"required": []string{"mobile"},
	}
}

func (t *RequestOTPTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	mobile := cleanMobile(finance.SafeString(args["mobile"], ""))
	if mobile == "" {
		return statusFailure("invalid_mobile", "Mobile number is required", "Please provide a mobile number", nil)
	}
	if !validMobile(mobile) {
		return statusFailure("invalid_mobile", "Invalid mobile number format",
			"Please provide a valid mobile number in international format (e.g. +97403012026)", nil)
	}

	res, err := t.Dealer.RequestOTP(ctx, mobile)
	if err != nil {
		return statusFailure("error", fmt.Sprintf("OTP request failed: %v", err), "Failed to send OTP", nil)
	}

	return marshal(map[string]any{
		"status":           "success",
		"message":          "OTP sent successfully",
		"server_time":      res.ServerTime,
		"response_message": res.Message,
		"timestamp":        now(),
	})
}

// VerifyOTPTool exchanges the SMS code for access tokens.
type VerifyOTPTool struct {
	Dealer *dealer.Client
}

func (t *VerifyOTPTool) Name() string { return "verify_otp_login" }

func (t *VerifyOTPTool) Description() string {
	return "Verify an OTP code and log in, returning the access token needed to book a test drive."
}

func (t *VerifyOTPTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mobile":         map[string]any{"type": "string", "description": "Mobile number the OTP was sent to"},
			"otp":            map[string]any{"type": "string", "description": "OTP code received via SMS"},
			"otp_start_time": map[string]any{"type": "string", "description": "server_time value from request_login_otp"},
		},
		"required": []string{"mobile", "otp", "otp_start_time"},
	}
}

func (t *VerifyOTPTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	mobile := cleanMobile(finance.SafeString(args["mobile"], ""))
	otp := finance.SafeString(args["otp"], "")
	startTime := finance.SafeString(args["otp_start_time"], "")

	if !validMobile(mobile) {
		return statusFailure("invalid_mobile", "Invalid mobile number format",
			"Please provide a valid mobile number in international format", nil)
	}
	if otp == "" {
		return statusFailure("invalid_otp", "OTP code is required", "Please provide the OTP code from the SMS", nil)
	}
	if startTime == "" {
		return statusFailure("error", "otp_start_time is required",
			"Pass the server_time value returned by request_login_otp", nil)
	}

	auth, err := t.Dealer.VerifyOTP(ctx, mobile, otp, startTime)
	if err != nil {
		status := "error"
		if strings.Contains(strings.ToLower(err.Error()), "otp") {
			status = "invalid_otp"
		}
		return statusFailure(status, fmt.Sprintf("Authentication failed: %v", err),
			"Login failed - invalid credentials", nil)
	}

	return marshal(map[string]any{
		"status":                "success",
		"message":               "Login successful",
		"access_token":          auth.AccessToken,
		"refresh_token":         auth.RefreshToken,
		"must_update_user_data": auth.MustUpdateUserData,
		"must_add_mobile":       auth.MustAddMobile,
		"timestamp":             now(),
	})
}
