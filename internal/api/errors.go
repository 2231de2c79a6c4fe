package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// APIError represents an error response from the AthletiTrade backend.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, msg)
}

// IsNotFound returns true if the error is a 404 Not Found.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized returns true if the error is a 401 Unauthorized.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// errorResponse covers both error payload shapes the backend produces:
// data routes use {"error": ...}, auth routes use {"message": ...}.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CheckResponse checks the API response for errors. If the status code
// indicates an error (>= 400), it parses the error body and returns an
// *APIError. Otherwise, returns nil.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		// Body is not JSON, ignore parsing error
		return apiErr
	}

	if errResp.Error != "" {
		apiErr.Message = errResp.Error
	} else if errResp.Message != "" {
		apiErr.Message = errResp.Message
	}

	return apiErr
}

// ErrorMessage extracts the backend's message from an error, falling back to
// the given operation-specific default when the payload carried none.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
