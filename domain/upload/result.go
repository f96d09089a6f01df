package upload

import (
	"encoding/json"
	"errors"
)

// Result is the normalized outcome of one upload attempt, as printed by the CLI
type Result struct {
	Success    bool            `json:"success"`
	StatusCode *int            `json:"status_code,omitempty"`
	Body       json.RawMessage `json:"body,omitempty"`
	Message    string          `json:"message,omitempty"`
}

// Succeeded returns a successful result for a 200 response with a JSON body
func Succeeded(statusCode int, body json.RawMessage) *Result {
	return &Result{
		Success:    true,
		StatusCode: &statusCode,
		Body:       body,
	}
}

// Rejected returns a failed result for a non-200 response
func Rejected(statusCode int, text string) *Result {
	return &Result{
		StatusCode: &statusCode,
		Message:    text,
	}
}

// FromError converts a failed attempt into a result.
// The status code is kept when the failure happened after a response arrived.
func FromError(err error) *Result {
	r := &Result{Message: err.Error()}

	var ue *Error
	if errors.As(err, &ue) && ue.StatusCode != 0 {
		code := ue.StatusCode
		r.StatusCode = &code
	}
	return r
}

// Code returns the status code, or 0 when none was received
func (r *Result) Code() int {
	if r.StatusCode == nil {
		return 0
	}
	return *r.StatusCode
}
