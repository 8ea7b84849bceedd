// Package common defines shared scalar types and API envelope structures used
// across the LexML service boundary.
package common

import (
	"time"

	"github.com/google/uuid"
)

// ID is a string alias for UUID v4.
type ID string

// NewID generates a fresh random ID.
func NewID() ID {
	return ID(uuid.New().String())
}

// Parse validates that the ID is a well-formed UUID.
func (id ID) Parse() (uuid.UUID, error) {
	return uuid.Parse(string(id))
}

// ErrorDetail provides structured error information for API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// APIResponse is the uniform envelope for every HTTP API payload.
type APIResponse struct {
	Success   bool         `json:"success"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewSuccessResponse builds a success envelope around data.
func NewSuccessResponse(data interface{}, requestID string) APIResponse {
	return APIResponse{
		Success:   true,
		Data:      data,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
	}
}

// NewErrorResponse builds a failure envelope around an error detail.
func NewErrorResponse(code, message, detail, requestID string) APIResponse {
	return APIResponse{
		Success:   false,
		Error:     &ErrorDetail{Code: code, Message: message, Detail: detail},
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
	}
}
