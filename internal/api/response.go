// Package api holds the JSON envelopes shared by every HTTP handler.
package api

// ErrorResponse is the body of every non-2xx response.
// Fields is set only for validation and conflict errors.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
