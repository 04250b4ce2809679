package dto

// ErrorResponse is the failure body shared by every endpoint.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine-readable part of a failure.
type ErrorDetail struct {
	Code      string         `json:"code"`
	Details   map[string]any `json:"details,omitempty"`
	Retryable bool           `json:"retryable"`
}
