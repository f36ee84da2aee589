package api

// ErrorResponse is the error body returned by API endpoints
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is the generic confirmation body
type SuccessResponse struct {
	Message string `json:"message"`
}
