// Package pkg holds small types shared by the HTTP layer.
package pkg

// Response is the envelope used by operational endpoints (health, readiness).
type Response struct {
	Code    int    `json:"code"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// NewResponse builds a Response.
func NewResponse(code int, data any, message string) Response {
	return Response{
		Code:    code,
		Data:    data,
		Message: message,
	}
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorResponse is the body returned for every 4xx/5xx from the snippet API.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// NewError builds an ErrorResponse. details may be empty.
func NewError(code, message, details string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message, Details: details}}
}
