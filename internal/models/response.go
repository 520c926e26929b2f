package models

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(detail string) ErrorResponse {
	return ErrorResponse{Detail: detail}
}

// MessageResponse is a bare informational message.
type MessageResponse struct {
	Message string `json:"message"`
}

// AvatarResponse is returned after a successful avatar upload.
type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}
