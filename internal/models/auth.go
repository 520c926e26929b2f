package models

// Identity is the authenticated user as resolved from a bearer token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is what a successful password sign-in returns.
type Session struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         Identity `json:"user"`
}

type RegisterResponse struct {
	Message string   `json:"message"`
	User    Identity `json:"user"`
}
