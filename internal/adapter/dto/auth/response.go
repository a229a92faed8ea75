package auth

// UserResponse represents the authenticated principal in responses
type UserResponse struct {
	Email      string `json:"email"`
	UniqueCode string `json:"uniqueCode"`
}

// LoginResponse represents the authentication response with the token
type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	ExpiresIn   int           `json:"expires_in"` // seconds
	TokenType   string        `json:"token_type"` // "Bearer"
	User        *UserResponse `json:"user"`
}
