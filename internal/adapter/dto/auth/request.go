package auth

// LoginRequest carries the static credential triple.
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	UniqueCode string `json:"uniqueCode" validate:"required"`
}
