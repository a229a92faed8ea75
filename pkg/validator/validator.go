package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance with domain validations
// registered: "avatar_id" checks the interviewer catalog.
func New() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("avatar_id", func(fl validator.FieldLevel) bool {
		_, ok := entities.FindAvatar(fl.Field().String())
		return ok
	})
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
