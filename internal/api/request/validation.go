package request

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/edvin/gitswitch/internal/validate"
)

var v = validator.New()

func init() {
	v.RegisterValidation("account_email", func(fl validator.FieldLevel) bool {
		return validate.Email(fl.Field().String())
	})
}

// CreateAccount is the add_account request body.
type CreateAccount struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,account_email"`
}

// Decode parses and validates a JSON request body.
func Decode(r *http.Request, out any) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := v.Struct(out); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

// RequireEmail rejects an empty email path parameter.
func RequireEmail(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("missing required email")
	}
	return s, nil
}
