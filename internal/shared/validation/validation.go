// Package validation decodes JSON request bodies and checks them against
// their `validate` struct tags.
package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	apperrors "lunarbase-server/internal/shared/errors"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// MaxBodyBytes bounds every decoded request body.
const MaxBodyBytes = 1 << 20

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Field names in messages use the
// json tag so they match what the client sent.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Struct validates v and returns a validation AppError listing every failed field.
func Struct(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.WrapValidation("invalid request", err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, translate(fe))
	}
	return apperrors.Validation(strings.Join(messages, "; "))
}

// Decode reads a JSON body into dst and validates it.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.WrapValidation("invalid JSON in request body", err)
	}
	return Struct(dst)
}

func translate(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "latitude":
		return fmt.Sprintf("%s must be a valid latitude (-90 to 90)", field)
	case "longitude":
		return fmt.Sprintf("%s must be a valid longitude (-180 to 180)", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
