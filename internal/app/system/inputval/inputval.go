// internal/app/system/inputval/inputval.go
// Package inputval decodes and validates JSON request bodies.
package inputval

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/dalemusser/hackhub/internal/app/system/apperr"
	"github.com/dalemusser/hackhub/internal/app/system/authz"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names, not Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return primitive.IsValidObjectID(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("hackathonrole", func(fl validator.FieldLevel) bool {
		_, ok := authz.ParseHackathonRole(fl.Field().String())
		return ok
	})
	return v
}

// Struct validates v against its `validate` tags and returns an
// apperr validation error naming the first failing field.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return apperr.Validation(message(fieldErrs[0]))
	}
	return apperr.Validation("Invalid request.")
}

// DecodeJSON reads a JSON body into v and validates it.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil {
		return apperr.Validation("Request body is required.")
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("Request body is required.")
		}
		return apperr.Validation("Request body is not valid JSON: " + err.Error())
	}
	return Struct(v)
}

func message(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", field)
	case "objectid":
		return fmt.Sprintf("%s must be a valid id.", field)
	case "hackathonrole":
		return fmt.Sprintf("%s must be one of participant, organizer, judge, mentor.", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s.", field, lengthOrValue(fe))
	case "min":
		return fmt.Sprintf("%s must be at least %s.", field, lengthOrValue(fe))
	case "gtefield", "ltefield":
		return fmt.Sprintf("%s is out of range.", field)
	default:
		return fmt.Sprintf("%s is not valid.", field)
	}
}

func lengthOrValue(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return fe.Param() + " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return fe.Param() + " items"
	default:
		return fe.Param()
	}
}
