// Package validator decodes and validates JSON request bodies with
// go-playground/validator. Field names in error maps follow the json tags.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ghuser/bazaar/pkg/httpx"
	"github.com/ghuser/bazaar/pkg/optional"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// Validate runs struct-level validation.
func Validate(s any) error {
	return validate.Struct(s)
}

// Var validates a single value against tag, e.g. Var(email, "email").
func Var(field any, tag string) error {
	return validate.Var(field, tag)
}

// FormatValidationErrors converts validator.ValidationErrors into a map of
// field name to message. Any other error yields an empty map.
func FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return errs
	}
	for _, e := range ve {
		errs[e.Field()] = formatFieldError(e)
	}
	return errs
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "uuid", "uuid4":
		return "Must be a valid UUID"
	case "min":
		return fmt.Sprintf("Minimum length is %s", e.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", e.Param())
	case "email":
		return "Must be a valid email address"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", e.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", e.Param())
	default:
		return fmt.Sprintf("Validation failed on '%s'", e.Tag())
	}
}

// WriteValidationError answers 422 with per-field messages.
func WriteValidationError(w http.ResponseWriter, fields map[string]string) {
	httpx.JSON(w, http.StatusUnprocessableEntity, httpx.ErrorBody{
		Error:  "Validation failed",
		Fields: fields,
	})
}

// ValidateRequest decodes the JSON body into T and validates it, writing a
// 400 for undecodable input (including explicit nulls in optional fields) or
// a 422 for failed rules. It returns (nil, false) after writing a response.
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	req, ok := DecodeRequest[T](w, r)
	if !ok {
		return nil, false
	}
	return req, CheckRequest(w, req)
}

// DecodeRequest decodes the JSON body into T without running the rules,
// for handlers that must check something else first. It writes a 400 and
// returns (nil, false) for undecodable input.
func DecodeRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, optional.ErrNull) {
			httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON: null is not allowed")
			return nil, false
		}
		httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}
	return &req, true
}

// CheckRequest validates a decoded request, writing a 422 and returning false
// if any rule fails.
func CheckRequest(w http.ResponseWriter, req any) bool {
	if err := Validate(req); err != nil {
		WriteValidationError(w, FormatValidationErrors(err))
		return false
	}
	return true
}
