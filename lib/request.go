package lib

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldError represents a clean validation error for APIs
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is a structured validation error
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+" "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// ExtractAndValidateBody decodes the request body into T and validates it.
// Every failure, including malformed JSON and wrong value types, comes back as
// a *ValidationError. Unknown top-level fields are ignored.
func ExtractAndValidateBody[T any](r *http.Request) (*T, error) {
	defer r.Body.Close()

	var body T

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&body); err != nil {
		return nil, mapDecodeError(err)
	}

	// Only whitespace may follow the top-level value.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, &ValidationError{Errors: []FieldError{{Field: "body", Message: "is not valid JSON"}}}
	}

	if err := ValidateStruct(body); err != nil {
		return nil, err
	}

	return &body, nil
}

// ValidateStruct runs the validate tags of v.
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return mapValidationErrors(ve)
		}
		return &ValidationError{Errors: []FieldError{{Field: "body", Message: err.Error()}}}
	}
	return nil
}

func mapDecodeError(err error) *ValidationError {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.Is(err, io.EOF):
		return &ValidationError{Errors: []FieldError{{Field: "body", Message: "is required"}}}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return &ValidationError{Errors: []FieldError{{
			Field:   strings.ToLower(field),
			Message: fmt.Sprintf("must be %s", jsonKindName(typeErr.Type.Kind().String())),
		}}}
	case errors.As(err, &syntaxErr):
		return &ValidationError{Errors: []FieldError{{Field: "body", Message: "is not valid JSON"}}}
	case errors.As(err, &maxBytesErr):
		return &ValidationError{Errors: []FieldError{{Field: "body", Message: "is too large"}}}
	default:
		return &ValidationError{Errors: []FieldError{{Field: "body", Message: "is invalid"}}}
	}
}

func jsonKindName(kind string) string {
	switch kind {
	case "map", "struct":
		return "an object"
	case "slice", "array":
		return "an array"
	case "string":
		return "a string"
	case "bool":
		return "a boolean"
	case "ptr":
		return "a valid value"
	default:
		return "a number"
	}
}

func mapValidationErrors(errs validator.ValidationErrors) *ValidationError {
	out := &ValidationError{}

	for _, e := range errs {
		field := strings.ToLower(e.Field())

		var message string
		switch e.Tag() {
		case "required":
			message = "is required"
		case "gte":
			message = "must be greater than or equal to " + e.Param()
		case "lte":
			message = "must be less than or equal to " + e.Param()
		default:
			message = "is invalid"
		}

		out.Errors = append(out.Errors, FieldError{
			Field:   field,
			Message: message,
		})
	}

	return out
}
