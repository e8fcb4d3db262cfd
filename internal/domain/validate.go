package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports the first constraint an input failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Normalizer is implemented by inputs that clean themselves up before validation.
type Normalizer interface {
	Normalize()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json field names, not Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate normalizes i when possible and checks its struct constraints.
// It returns nil or a *ValidationError for the first failing field.
func Validate(i interface{}) error {
	if n, ok := i.(Normalizer); ok {
		n.Normalize()
	}
	err := validate.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{Field: fe.Field(), Message: describe(fe)}
	}
	return &ValidationError{Message: err.Error()}
}

// ValidateInquiry accepts an inquiry iff name and phone are non-empty.
func ValidateInquiry(in *InquiryInput) error {
	return Validate(in)
}

// ValidateProduct accepts a product iff name, description, type, spiceLevel
// and image are non-empty and every listed feature is non-empty.
func ValidateProduct(in *ProductInput) error {
	return Validate(in)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
