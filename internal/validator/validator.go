package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError maps field names to the tag each one failed on.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	var errMsgs []string
	for field, tag := range e.Errors {
		errMsgs = append(errMsgs, fmt.Sprintf("field '%s' failed on '%s'", field, tag))
	}
	return "Validation failed: " + strings.Join(errMsgs, "; ")
}

// Failed reports the tag field failed on, if any.
func (e *ValidationError) Failed(field string) (string, bool) {
	tag, ok := e.Errors[field]
	return tag, ok
}

type Validator struct {
	validate *validator.Validate
}

// New builds a validator whose image-ext rule accepts the given extensions.
func New(allowedExtensions []string) *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	registerCustomRules(v, allowedExtensions)

	return &Validator{validate: v}
}

// Validate returns a *ValidationError when i fails any rule.
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	failed := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		failed[fe.Field()] = fe.Tag()
	}
	return &ValidationError{Errors: failed}
}
