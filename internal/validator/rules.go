package validator

import (
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
)

const TagImageExt = "image-ext"

func registerCustomRules(v *validator.Validate, allowedExtensions []string) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	allowed := make(map[string]bool, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	mustRegister(TagImageExt, func(fl validator.FieldLevel) bool {
		return AllowedFile(fl.Field().String(), allowed)
	})
}

// AllowedFile reports whether filename has a dot and the text after the
// last one, lowercased, is in allowed.
func AllowedFile(filename string, allowed map[string]bool) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	return allowed[strings.ToLower(filename[idx+1:])]
}
