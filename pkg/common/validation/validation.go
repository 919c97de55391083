// Package validation provides common validation utilities for the throttle module.
package validation

import (
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	gferrors "github.com/vnykmshr/throttle/pkg/common/errors"
)

var validate *validator.Validate
var translator ut.Translator

func init() {
	validate = validator.New()
	var ok bool
	translator, ok = ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		panic("validation: failed to get 'en' translator")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	// Report fields by their yaml name when one is declared.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidateStruct checks val against its `validate` tags. The first failing
// field is reported as a ValidationError attributed to module.
func ValidateStruct(module string, val interface{}) error {
	err := validate.Struct(val)
	if err == nil {
		return nil
	}

	verrors, ok := err.(validator.ValidationErrors)
	if !ok || len(verrors) == 0 {
		return err
	}

	verr := verrors[0]
	return gferrors.NewValidationError(module, namespaceOf(verr), verr.Value(), verr.Translate(translator)).
		WithHint(hintFor(verr.Tag()))
}

// namespaceOf drops the root struct name: "Root.jobs[0].name" -> "jobs[0].name".
func namespaceOf(verr validator.FieldError) string {
	ns := verr.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func hintFor(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "gt", "gte":
		return "value must be greater than 0"
	case "oneof":
		return "use one of the listed values"
	case "url":
		return "use an absolute URL such as http://host:port/path"
	default:
		return ""
	}
}

// ValidatePositiveFloat validates that a float64 value is positive (> 0).
// NaN is rejected as well.
func ValidatePositiveFloat(module, field string, value float64) error {
	if !(value > 0) {
		return gferrors.NewValidationError(module, field, value, "must be positive").
			WithHint("value must be greater than 0")
	}
	return nil
}

// ValidateFinite validates that a float64 value is neither infinite nor NaN.
func ValidateFinite(module, field string, value float64) error {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return gferrors.NewValidationError(module, field, value, "must be finite").
			WithHint("use a concrete number")
	}
	return nil
}

// ValidateNotEmpty validates that a string value is not empty.
// Returns a ValidationError if the string is empty.
func ValidateNotEmpty(module, field string, value string) error {
	if value == "" {
		return gferrors.NewValidationError(module, field, value, "cannot be empty").
			WithHint("provide a non-empty " + field)
	}
	return nil
}
