// Package validation ties request binding rules to field-attached messages.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// MsgRequired is reported for a blank required field.
const MsgRequired = "Missing data for required field."

var setupOnce sync.Once

// Setup makes binding errors report the JSON (or form) name of a field
// instead of its Go name and registers the json_or_empty rule. It must run
// before any request carrying that rule is bound; calling it again is a no-op.
func Setup() {
	setupOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(fieldName)
			_ = v.RegisterValidation("json_or_empty", jsonOrEmpty)
		}
	})
}

// jsonOrEmpty accepts a valid JSON document or an empty string.
func jsonOrEmpty(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || json.Valid([]byte(s))
}

func fieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}

// FieldErrors converts binding rule failures into messages keyed by field.
// It reports false when err is not a rule failure (e.g. malformed JSON).
func FieldErrors(err error) (map[string][]string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], message(fe))
	}
	return fields, true
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "max":
		return fmt.Sprintf("Longer than maximum length %s.", fe.Param())
	case "min":
		return fmt.Sprintf("Shorter than minimum length %s.", fe.Param())
	case "uuid":
		return "Not a valid UUID."
	case "json", "json_or_empty":
		return "Not a valid JSON."
	default:
		return fmt.Sprintf("Failed validation rule %q.", fe.Tag())
	}
}
