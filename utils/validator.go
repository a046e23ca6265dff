package utils

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return IsClockTime(fl.Field().String())
	})
	return v
}

// IsClockTime reports whether s is a 24-hour "HH:MM" time.
func IsClockTime(s string) bool {
	return clockPattern.MatchString(s)
}

// RegisterValidation adds a custom tag to the shared validator.
// Call it from package init only; the validator is not safe for concurrent registration.
func RegisterValidation(tag string, fn func(value string) bool) {
	_ = validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	})
}

// FieldErrors validates s and returns one message per failing field,
// keyed by the field's json name. It returns nil when s is valid.
func FieldErrors(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if ns := fe.Namespace(); strings.Contains(ns, ".") {
			// drop the root type, keep slice indexes: "sequences[1].delay_days"
			field = ns[strings.Index(ns, ".")+1:]
		}
		out[field] = describe(fe)
	}
	return out
}

// ValidateStruct validates s and flattens the failures into one error.
func ValidateStruct(s interface{}) error {
	errs := FieldErrors(s)
	if errs == nil {
		return nil
	}
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f+" "+errs[f])
	}
	return fmt.Errorf("%s", strings.Join(msgs, ", "))
}

func describe(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "oneof":
		return "must be one of " + param
	case "hhmm":
		return "must be a 24-hour HH:MM time"
	case "sendtz":
		return "is not a supported timezone"
	default:
		return "is invalid"
	}
}
