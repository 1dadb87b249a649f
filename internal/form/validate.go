package form

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/atlas-sports/site-api/pkg/daterange"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

// NewValidator returns a validator that knows the site rules:
// slug (^[a-z0-9-]+$), date (YYYY-MM-DD) and clock (HH:MM[:SS]).
// Field names in errors follow the json tags.
func NewValidator() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

// Register installs the site rules on an existing validator.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return ValidSlug(fl.Field().String())
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := daterange.ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return clockPattern.MatchString(fl.Field().String())
	})
}

// Message turns a validation failure into one human-readable sentence
// describing the first offending field. Other errors pass through unchanged.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	return fieldMessage(verrs[0].Field(), verrs[0].Tag(), verrs[0].Param())
}

// Label renders a json field name as a form label.
func Label(field string) string {
	switch field {
	case "what_youll_learn":
		return "What you'll learn"
	case "program_id":
		return "Program"
	case "image_url":
		return "Image URL"
	case "logo_url":
		return "Logo URL"
	}
	words := strings.Split(field, "_")
	if len(words) > 0 && words[0] != "" {
		words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	}
	return strings.Join(words, " ")
}

func fieldMessage(field, tag, param string) string {
	label := Label(field)
	switch tag {
	case "required":
		return label + " is required"
	case "slug":
		return label + " must contain only lowercase letters, numbers, and hyphens"
	case "date":
		return label + " must be a date in YYYY-MM-DD format"
	case "clock":
		return label + " must be a time in HH:MM format"
	case "email":
		return label + " must be a valid email address"
	case "url":
		return label + " must be a valid URL"
	case "uuid", "uuid4":
		return label + " must be a valid identifier"
	case "min":
		return fmt.Sprintf("%s must have at least %s item(s)", label, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, param)
	case "unique":
		return label + " must not contain duplicates"
	default:
		return label + " is invalid"
	}
}
