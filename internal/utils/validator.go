package utils

import (
	"Foodgram-Backend/domain"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	Validate *validator.Validate

	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

func InitValidator() {
	if Validate != nil {
		return
	}
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	Validate = v
}

// ValidationErrors turns validator output into a field-keyed error. Errors
// of any other kind are returned unchanged.
func ValidationErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &domain.ValidationError{}
	for _, fe := range verrs {
		out.Add(fieldPath(fe), fieldMessage(fe))
	}
	return out
}

// fieldPath drops the root struct name: "RecipeRequest.ingredients[0].amount"
// becomes "ingredients[0].amount".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("ensure this field has at least %s characters", fe.Param())
		}
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
		}
		return fmt.Sprintf("ensure this value is less than or equal to %s", fe.Param())
	case "email":
		return "enter a valid email address"
	case "username":
		return "username contains invalid characters"
	case "slug":
		return "slug may contain only letters, numbers, hyphens and underscores"
	case "hexcolor":
		return "enter a valid hex color"
	default:
		return fmt.Sprintf("failed on the %s rule", fe.Tag())
	}
}
