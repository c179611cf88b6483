// Package forms binds and validates the HTML forms of the board.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field name to its messages. The empty key holds
// form-wide errors.
type Errors map[string][]string

// Add appends a message to field
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Has reports whether field has any message
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// First returns the first message of field, or ""
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Valid reports whether no field has errors
func (e Errors) Valid() bool {
	return len(e) == 0
}

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	return v
}

// check runs struct validation and converts failures to field messages
func check(form interface{}) Errors {
	errs := Errors{}
	err := validate.Struct(form)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs.Add("", err.Error())
		return errs
	}

	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "numeric", "number":
		return "Enter a number."
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "eqfield":
		return "The two password fields didn't match."
	}
	return fmt.Sprintf("Invalid value (%s).", fe.Tag())
}
