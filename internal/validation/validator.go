// Package validation wraps a go-playground/validator singleton that
// reports fields by their JSON names, so messages match the wire shape
// the caller sent.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single failed rule.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e FieldError) Error() string {
	if tmpl, ok := messages[e.Tag]; ok {
		return fmt.Sprintf(tmpl, e.Field)
	}
	if tmpl, ok := messagesWithParam[e.Tag]; ok {
		return fmt.Sprintf(tmpl, e.Field, e.Param)
	}
	return fmt.Sprintf("%s failed %s validation", e.Field, e.Tag)
}

// Error collects every failed field of one struct.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return strings.Join(msgs, "; ")
}

var messages = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
}

var messagesWithParam = map[string]string{
	"min": "%s must be at least %s characters",
	"max": "%s must be at most %s characters",
	"gte": "%s must be greater than or equal to %s",
	"lte": "%s must be less than or equal to %s",
}

// Validator returns the singleton validator instance.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Struct validates s. Returns nil or *Error.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Fields: []FieldError{{Field: "request", Tag: "invalid"}}}
	}

	out := &Error{Fields: make([]FieldError, len(verrs))}
	for i, fe := range verrs {
		out.Fields[i] = FieldError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()}
	}
	return out
}

// Validate adapts the singleton to echo.Validator.
type Validate struct{}

// Validate implements echo.Validator.
func (Validate) Validate(i any) error {
	return Struct(i)
}
