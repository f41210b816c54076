package forms

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/wolfeidau/mihotel/internal/client"
)

// Validate is shared by every form. Field names are reported by their yaml
// tag, which matches the API field names.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	v.RegisterStructValidation(validateRefund, RefundForm{})
	v.RegisterStructValidation(validateUser, UserForm{})

	return v
}

// FieldErrors maps a field name to the message describing what is wrong with
// it. Messages not tied to a field are stored under the empty name.
type FieldErrors map[string]string

// Fields returns the field names in sorted order.
func (fe FieldErrors) Fields() []string {
	return slices.Sorted(maps.Keys(fe))
}

func (fe FieldErrors) String() string {
	parts := make([]string, 0, len(fe))
	for _, field := range fe.Fields() {
		if field == "" {
			parts = append(parts, fe[field])
			continue
		}
		parts = append(parts, field+" "+fe[field])
	}
	return strings.Join(parts, "; ")
}

// ValidationError is returned when a form fails validation locally or the API
// rejects individual fields. The form must be corrected before resubmitting.
type ValidationError struct {
	Message string
	Fields  FieldErrors
	Err     error
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "validation failed"
	}
	if len(e.Fields) == 0 {
		return msg
	}
	return fmt.Sprintf("%s: %s", msg, e.Fields)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// check validates form with the shared validator.
func check(form any) FieldErrors {
	err := Validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"": err.Error()}
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required", "required_with":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gtfield":
		return "must be after " + lowerFirst(fe.Param())
	case "refundable":
		return "exceeds the refundable amount of " + fe.Param()
	case "refunded":
		return "nothing left to refund"
	}
	return "is invalid"
}

func validateRefund(sl validator.StructLevel) {
	form := sl.Current().Interface().(RefundForm)
	switch {
	case form.Available == nil:
	case *form.Available <= 0:
		sl.ReportError(form.Amount, "amount", "Amount", "refunded", "")
	case form.Amount > *form.Available:
		sl.ReportError(form.Amount, "amount", "Amount", "refundable", fmt.Sprintf("%.2f", *form.Available))
	}
}

func validateUser(sl validator.StructLevel) {
	form := sl.Current().Interface().(UserForm)
	if form.ID == "" && form.Password == "" {
		sl.ReportError(form.Password, "password", "Password", "required", "")
	}
}

// merge folds the field errors of an API rejection into a ValidationError.
// Rejections without field errors are returned unchanged so the server
// message reaches the user verbatim.
func merge(err error) error {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || len(apiErr.FieldErrors) == 0 {
		return err
	}

	fields := make(FieldErrors, len(apiErr.FieldErrors))
	for _, fe := range apiErr.FieldErrors {
		if prev, ok := fields[fe.Field]; ok {
			fields[fe.Field] = prev + "; " + fe.Message
			continue
		}
		fields[fe.Field] = fe.Message
	}
	return &ValidationError{Message: apiErr.Message, Fields: fields, Err: err}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
