package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/facture/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator makes binding errors report json/form field names instead
// of Go struct field names, so API consumers see "tax_id", not "TaxID".
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})
}

// BindingErrors converts a gin binding failure into per-field details.
// It returns nil when err is not a validator error (malformed JSON, type
// mismatches), in which case the caller reports a plain bad-request.
func BindingErrors(err error) []dto.ValidationDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make([]dto.ValidationDetail, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, dto.ValidationDetail{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return details
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "min":
		switch fe.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return "Must contain at least " + fe.Param() + " items"
		case reflect.String:
			return "Must be at least " + fe.Param() + " characters"
		default:
			return "Must be at least " + fe.Param()
		}
	case "max":
		switch fe.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map:
			return "Must contain at most " + fe.Param() + " items"
		case reflect.String:
			return "Must be at most " + fe.Param() + " characters"
		default:
			return "Must be at most " + fe.Param()
		}
	default:
		return "Invalid value"
	}
}
