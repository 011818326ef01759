// internal/payload/validate.go
package payload

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"receipt-service/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// compare decimals numerically in gte/lte rules
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// translate turns the first validator failure into a ValidationError
func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return model.NewValidationError("", "%v", err)
	}

	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	field = strings.TrimPrefix(field, "Overrides.")

	switch fe.Tag() {
	case "required":
		return model.NewValidationError(field, "is required")
	case "gte":
		if fe.Param() == "0" {
			return model.NewValidationError(field, "must not be negative")
		}
		return model.NewValidationError(field, "must be at least %s", fe.Param())
	case "lte":
		return model.NewValidationError(field, "must be at most %s", fe.Param())
	default:
		return model.NewValidationError(field, "failed %s validation", fe.Tag())
	}
}
