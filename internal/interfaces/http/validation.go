package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/shopspring/decimal"
)

// NewValidator returns a validator that names fields by their json tag and compares
// decimal.Decimal fields numerically (gt, gte, lte).
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// bindBody parses the JSON body into out and validates it. Failures wrap
// domain.ErrValidation.
func bindBody(c *fiber.Ctx, v *validator.Validate, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: malformed request body", domain.ErrValidation)
	}
	return validate(v, out)
}

// bindQuery parses the query string into out and validates it.
func bindQuery(c *fiber.Ctx, v *validator.Validate, out any) error {
	if err := c.QueryParser(out); err != nil {
		return fmt.Errorf("%w: malformed query string", domain.ErrValidation)
	}
	return validate(v, out)
}

func validate(v *validator.Validate, out any) error {
	err := v.Struct(out)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, e.Field()+" "+validationMessage(e))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_if":
		return "is required"
	case "uuid":
		return "must be a UUID"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be at least " + e.Param()
	case "lte":
		return "must be at most " + e.Param()
	case "min":
		return "must have at least " + e.Param()
	case "max":
		return "must have at most " + e.Param()
	case "datetime":
		return "must be a date formatted " + e.Param()
	case "email":
		return "must be an email address"
	case "nefield":
		return "must differ from " + e.Param()
	default:
		return "is invalid"
	}
}
