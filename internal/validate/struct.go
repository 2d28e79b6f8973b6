package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldError is one failed constraint on one field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	return e.Field + " " + e.Message
}

// ValidationErrors lists every failed field of a request.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.String()
	}
	return strings.Join(parts, "; ")
}

// Is lets callers match validation failures with common.ErrInvalidInput.
func (v ValidationErrors) Is(target error) bool {
	return target == common.ErrInvalidInput
}

// Field returns the message for field, or "" when it passed.
func (v ValidationErrors) Field(field string) string {
	for _, fe := range v {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return lowerFirst(fld.Name)
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(model.Date); ok {
			return d.Time
		}
		return nil
	}, model.Date{})

	mustRegister(v, "fintrack_email", func(fl validator.FieldLevel) bool {
		return Email(fl.Field().String())
	})
	mustRegister(v, "fintrack_password", func(fl validator.FieldLevel) bool {
		return Password(fl.Field().String())
	})
	mustRegister(v, "fintrack_color", func(fl validator.FieldLevel) bool {
		return HexColor(fl.Field().String())
	})
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return Required(fl.Field().String())
	})
	mustRegister(v, "positive", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && Amount(d)
	})

	v.RegisterStructValidation(budgetWindow, model.BudgetRequest{})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

func budgetWindow(sl validator.StructLevel) {
	req, ok := sl.Current().Interface().(model.BudgetRequest)
	if !ok || req.EndDate == nil || req.StartDate.IsZero() {
		return
	}
	if req.EndDate.Before(req.StartDate.Time) {
		sl.ReportError(req.EndDate, "endDate", "EndDate", "gtefield", "startDate")
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// Struct validates a request value against its validate tags. It returns
// nil or ValidationErrors.
func Struct(v any) error {
	err := structValidator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", common.ErrInvalidInput, err)
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "fintrack_email":
		return "must be a valid email address"
	case "fintrack_password":
		return fmt.Sprintf("must be at least %d characters", MinPasswordLength)
	case "positive":
		return "must be greater than zero"
	case "gt":
		return "must be greater than " + fe.Param()
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "fintrack_color":
		return "must be a hex color such as #4CAF50"
	case "eqfield":
		if fe.Field() == "confirmPassword" {
			return "does not match password"
		}
		return "must match " + lowerFirst(fe.Param())
	case "gtefield":
		return "must not be before " + fe.Param()
	default:
		if _, isTime := fe.Value().(time.Time); isTime {
			return "is not a valid date"
		}
		return "is invalid"
	}
}
