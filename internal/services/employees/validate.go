package employees

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"

	"github.com/subeerhaldar/graphql-demo/internal/models"
)

// ErrInvalidEmployee is returned when strict validation rejects an employee's fields.
var ErrInvalidEmployee = errors.New("invalid employee")

// Validator checks employee fields: name and department must not be blank and salary must
// not be negative.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// decimal.Decimal is a struct; the "nonnegative" rule sees its exact sign instead.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if amount, ok := field.Interface().(decimal.Decimal); ok {
			return amount.Sign()
		}
		return nil
	}, decimal.Decimal{})

	mustRegister(validate, "notblank", validators.NotBlank)
	mustRegister(validate, "nonnegative", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() >= 0
	})

	return &Validator{validate: validate}
}

func mustRegister(validate *validator.Validate, tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("failed to register %q validation: %v", tag, err))
	}
}

// Employee validates every field of a new employee.
func (v *Validator) Employee(employee models.Employee) error {
	return describe(v.validate.Struct(employee))
}

// Patch validates only the fields a partial update supplies.
func (v *Validator) Patch(patch models.EmployeePatch) error {
	var fields []string
	if patch.Name != nil {
		fields = append(fields, "Name")
	}
	if patch.Department != nil {
		fields = append(fields, "Department")
	}
	if patch.Salary != nil {
		fields = append(fields, "Salary")
	}
	if len(fields) == 0 {
		return nil
	}

	return describe(v.validate.StructPartial(patch.Apply(models.Employee{}), fields...))
}

func describe(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %w", ErrInvalidEmployee, err)
	}

	problems := make([]string, 0, len(fieldErrors))
	for _, fieldErr := range fieldErrors {
		switch fieldErr.Tag() {
		case "notblank":
			problems = append(problems, fieldErr.Field()+" must not be blank")
		case "nonnegative":
			problems = append(problems, fieldErr.Field()+" must not be negative")
		default:
			problems = append(problems, fieldErr.Field()+" failed "+fieldErr.Tag())
		}
	}

	return fmt.Errorf("%w: %s", ErrInvalidEmployee, strings.Join(problems, ", "))
}
