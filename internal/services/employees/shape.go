package employees

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/subeerhaldar/graphql-demo/internal/models"
)

// Employee field names accepted by sorting and projection.
const (
	FieldID         = "id"
	FieldName       = "name"
	FieldDepartment = "department"
	FieldSalary     = "salary"
)

var ErrUnknownField = errors.New("unknown employee field")

// Filter selects employees. Nil criteria match everything; set criteria must all match.
type Filter struct {
	IDs          []int            `mapstructure:"id"`
	Name         *string          `mapstructure:"name"`
	NameContains *string          `mapstructure:"nameContains"`
	Department   *string          `mapstructure:"department"`
	SalaryGte    *decimal.Decimal `mapstructure:"salaryGte"`
	SalaryLte    *decimal.Decimal `mapstructure:"salaryLte"`
}

// Match reports whether employee satisfies every criterion of the filter.
func (f Filter) Match(employee models.Employee) bool {
	switch {
	case len(f.IDs) > 0 && !slices.Contains(f.IDs, employee.ID):
		return false
	case f.Name != nil && employee.Name != *f.Name:
		return false
	case f.NameContains != nil && !strings.Contains(employee.Name, *f.NameContains):
		return false
	case f.Department != nil && employee.Department != *f.Department:
		return false
	case f.SalaryGte != nil && employee.Salary.LessThan(*f.SalaryGte):
		return false
	case f.SalaryLte != nil && employee.Salary.GreaterThan(*f.SalaryLte):
		return false
	}

	return true
}

// Order is one sort key.
type Order struct {
	Field string
	Desc  bool
}

// ParseOrder reads a comma separated list of fields, each optionally prefixed with "-" for
// descending order, e.g. "department,-salary".
func ParseOrder(raw string) ([]Order, error) {
	var orders []Order
	for part := range strings.SplitSeq(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		order := Order{Field: strings.ToLower(part)}
		if rest, ok := strings.CutPrefix(order.Field, "-"); ok {
			order = Order{Field: rest, Desc: true}
		}
		if !knownField(order.Field) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, order.Field)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// ParseFields reads a comma separated projection list such as "id,name". Empty input selects
// every field.
func ParseFields(raw string) ([]string, error) {
	var fields []string
	for part := range strings.SplitSeq(raw, ",") {
		field := strings.ToLower(strings.TrimSpace(part))
		if field == "" {
			continue
		}
		if !knownField(field) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		fields = append(fields, field)
	}

	return fields, nil
}

// Shape drains seq, keeps the employees matching filter and sorts them stably by orders.
// Without orders the sequence order is kept.
func Shape(seq iter.Seq2[models.Employee, error], filter Filter, orders []Order) ([]models.Employee, error) {
	for _, order := range orders {
		if !knownField(order.Field) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, order.Field)
		}
	}

	result := make([]models.Employee, 0)
	for employee, err := range seq {
		if err != nil {
			return nil, err
		}
		if filter.Match(employee) {
			result = append(result, employee)
		}
	}

	if len(orders) > 0 {
		slices.SortStableFunc(result, func(a, b models.Employee) int {
			for _, order := range orders {
				if c := compareBy(order.Field, a, b); c != 0 {
					if order.Desc {
						return -c
					}
					return c
				}
			}
			return 0
		})
	}

	return result, nil
}

// Project returns only the requested fields of employee. No fields means all of them.
func Project(employee models.Employee, fields []string) (map[string]any, error) {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldName, FieldDepartment, FieldSalary}
	}

	projection := make(map[string]any, len(fields))
	for _, field := range fields {
		switch strings.ToLower(strings.TrimSpace(field)) {
		case FieldID:
			projection[FieldID] = employee.ID
		case FieldName:
			projection[FieldName] = employee.Name
		case FieldDepartment:
			projection[FieldDepartment] = employee.Department
		case FieldSalary:
			projection[FieldSalary] = employee.Salary
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
	}

	return projection, nil
}

func knownField(field string) bool {
	switch field {
	case FieldID, FieldName, FieldDepartment, FieldSalary:
		return true
	}
	return false
}

func compareBy(field string, a, b models.Employee) int {
	switch field {
	case FieldName:
		return strings.Compare(a.Name, b.Name)
	case FieldDepartment:
		return strings.Compare(a.Department, b.Department)
	case FieldSalary:
		return a.Salary.Cmp(b.Salary)
	default:
		return cmp.Compare(a.ID, b.ID)
	}
}
