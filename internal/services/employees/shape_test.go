package employees_test

import (
	"iter"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subeerhaldar/graphql-demo/internal/models"
	"github.com/subeerhaldar/graphql-demo/internal/services/employees"
)

func staff() []models.Employee {
	return []models.Employee{
		{ID: 1, Name: "Alice", Department: "Eng", Salary: decimal.NewFromInt(90000)},
		{ID: 2, Name: "Bob", Department: "Sales", Salary: decimal.NewFromInt(70000)},
		{ID: 3, Name: "Carol", Department: "Eng", Salary: decimal.NewFromInt(70000)},
		{ID: 4, Name: "Alina", Department: "Ops", Salary: decimal.NewFromInt(50000)},
	}
}

func seqOf(list []models.Employee, err error) iter.Seq2[models.Employee, error] {
	return func(yield func(models.Employee, error) bool) {
		if err != nil {
			yield(models.Employee{}, err)
			return
		}
		for _, employee := range list {
			if !yield(employee, nil) {
				return
			}
		}
	}
}

func ids(list []models.Employee) []int {
	result := make([]int, 0, len(list))
	for _, employee := range list {
		result = append(result, employee.ID)
	}
	return result
}

func TestShape_Filter(t *testing.T) {
	t.Parallel()

	gte := decimal.NewFromInt(60000)
	lte := decimal.NewFromInt(70000)

	tests := []struct {
		name   string
		filter employees.Filter
		want   []int
	}{
		{name: "no criteria", filter: employees.Filter{}, want: []int{1, 2, 3, 4}},
		{name: "ids", filter: employees.Filter{IDs: []int{4, 2, 99}}, want: []int{2, 4}},
		{name: "exact name", filter: employees.Filter{Name: ptr("Bob")}, want: []int{2}},
		{name: "name contains", filter: employees.Filter{NameContains: ptr("Al")}, want: []int{1, 4}},
		{name: "department", filter: employees.Filter{Department: ptr("Eng")}, want: []int{1, 3}},
		{name: "salary range", filter: employees.Filter{SalaryGte: &gte, SalaryLte: &lte}, want: []int{2, 3}},
		{name: "combined", filter: employees.Filter{Department: ptr("Eng"), SalaryLte: &lte}, want: []int{3}},
		{name: "nothing matches", filter: employees.Filter{Name: ptr("Zed")}, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := employees.Shape(seqOf(staff(), nil), tt.filter, nil)

			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestShape_Order(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []int
	}{
		{name: "by name", raw: "name", want: []int{1, 4, 2, 3}},
		{name: "salary descending", raw: "-salary", want: []int{1, 2, 3, 4}},
		{name: "stable ties", raw: "salary", want: []int{4, 2, 3, 1}},
		{name: "multi key", raw: "department, -name", want: []int{3, 1, 4, 2}},
		{name: "case insensitive", raw: "-ID", want: []int{4, 3, 2, 1}},
		{name: "empty", raw: "", want: []int{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			orders, err := employees.ParseOrder(tt.raw)
			require.NoError(t, err)

			got, err := employees.Shape(seqOf(staff(), nil), employees.Filter{}, orders)

			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestShape_Errors(t *testing.T) {
	t.Parallel()

	_, err := employees.ParseOrder("name,-age")
	require.ErrorIs(t, err, employees.ErrUnknownField)

	_, err = employees.Shape(seqOf(staff(), nil), employees.Filter{}, []employees.Order{{Field: "age"}})
	require.ErrorIs(t, err, employees.ErrUnknownField)

	_, err = employees.Shape(seqOf(nil, assert.AnError), employees.Filter{}, nil)
	require.ErrorIs(t, err, assert.AnError)
}

func TestParseFields(t *testing.T) {
	t.Parallel()

	fields, err := employees.ParseFields(" ID, name ,,salary")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "salary"}, fields)

	fields, err = employees.ParseFields("")
	require.NoError(t, err)
	assert.Empty(t, fields)

	_, err = employees.ParseFields("id,bogus")
	require.ErrorIs(t, err, employees.ErrUnknownField)
}

func TestProject(t *testing.T) {
	t.Parallel()

	alice := staff()[0]

	all, err := employees.Project(alice, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"id":         1,
		"name":       "Alice",
		"department": "Eng",
		"salary":     alice.Salary,
	}, all)

	some, err := employees.Project(alice, []string{"id", " Name "})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": 1, "name": "Alice"}, some)

	_, err = employees.Project(alice, []string{"id", "age"})
	require.ErrorIs(t, err, employees.ErrUnknownField)
}
