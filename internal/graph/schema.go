package graph

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/subeerhaldar/graphql-demo/internal/services/employees"
)

const (
	directionAsc  = "ASC"
	directionDesc = "DESC"
)

// NewSchema builds the employee schema on top of the query and mutation services.
func NewSchema(query *employees.Query, mutation *employees.Mutation) (graphql.Schema, error) {
	res := &resolver{query: query, mutation: mutation}

	employeeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Employee",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"name":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"department": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"salary":     &graphql.Field{Type: graphql.NewNonNull(Decimal)},
		},
	})

	filterInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "EmployeeFilterInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":           &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.Int))},
			"name":         &graphql.InputObjectFieldConfig{Type: graphql.String},
			"nameContains": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"department":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"salaryGte":    &graphql.InputObjectFieldConfig{Type: Decimal},
			"salaryLte":    &graphql.InputObjectFieldConfig{Type: Decimal},
		},
	})

	sortDirection := graphql.NewEnum(graphql.EnumConfig{
		Name: "SortDirection",
		Values: graphql.EnumValueConfigMap{
			directionAsc:  &graphql.EnumValueConfig{Value: directionAsc},
			directionDesc: &graphql.EnumValueConfig{Value: directionDesc},
		},
	})

	sortField := graphql.NewEnum(graphql.EnumConfig{
		Name: "EmployeeSortField",
		Values: graphql.EnumValueConfigMap{
			"ID":         &graphql.EnumValueConfig{Value: employees.FieldID},
			"NAME":       &graphql.EnumValueConfig{Value: employees.FieldName},
			"DEPARTMENT": &graphql.EnumValueConfig{Value: employees.FieldDepartment},
			"SALARY":     &graphql.EnumValueConfig{Value: employees.FieldSalary},
		},
	})

	sortInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "EmployeeSortInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"field":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(sortField)},
			"direction": &graphql.InputObjectFieldConfig{Type: sortDirection, DefaultValue: directionAsc},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"employees": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(employeeType))),
				Args: graphql.FieldConfigArgument{
					"where": &graphql.ArgumentConfig{Type: filterInput},
					"order": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.NewNonNull(sortInput))},
				},
				Resolve: res.employees,
			},
			"employee": &graphql.Field{
				Type: employeeType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: res.employee,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createEmployee": &graphql.Field{
				Type: graphql.NewNonNull(employeeType),
				Args: graphql.FieldConfigArgument{
					"name":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"department": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"salary":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(Decimal)},
				},
				Resolve: res.createEmployee,
			},
			"updateEmployee": &graphql.Field{
				Type: employeeType,
				Args: graphql.FieldConfigArgument{
					"id":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"name":       &graphql.ArgumentConfig{Type: graphql.String},
					"department": &graphql.ArgumentConfig{Type: graphql.String},
					"salary":     &graphql.ArgumentConfig{Type: Decimal},
				},
				Resolve: res.updateEmployee,
			},
			"deleteEmployee": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: res.deleteEmployee,
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: queryType, Mutation: mutationType})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to build graphql schema: %w", err)
	}

	return schema, nil
}
