package graph

import (
	"errors"
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"

	"github.com/subeerhaldar/graphql-demo/internal/models"
	"github.com/subeerhaldar/graphql-demo/internal/services/employees"
)

var ErrInvalidArgument = errors.New("invalid argument")

type resolver struct {
	query    *employees.Query
	mutation *employees.Mutation
}

type sortArg struct {
	Field     string `mapstructure:"field"`
	Direction string `mapstructure:"direction"`
}

type createArgs struct {
	Name       string          `mapstructure:"name"`
	Department string          `mapstructure:"department"`
	Salary     decimal.Decimal `mapstructure:"salary"`
}

type updateArgs struct {
	ID                   int `mapstructure:"id"`
	models.EmployeePatch `mapstructure:",squash"`
}

type idArgs struct {
	ID int `mapstructure:"id"`
}

func (r *resolver) employees(p graphql.ResolveParams) (any, error) {
	var filter employees.Filter
	if where, ok := p.Args["where"]; ok && where != nil {
		if err := decode(where, &filter); err != nil {
			return nil, err
		}
	}

	var sorts []sortArg
	if order, ok := p.Args["order"]; ok && order != nil {
		if err := decode(order, &sorts); err != nil {
			return nil, err
		}
	}
	orders := make([]employees.Order, 0, len(sorts))
	for _, sort := range sorts {
		orders = append(orders, employees.Order{Field: sort.Field, Desc: sort.Direction == directionDesc})
	}

	list, err := employees.Shape(r.query.ListEmployees(p.Context), filter, orders)
	if err != nil {
		return nil, err
	}

	return list, nil
}

func (r *resolver) employee(p graphql.ResolveParams) (any, error) {
	var args idArgs
	if err := decode(p.Args, &args); err != nil {
		return nil, err
	}

	employee, found, err := r.query.GetEmployee(p.Context, args.ID)
	if err != nil || !found {
		return nil, err
	}

	return employee, nil
}

func (r *resolver) createEmployee(p graphql.ResolveParams) (any, error) {
	var args createArgs
	if err := decode(p.Args, &args); err != nil {
		return nil, err
	}

	return r.mutation.CreateEmployee(p.Context, args.Name, args.Department, args.Salary)
}

func (r *resolver) updateEmployee(p graphql.ResolveParams) (any, error) {
	var args updateArgs
	if err := decode(p.Args, &args); err != nil {
		return nil, err
	}

	employee, found, err := r.mutation.UpdateEmployee(p.Context, args.ID, args.EmployeePatch)
	if err != nil || !found {
		return nil, err
	}

	return employee, nil
}

func (r *resolver) deleteEmployee(p graphql.ResolveParams) (any, error) {
	var args idArgs
	if err := decode(p.Args, &args); err != nil {
		return nil, err
	}

	return r.mutation.DeleteEmployee(p.Context, args.ID)
}

// decode copies loosely typed graphql arguments into out. Null arguments leave the target's
// zero value in place.
func decode(input, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create argument decoder: %w", err)
	}

	if err = decoder.Decode(input); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return nil
}
