package models

import "github.com/shopspring/decimal"

// Employee represents an employee entity.
type Employee struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"       validate:"notblank"`
	Department string          `json:"department" validate:"notblank"`
	Salary     decimal.Decimal `json:"salary"     validate:"nonnegative"`
}

// EmployeePatch holds the fields of a partial update. Nil fields keep their stored value.
type EmployeePatch struct {
	Name       *string          `json:"name"       mapstructure:"name"`
	Department *string          `json:"department" mapstructure:"department"`
	Salary     *decimal.Decimal `json:"salary"     mapstructure:"salary"`
}

// Empty reports whether the patch carries no field at all.
func (p EmployeePatch) Empty() bool {
	return p.Name == nil && p.Department == nil && p.Salary == nil
}

// Apply returns a copy of e with the supplied patch fields written over it.
func (p EmployeePatch) Apply(e Employee) Employee {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Department != nil {
		e.Department = *p.Department
	}
	if p.Salary != nil {
		e.Salary = *p.Salary
	}

	return e
}
