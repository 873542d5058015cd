package graph

import (
	"encoding/json"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/shopspring/decimal"
)

// Decimal is an exact decimal number. It is written as a JSON number and read from numeric or
// string literals and variables.
var Decimal = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Decimal",
	Description: "An exact decimal number, e.g. 90000.50",
	Serialize:   serializeDecimal,
	ParseValue:  parseDecimal,
	ParseLiteral: func(valueAST ast.Value) any {
		switch value := valueAST.(type) {
		case *ast.IntValue:
			return parseDecimal(value.Value)
		case *ast.FloatValue:
			return parseDecimal(value.Value)
		case *ast.StringValue:
			return parseDecimal(value.Value)
		}
		return nil
	},
})

func serializeDecimal(value any) any {
	switch amount := value.(type) {
	case decimal.Decimal:
		return json.Number(amount.String())
	case *decimal.Decimal:
		if amount == nil {
			return nil
		}
		return json.Number(amount.String())
	}
	return nil
}

// parseDecimal returns nil for anything that is not a decimal, which graphql-go reports as an
// invalid value.
func parseDecimal(value any) any {
	switch raw := value.(type) {
	case decimal.Decimal:
		return raw
	case string:
		if amount, err := decimal.NewFromString(raw); err == nil {
			return amount
		}
	case json.Number:
		if amount, err := decimal.NewFromString(raw.String()); err == nil {
			return amount
		}
	case int:
		return decimal.NewFromInt(int64(raw))
	case int64:
		return decimal.NewFromInt(raw)
	case float64:
		return decimal.NewFromFloat(raw)
	}
	return nil
}
