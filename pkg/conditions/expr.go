// Package conditions provides reusable naica Conditions.
package conditions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/denizgursoy/naica/pkg/naica"
)

// ErrInvalidExpression is returned when an expression does not compile.
var ErrInvalidExpression = errors.New("invalid expression")

// Expression is a Condition written in expr-lang and evaluated against the
// run data, for example `status == "paid" && len(items) > 0`.
type Expression struct {
	source  string
	program *vm.Program
}

// Expr compiles source. Variables that are missing from the run data
// evaluate to nil.
func Expr(source string) (*Expression, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidExpression)
	}

	program, err := expr.Compile(source, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidExpression, source, err)
	}
	return &Expression{source: source, program: program}, nil
}

// MustExpr is like Expr but panics when source does not compile.
func MustExpr(source string) *Expression {
	e, err := Expr(source)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Expression) String() string {
	return e.source
}

// Evaluate implements naica.Condition. Runtime errors are logged and count
// as false.
func (e *Expression) Evaluate(rc *naica.RunContext) bool {
	output, err := expr.Run(e.program, rc.Data().Values())
	if err != nil {
		rc.Logger().Warn("Expression evaluation failed", "expression", e.source, "error", err)
		return false
	}
	result, ok := output.(bool)
	return ok && result
}
