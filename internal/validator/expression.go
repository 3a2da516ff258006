package validator

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"docschema/internal/value"
)

// ExpressionEngine compiles and runs the boolean expressions used by custom
// validation rules. Compiled programs are cached by source text.
//
// An expression sees `value` (the extracted value) and `field` (the field
// name), plus the helper functions DIGITS, NUMBER, TODAY and DATE.
type ExpressionEngine struct {
	mu       sync.RWMutex
	programs map[string]*vm.Program
}

// NewExpressionEngine creates an engine with an empty program cache.
func NewExpressionEngine() *ExpressionEngine {
	return &ExpressionEngine{programs: make(map[string]*vm.Program)}
}

// Compile checks that expression is a valid boolean expression.
func (e *ExpressionEngine) Compile(expression string) error {
	_, err := e.program(expression)
	return err
}

// Evaluate runs expression for one field value.
func (e *ExpressionEngine) Evaluate(expression, field string, v any) (bool, error) {
	program, err := e.program(expression)
	if err != nil {
		return false, err
	}
	out, err := expr.Run(program, map[string]any{"value": v, "field": field})
	if err != nil {
		return false, err
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("expression %q returned %T, want bool", expression, out)
	}
	return ok, nil
}

func (e *ExpressionEngine) program(expression string) (*vm.Program, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, fmt.Errorf("empty expression")
	}

	e.mu.RLock()
	prog, ok := e.programs[expression]
	e.mu.RUnlock()
	if ok {
		return prog, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if prog, ok := e.programs[expression]; ok {
		return prog, nil
	}

	prog, err := expr.Compile(expression,
		expr.Env(map[string]any{"value": nil, "field": ""}),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
		expr.Function("DIGITS", func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("DIGITS requires 1 argument")
			}
			return value.DigitCount(value.String(params[0])), nil
		}),
		expr.Function("NUMBER", func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("NUMBER requires 1 argument")
			}
			f, ok := value.ToLooseFloat(params[0])
			if !ok {
				return nil, fmt.Errorf("NUMBER argument %v is not numeric", params[0])
			}
			return f, nil
		}),
		expr.Function("TODAY", func(params ...any) (any, error) {
			return time.Now().UTC().Format("2006-01-02"), nil
		}),
		expr.Function("DATE", func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("DATE requires 1 argument")
			}
			t, err := value.ParseDate(value.String(params[0]))
			if err != nil {
				return nil, err
			}
			return t.Format("2006-01-02"), nil
		}),
	)
	if err != nil {
		return nil, err
	}
	e.programs[expression] = prog
	return prog, nil
}
