// Package guards compiles and evaluates the guard expressions attached
// to decision branches in machine definitions.
package guards

import "context"

// Engine evaluates guard expressions against input data.
// Two implementations: CEL (default) and Expr.
type Engine interface {
	Name() string
	// Check compiles the expression without evaluating it, reporting
	// syntax errors. Used at definition-build time.
	Check(expression string) error
	Evaluate(ctx context.Context, expression string, data map[string]any) (any, error)
}

// ForName returns the engine registered under name, defaulting to CEL
// for an empty name.
func ForName(name string) (Engine, error) {
	switch name {
	case "", "cel":
		return NewCELEngine()
	case "expr":
		return NewExprEngine(), nil
	default:
		return nil, unknownEngine(name)
	}
}
