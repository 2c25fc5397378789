// In file: internal/tools/evaluator.go
package tools

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

// ModeEvaluate is the only evaluation mode the calculator supports.
const ModeEvaluate = "evaluate"

const (
	// MaxSignificantDigits bounds Precision in scientific mode. float64 carries
	// no more than 17 significant decimal digits.
	MaxSignificantDigits = 17
	// MaxDecimals bounds Precision in fixed notation.
	MaxDecimals = 100
)

// MathOptions mirrors the optional arguments of the calculator call.
type MathOptions struct {
	Mode       string `json:"mode"`
	Precision  int    `json:"precision"`
	Scientific bool   `json:"scientific"`
}

// DefaultMathOptions returns the options used when the caller supplies none.
func DefaultMathOptions() MathOptions {
	return MathOptions{
		Mode:       ModeEvaluate,
		Precision:  10,
		Scientific: true,
	}
}

// Evaluator computes the value of a mathematical expression.
type Evaluator interface {
	Evaluate(ctx context.Context, expression string, opts MathOptions) (string, error)
}

var (
	ErrEmptyExpression = errors.New("empty expression")
	ErrNonFinite       = errors.New("result is not a finite number")
	ErrIntegerOverflow = errors.New("integer overflow")
)

// ExprEvaluator evaluates expressions with expr-lang. The environment exposes
// the constants pi and e plus the common math functions on top of expr's
// builtins (abs, ceil, floor, round, min, max).
type ExprEvaluator struct {
	env     map[string]any
	options []expr.Option
}

var _ Evaluator = (*ExprEvaluator)(nil)

func NewExprEvaluator() *ExprEvaluator {
	env := map[string]any{
		"pi": math.Pi,
		"e":  math.E,
	}

	options := []expr.Option{expr.Env(env)}
	for name, fn := range unaryMathFuncs {
		options = append(options, expr.Function(name, unary(name, fn)))
	}
	for _, op := range checkedIntOps {
		impl := op.impl
		options = append(options,
			expr.Function(op.name, func(params ...any) (any, error) {
				r, ok := impl(params[0].(int), params[1].(int))
				if !ok {
					return nil, ErrIntegerOverflow
				}
				return r, nil
			}, new(func(int, int) int)),
			expr.Operator(op.operator, op.name),
		)
	}
	options = append(options, expr.Function("pow", func(params ...any) (any, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("pow expects 2 arguments, got %d", len(params))
		}
		base, err := toFloat(params[0])
		if err != nil {
			return nil, err
		}
		exp, err := toFloat(params[1])
		if err != nil {
			return nil, err
		}
		return math.Pow(base, exp), nil
	}))

	return &ExprEvaluator{env: env, options: options}
}

// checkedIntOps replace expr's wrapping integer arithmetic.
var checkedIntOps = []struct {
	operator string
	name     string
	impl     func(a, b int) (int, bool)
}{
	{"+", "checkedAdd", checkedAdd},
	{"-", "checkedSub", checkedSub},
	{"*", "checkedMul", checkedMul},
}

func checkedAdd(a, b int) (int, bool) {
	r := a + b
	return r, (r > a) == (b > 0)
}

func checkedSub(a, b int) (int, bool) {
	r := a - b
	return r, (r < a) == (b > 0)
}

func checkedMul(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	r := a * b
	if r/b != a || (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, false
	}
	return r, true
}

var unaryMathFuncs = map[string]func(float64) float64{
	"sqrt":  math.Sqrt,
	"cbrt":  math.Cbrt,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"log":   math.Log,
	"log10": math.Log10,
	"log2":  math.Log2,
	"exp":   math.Exp,
}

func unary(name string, fn func(float64) float64) func(params ...any) (any, error) {
	return func(params ...any) (any, error) {
		if len(params) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(params))
		}
		x, err := toFloat(params[0])
		if err != nil {
			return nil, err
		}
		return fn(x), nil
	}
}

// Evaluate compiles and runs expression, then renders the value as text.
func (e *ExprEvaluator) Evaluate(ctx context.Context, expression string, opts MathOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if opts.Mode != "" && opts.Mode != ModeEvaluate {
		return "", fmt.Errorf("unsupported mode %q", opts.Mode)
	}
	if strings.TrimSpace(expression) == "" {
		return "", ErrEmptyExpression
	}

	program, err := expr.Compile(expression, e.options...)
	if err != nil {
		return "", err
	}
	value, err := expr.Run(program, e.env)
	if err != nil {
		return "", err
	}
	return formatValue(value, opts)
}

func formatValue(value any, opts MathOptions) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", errors.New("expression produced no value")
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float32:
		return formatFloat(float64(v), opts)
	case float64:
		return formatFloat(v, opts)
	case bool:
		return strconv.FormatBool(v), nil
	case string:
		return v, nil
	default:
		return fmt.Sprint(v), nil
	}
}

func formatFloat(v float64, opts MathOptions) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", ErrNonFinite
	}
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	prec := opts.Precision
	if prec <= 0 {
		prec = -1
	}
	var s string
	if opts.Scientific {
		s = strconv.FormatFloat(v, 'g', min(prec, MaxSignificantDigits), 64)
	} else {
		s = strconv.FormatFloat(v, 'f', min(prec, MaxDecimals), 64)
		if strings.Contains(s, ".") {
			s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
		}
	}
	if s == "-0" {
		s = "0"
	}
	return s, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}
