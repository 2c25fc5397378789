// In file: internal/tools/math_tool.go
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/dileep-u-k/chat-agent/internal/safecall"
)

// MathToolName is the name the model uses to call the calculator.
const MathToolName = "calculate_math"

// computationErrorPrefix prefixes every failure returned by the calculator.
const computationErrorPrefix = "computation error"

// MathTool adapts an Evaluator to the fixed calculator call signature.
// It never fails: every evaluation error becomes "computation error: {details}".
type MathTool struct {
	evaluator Evaluator
}

var _ ToolExecutor = (*MathTool)(nil)

// NewMathTool returns a calculator backed by expr-lang.
func NewMathTool() *MathTool {
	return NewMathToolWithEvaluator(NewExprEvaluator())
}

func NewMathToolWithEvaluator(evaluator Evaluator) *MathTool {
	return &MathTool{evaluator: evaluator}
}

// Calculate evaluates expression with the default options.
func (mt *MathTool) Calculate(ctx context.Context, expression string) string {
	return mt.CalculateWithOptions(ctx, expression, DefaultMathOptions())
}

// CalculateWithOptions evaluates expression without any validation of its own;
// the evaluator decides what is well formed.
func (mt *MathTool) CalculateWithOptions(ctx context.Context, expression string, opts MathOptions) string {
	return safecall.String(computationErrorPrefix, func() (string, error) {
		return mt.evaluator.Evaluate(ctx, expression, opts)
	})
}

func (mt *MathTool) Definition() Tool {
	return NewFunctionTool(
		MathToolName,
		"Evaluates a mathematical expression and returns the numeric result. "+
			"Supports + - * / % ^, parentheses, pi, e and functions such as sqrt, pow, sin, cos, tan, log, exp, abs, round.",
		JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"expression": {
					Type:        "string",
					Description: "The expression to evaluate, e.g. '3 * 7' or 'sqrt(16) + 2 ^ 3'.",
				},
				"mode": {
					Type:        "string",
					Description: "Evaluation mode. Only 'evaluate' is supported.",
				},
				"precision": {
					Type:        "integer",
					Description: "Number of significant digits for decimal results. Defaults to 10.",
				},
				"scientific": {
					Type:        "boolean",
					Description: "Allow scientific notation for very large or small results. Defaults to true.",
				},
			},
			Required: []string{"expression"},
		},
	)
}

// Execute decodes the model's arguments and runs the calculation. Only
// undecodable arguments produce an error; evaluation failures are returned as text.
func (mt *MathTool) Execute(ctx context.Context, arguments string) (string, error) {
	defaults := DefaultMathOptions()
	args := struct {
		Expression string  `json:"expression"`
		Mode       string  `json:"mode"`
		Precision  float64 `json:"precision"`
		Scientific bool    `json:"scientific"`
	}{
		Mode:       defaults.Mode,
		Precision:  float64(defaults.Precision),
		Scientific: defaults.Scientific,
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments for %s: %w", MathToolName, err)
	}

	opts := MathOptions{
		Mode:       args.Mode,
		Precision:  clampPrecision(args.Precision),
		Scientific: args.Scientific,
	}
	return mt.CalculateWithOptions(ctx, args.Expression, opts), nil
}

// clampPrecision converts the model-supplied precision before it reaches int,
// where out-of-range floats would wrap.
func clampPrecision(p float64) int {
	switch {
	case math.IsNaN(p) || p <= 0:
		return 0
	case p > MaxDecimals:
		return MaxDecimals
	default:
		return int(p)
	}
}
