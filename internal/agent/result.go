// In file: internal/agent/result.go
package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Result is what a single agent invocation produced. The concrete type says
// which shape the answer took; callers switch over it exhaustively.
type Result interface {
	isResult()
	// String renders the result the way it would be shown verbatim.
	String() string
}

// PrimaryOutput is a mapping carrying the "output" key, or the final answer
// produced after the agent resolved its own tool calls.
type PrimaryOutput struct {
	Text string
}

// AlternateOutput is a mapping carrying the "response" key.
type AlternateOutput struct {
	Text string
}

// ToolInvocation is a tool call the agent did not resolve itself.
type ToolInvocation struct {
	Name       string
	Parameters map[string]any
	// Raw is the payload as received, used when nobody handles the call.
	Raw string
}

// Unrecognized is a mapping with none of the known keys.
type Unrecognized struct {
	Raw string
}

// RawText is a plain, non-structured answer.
type RawText struct {
	Text string
}

func (PrimaryOutput) isResult()   {}
func (AlternateOutput) isResult() {}
func (ToolInvocation) isResult()  {}
func (Unrecognized) isResult()    {}
func (RawText) isResult()         {}

func (r PrimaryOutput) String() string   { return r.Text }
func (r AlternateOutput) String() string { return r.Text }
func (r ToolInvocation) String() string  { return r.Raw }
func (r Unrecognized) String() string    { return r.Raw }
func (r RawText) String() string         { return r.Text }

// Expression returns the "expression" parameter, or "" when it is absent or
// not a string.
func (r ToolInvocation) Expression() string {
	expr, _ := r.Parameters["expression"].(string)
	return expr
}

// newToolInvocation builds a descriptor whose Raw form is the canonical
// {"name": ..., "parameters": ...} encoding.
func newToolInvocation(name string, params map[string]any) ToolInvocation {
	if params == nil {
		params = map[string]any{}
	}
	raw, err := json.Marshal(map[string]any{"name": name, "parameters": params})
	if err != nil {
		raw = []byte(fmt.Sprintf(`{"name":%q}`, name))
	}
	return ToolInvocation{Name: name, Parameters: params, Raw: string(raw)}
}

// ClassifyPayload decides which Result shape a model reply has. JSON objects
// are inspected for "output", then "response", then a tool "name"; anything
// that isn't a JSON object is RawText.
func ClassifyPayload(text string) Result {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") {
		return RawText{Text: text}
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(trimmed), &payload); err != nil {
		return RawText{Text: text}
	}

	if v, ok := payload["output"]; ok {
		return PrimaryOutput{Text: stringify(v)}
	}
	if v, ok := payload["response"]; ok {
		return AlternateOutput{Text: stringify(v)}
	}
	if name, ok := payload["name"].(string); ok && name != "" {
		params, _ := payload["parameters"].(map[string]any)
		if params == nil {
			params, _ = payload["arguments"].(map[string]any)
		}
		if params == nil {
			params = map[string]any{}
		}
		return ToolInvocation{Name: name, Parameters: params, Raw: trimmed}
	}
	return Unrecognized{Raw: trimmed}
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		b, err := json.Marshal(s)
		if err != nil {
			return fmt.Sprint(s)
		}
		return string(b)
	}
}
