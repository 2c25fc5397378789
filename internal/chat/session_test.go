package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dileep-u-k/chat-agent/internal/agent"
	"github.com/dileep-u-k/chat-agent/internal/tools"
)

type fakeAgent struct {
	invoke func(ctx context.Context, message string) (agent.Result, error)
}

func (f *fakeAgent) Invoke(ctx context.Context, message string) (agent.Result, error) {
	return f.invoke(ctx, message)
}

func returning(r agent.Result) *fakeAgent {
	return &fakeAgent{invoke: func(context.Context, string) (agent.Result, error) { return r, nil }}
}

type fakeCalculator struct {
	result string
	seen   []string
}

func (f *fakeCalculator) Calculate(_ context.Context, expression string) string {
	f.seen = append(f.seen, expression)
	return f.result
}

func newTestSession(t *testing.T, a Agent, calc Calculator) *Session {
	t.Helper()
	s, err := NewSession(a, calc, nil)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s
}

func TestProcessRoutesEachResultShape(t *testing.T) {
	tests := []struct {
		name   string
		result agent.Result
		want   string
	}{
		{
			name:   "primary output is sanitized",
			result: agent.PrimaryOutput{Text: "Result: 21"},
			want:   " 21",
		},
		{
			name:   "alternate output is sanitized",
			result: agent.AlternateOutput{Text: "Answer: Paris (using the calculate_math tool)"},
			want:   " Paris ",
		},
		{
			name: "math invocation is computed",
			result: agent.ClassifyPayload(
				`{"name": "calculate_math", "parameters": {"expression": "3 * 7"}}`),
			want: "the result of 3 * 7 is 21",
		},
		{
			name:   "unrecognized mapping is returned raw",
			result: agent.Unrecognized{Raw: `{"foo": "Result:"}`},
			want:   `{"foo": "Result:"}`,
		},
		{
			name:   "plain text is sanitized",
			result: agent.RawText{Text: "I will calculate 4"},
			want:   " 4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, returning(tt.result), &fakeCalculator{result: "21"})
			got := s.Process(context.Background(), "3 * 7")
			if got != tt.want {
				t.Errorf("Process() = %q, want %q", got, tt.want)
			}
			if got == "" {
				t.Error("Process() returned empty text")
			}
		})
	}
}

func TestProcessMathInvocationScenario(t *testing.T) {
	calc := &fakeCalculator{result: "21"}
	s := newTestSession(t, returning(agent.ToolInvocation{
		Name:       tools.MathToolName,
		Parameters: map[string]any{"expression": "3 * 7"},
		Raw:        `{"name":"calculate_math","parameters":{"expression":"3 * 7"}}`,
	}), calc)

	if got := s.Process(context.Background(), "3 * 7"); got != "the result of 3 * 7 is 21" {
		t.Errorf("Process() = %q", got)
	}
	if len(calc.seen) != 1 || calc.seen[0] != "3 * 7" {
		t.Errorf("calculator saw %v", calc.seen)
	}
}

func TestProcessMathInvocationIsNotSanitized(t *testing.T) {
	s := newTestSession(t, returning(agent.ToolInvocation{
		Name:       tools.MathToolName,
		Parameters: map[string]any{"expression": "1/0"},
	}), &fakeCalculator{result: "computation error: Result: undefined"})

	want := "the result of 1/0 is computation error: Result: undefined"
	if got := s.Process(context.Background(), "1/0"); got != want {
		t.Errorf("Process() = %q, want %q", got, want)
	}
}

func TestProcessOtherInvocationsAreReturnedRaw(t *testing.T) {
	tests := []agent.ToolInvocation{
		{Name: "get_weather", Parameters: map[string]any{"expression": "3 * 7"}, Raw: `{"name":"get_weather"}`},
		{Name: tools.MathToolName, Parameters: map[string]any{}, Raw: `{"name":"calculate_math"}`},
		{Name: tools.MathToolName, Parameters: map[string]any{"expression": 21}, Raw: `{"name":"calculate_math","parameters":{"expression":21}}`},
	}

	for _, inv := range tests {
		calc := &fakeCalculator{result: "21"}
		s := newTestSession(t, returning(inv), calc)
		if got := s.Process(context.Background(), "x"); got != inv.Raw {
			t.Errorf("Process() = %q, want %q", got, inv.Raw)
		}
		if len(calc.seen) != 0 {
			t.Errorf("calculator should not run for %+v", inv)
		}
	}
}

func TestProcessWithRealCalculator(t *testing.T) {
	s := newTestSession(t, returning(agent.ClassifyPayload(
		`{"name": "calculate_math", "parameters": {"expression": "2 ^ 10"}}`)), tools.NewMathTool())

	if got := s.Process(context.Background(), "2^10"); got != "the result of 2 ^ 10 is 1024" {
		t.Errorf("Process() = %q", got)
	}
}

func TestProcessNeverFails(t *testing.T) {
	tests := []struct {
		name  string
		agent *fakeAgent
		want  string
	}{
		{
			name: "agent error",
			agent: &fakeAgent{invoke: func(context.Context, string) (agent.Result, error) {
				return nil, errors.New("model unavailable")
			}},
			want: "error processing message: model unavailable",
		},
		{
			name: "agent panic",
			agent: &fakeAgent{invoke: func(context.Context, string) (agent.Result, error) {
				panic("nil map")
			}},
			want: "error processing message: nil map",
		},
		{
			name:  "nil result",
			agent: returning(nil),
			want:  "error processing message: agent returned no result",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, tt.agent, &fakeCalculator{})
			if got := s.Process(context.Background(), "hi"); got != tt.want {
				t.Errorf("Process() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProcessForwardsMessage(t *testing.T) {
	var seen string
	s := newTestSession(t, &fakeAgent{invoke: func(_ context.Context, message string) (agent.Result, error) {
		seen = message
		return agent.RawText{Text: "ok"}, nil
	}}, &fakeCalculator{})

	s.Process(context.Background(), "  keep my spacing ")
	if seen != "  keep my spacing " {
		t.Errorf("agent saw %q", seen)
	}
}

func TestNewSessionValidation(t *testing.T) {
	if _, err := NewSession(nil, &fakeCalculator{}, nil); err == nil {
		t.Error("NewSession without agent should fail")
	}
	if _, err := NewSession(returning(agent.RawText{}), nil, nil); err == nil {
		t.Error("NewSession without calculator should fail")
	}
	s, err := NewSession(returning(agent.RawText{Text: "calculate_math"}), &fakeCalculator{}, NewSanitizer([]string{}))
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if got := s.Process(context.Background(), "x"); !strings.Contains(got, "calculate_math") {
		t.Errorf("custom sanitizer ignored: %q", got)
	}
}
