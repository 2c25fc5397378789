// In file: internal/chat/session.go

// Package chat turns a user message into the text shown back to the user.
// It asks the agent, handles the shape of whatever comes back and hides
// mentions of tool usage from the final answer.
package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/dileep-u-k/chat-agent/internal/agent"
	"github.com/dileep-u-k/chat-agent/internal/safecall"
	"github.com/dileep-u-k/chat-agent/internal/tools"
)

const processingErrorPrefix = "error processing message"

// Agent is the part of agent.Agent the session depends on.
type Agent interface {
	Invoke(ctx context.Context, message string) (agent.Result, error)
}

// Calculator resolves tool invocations the agent left for the caller.
type Calculator interface {
	Calculate(ctx context.Context, expression string) string
}

// Session owns one agent handle. It holds no per-request state and can serve
// concurrent requests.
type Session struct {
	agent      Agent
	calculator Calculator
	sanitizer  *Sanitizer
}

// NewSession wires a session. A nil sanitizer uses DefaultDenylist.
func NewSession(a Agent, calc Calculator, sanitizer *Sanitizer) (*Session, error) {
	if a == nil {
		return nil, errors.New("chat: an agent is required")
	}
	if calc == nil {
		return nil, errors.New("chat: a calculator is required")
	}
	if sanitizer == nil {
		sanitizer = NewSanitizer(nil)
	}
	return &Session{agent: a, calculator: calc, sanitizer: sanitizer}, nil
}

// Process never fails: agent errors and panics come back as
// "error processing message: {details}".
func (s *Session) Process(ctx context.Context, message string) string {
	return safecall.String(processingErrorPrefix, func() (string, error) {
		result, err := s.agent.Invoke(ctx, message)
		if err != nil {
			return "", err
		}
		return s.render(ctx, result)
	})
}

func (s *Session) render(ctx context.Context, result agent.Result) (string, error) {
	switch r := result.(type) {
	case agent.PrimaryOutput:
		return s.sanitizer.Sanitize(r.Text), nil
	case agent.AlternateOutput:
		return s.sanitizer.Sanitize(r.Text), nil
	case agent.ToolInvocation:
		if expr := r.Expression(); r.Name == tools.MathToolName && expr != "" {
			return fmt.Sprintf("the result of %s is %s", expr, s.calculator.Calculate(ctx, expr)), nil
		}
		return r.Raw, nil
	case agent.Unrecognized:
		return r.Raw, nil
	case agent.RawText:
		return s.sanitizer.Sanitize(r.Text), nil
	case nil:
		return "", errors.New("agent returned no result")
	default:
		return "", fmt.Errorf("unexpected agent result %T", result)
	}
}
