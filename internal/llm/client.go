// In file: internal/llm/client.go

// Package llm contains the model backends the agent talks to: a local Ollama
// server by default and Gemini as an optional cloud provider.
package llm

import (
	"context"

	"github.com/dileep-u-k/chat-agent/internal/api"
	"github.com/dileep-u-k/chat-agent/internal/tools"
)

// Role represents the originator of a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	// ToolCallID and ToolName identify the call a RoleTool message answers.
	ToolCallID string            `json:"tool_call_id,omitempty"`
	ToolName   string            `json:"tool_name,omitempty"`
	ToolCalls  []*tools.ToolCall `json:"tool_calls,omitempty"`
}

// GenerationConfig controls a single generation request.
type GenerationConfig struct {
	Model string
	// Temperature is nil when the backend default should be used.
	Temperature *float32
	MaxTokens   int
}

// GenerationResult holds the complete output of one model call.
type GenerationResult struct {
	Content   string
	ToolCalls []*tools.ToolCall
	Usage     api.Usage
}

// LLMClient is implemented by every model backend the agent can talk to.
type LLMClient interface {
	// Generate sends the full conversation and blocks until the model answers,
	// either with text or with a set of tool calls.
	Generate(
		ctx context.Context,
		messages []Message,
		config *GenerationConfig,
		availableTools []tools.Tool,
	) (*GenerationResult, error)
}

// Pinger is implemented by backends that can report whether they are reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
