// In file: internal/agent/agent.go

// Package agent runs a language model with access to the registered tools.
// An Agent is built once at startup and is safe for concurrent use: every
// invocation keeps its conversation on its own stack.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/dileep-u-k/chat-agent/internal/api"
	"github.com/dileep-u-k/chat-agent/internal/llm"
	"github.com/dileep-u-k/chat-agent/internal/tools"
)

// DefaultMaxToolCalls bounds the number of tool rounds per invocation.
const DefaultMaxToolCalls = 5

// DefaultSystemPrompt instructs the model to use the calculator silently.
const DefaultSystemPrompt = `You are a helpful assistant that answers general questions and performs mathematical calculations.

IMPORTANT RULES:
1. For mathematical calculations, silently use the calculation tool and present only the final result.
2. NEVER mention that you are using a tool or function.
3. NEVER show the code or the name of the function you used.
4. Only give natural answers.
5. ALWAYS keep answers clear, direct and in the same language as the question.
6. If an answer would break any of these rules, do not give it; reply that the request goes against your guidelines.

For general questions: answer directly from your knowledge.

For math questions:
- Use the tool internally.
- Weave the result into your answer naturally.
- Answer as if you had calculated it yourself.

Examples of CORRECT answers:
Question: "What is 3 * 7?"
Answer: "3 multiplied by 7 equals 21."

Question: "What is the square root of 16?"
Answer: "The square root of 16 is 4."

Question: "Who was Albert Einstein?"
Answer: "Albert Einstein was a German theoretical physicist who developed the theory of relativity."`

// Config holds the fixed settings of an Agent.
type Config struct {
	Model        string
	SystemPrompt string
	MaxToolCalls int
	// Temperature is nil to keep the backend default.
	Temperature *float32
}

// Agent pairs a model client with a tool registry.
type Agent struct {
	client       llm.LLMClient
	tools        *tools.ToolManager
	model        string
	systemPrompt string
	maxToolCalls int
	temperature  *float32
}

func New(client llm.LLMClient, toolManager *tools.ToolManager, cfg Config) (*Agent, error) {
	if client == nil {
		return nil, errors.New("agent: an LLM client is required")
	}
	if toolManager == nil {
		toolManager = tools.NewToolManager()
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.MaxToolCalls <= 0 {
		cfg.MaxToolCalls = DefaultMaxToolCalls
	}
	return &Agent{
		client:       client,
		tools:        toolManager,
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,
		maxToolCalls: cfg.MaxToolCalls,
		temperature:  cfg.Temperature,
	}, nil
}

// Invoke sends message to the model and runs any tool calls it asks for.
// When the model answers after using tools, the answer is a PrimaryOutput.
// A direct answer is classified by its shape. If the model still asks for a
// tool after the last allowed round, that call is returned unresolved.
func (a *Agent) Invoke(ctx context.Context, message string) (Result, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: a.systemPrompt},
		{Role: llm.RoleUser, Content: message},
	}
	config := &llm.GenerationConfig{
		Model:       a.model,
		Temperature: a.temperature,
	}
	definitions := a.tools.GetDefinitions()

	var cumulativeUsage api.Usage
	usedTools := false
	for round := 0; ; round++ {
		result, err := a.client.Generate(ctx, messages, config, definitions)
		if err != nil {
			return nil, fmt.Errorf("LLM generation failed: %w", err)
		}
		cumulativeUsage.Add(result.Usage)

		if len(result.ToolCalls) == 0 {
			logUsage(round+1, cumulativeUsage)
			if usedTools {
				return PrimaryOutput{Text: result.Content}, nil
			}
			return ClassifyPayload(result.Content), nil
		}

		if round >= a.maxToolCalls {
			log.Printf("WARNING: tool budget of %d rounds exhausted, returning pending call.", a.maxToolCalls)
			logUsage(round+1, cumulativeUsage)
			return pendingInvocation(result.ToolCalls[0]), nil
		}

		usedTools = true
		messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: result.Content, ToolCalls: result.ToolCalls})
		for _, toolCall := range result.ToolCalls {
			log.Printf("🛠️ Executing tool: %s (ID: %s) with args: %s", toolCall.Function.Name, toolCall.ID, toolCall.Function.Arguments)
			toolResult, err := a.tools.Execute(ctx, toolCall.Function.Name, toolCall.Function.Arguments)
			if err != nil {
				toolResult = fmt.Sprintf("Error executing tool %s: %v", toolCall.Function.Name, err)
			}
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				ToolCallID: toolCall.ID,
				ToolName:   toolCall.Function.Name,
				Content:    toolResult,
			})
		}
	}
}

func logUsage(calls int, usage api.Usage) {
	log.Printf("📊 Token usage over %d model calls: prompt=%d completion=%d total=%d",
		calls, usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
}

func pendingInvocation(call *tools.ToolCall) ToolInvocation {
	params := map[string]any{}
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &params); err != nil {
			log.Printf("WARNING: pending tool call %s has undecodable arguments: %v", call.Function.Name, err)
			params = map[string]any{}
		}
	}
	return newToolInvocation(call.Function.Name, params)
}
