// In file: internal/llm/ollama_client.go
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/dileep-u-k/chat-agent/internal/tools"

	"github.com/ollama/ollama/api"
)

// OllamaClient talks to a local Ollama server through its chat API.
type OllamaClient struct {
	client *api.Client
	model  string
}

var (
	_ LLMClient = (*OllamaClient)(nil)
	_ Pinger    = (*OllamaClient)(nil)
)

// NewOllamaClient creates a client for the server at baseURL. Empty arguments
// fall back to DefaultOllamaURL and DefaultOllamaModel.
func NewOllamaClient(baseURL, model string) (*OllamaClient, error) {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid Ollama URL %q: scheme and host are required", baseURL)
	}

	httpClient := &http.Client{Timeout: defaultTimeout}
	return &OllamaClient{
		client: api.NewClient(parsedURL, httpClient),
		model:  model,
	}, nil
}

// Generate performs a non-streaming chat request.
func (c *OllamaClient) Generate(
	ctx context.Context,
	messages []Message,
	config *GenerationConfig,
	availableTools []tools.Tool,
) (*GenerationResult, error) {
	if len(messages) == 0 {
		return nil, errors.New("ollama: no messages to send")
	}

	ollamaMessages, err := toOllamaMessages(messages)
	if err != nil {
		return nil, err
	}

	stream := false
	req := &api.ChatRequest{
		Model:    c.model,
		Messages: ollamaMessages,
		Tools:    toOllamaTools(availableTools),
		Stream:   &stream,
		Options:  map[string]any{},
	}
	if config != nil {
		if config.Model != "" {
			req.Model = config.Model
		}
		if config.Temperature != nil {
			req.Options["temperature"] = *config.Temperature
		}
		if config.MaxTokens > 0 {
			req.Options["num_predict"] = config.MaxTokens
		}
	}

	var (
		content  strings.Builder
		calls    []api.ToolCall
		response api.ChatResponse
	)
	err = c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		calls = append(calls, resp.Message.ToolCalls...)
		if resp.Done {
			response = resp
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat request failed: %w", err)
	}

	result := &GenerationResult{
		Content:   strings.TrimSpace(content.String()),
		ToolCalls: fromOllamaToolCalls(calls),
	}
	result.Usage.PromptTokens = response.PromptEvalCount
	result.Usage.CompletionTokens = response.EvalCount
	result.Usage.TotalTokens = response.PromptEvalCount + response.EvalCount
	return result, nil
}

// Ping checks that the server answers a model listing.
func (c *OllamaClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	resp, err := c.client.List(ctx)
	if err != nil {
		return fmt.Errorf("ollama unreachable: %w", err)
	}
	for _, m := range resp.Models {
		if m.Name == c.model || m.Model == c.model {
			return nil
		}
	}
	log.Printf("WARNING: Ollama is up but model %s has not been pulled.", c.model)
	return nil
}

func toOllamaMessages(messages []Message) ([]api.Message, error) {
	result := make([]api.Message, 0, len(messages))
	for _, msg := range messages {
		out := api.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
		if msg.Role == RoleTool {
			out.ToolName = msg.ToolName
		}
		for _, call := range msg.ToolCalls {
			args := api.ToolCallFunctionArguments{}
			if call.Function.Arguments != "" {
				if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
					return nil, fmt.Errorf("ollama: tool call %s has invalid arguments: %w", call.Function.Name, err)
				}
			}
			out.ToolCalls = append(out.ToolCalls, api.ToolCall{
				Function: api.ToolCallFunction{
					Name:      call.Function.Name,
					Arguments: args,
				},
			})
		}
		result = append(result, out)
	}
	return result, nil
}

func toOllamaTools(defs []tools.Tool) []api.Tool {
	if len(defs) == 0 {
		return nil
	}
	result := make([]api.Tool, 0, len(defs))
	for _, def := range defs {
		params := api.ToolFunctionParameters{
			Type:       def.Function.Parameters.Type,
			Required:   def.Function.Parameters.Required,
			Properties: make(map[string]api.ToolProperty),
		}
		for name, prop := range def.Function.Parameters.Properties {
			params.Properties[name] = api.ToolProperty{
				Type:        api.PropertyType{prop.Type},
				Description: prop.Description,
			}
		}
		result = append(result, api.Tool{
			Type: def.Type,
			Function: api.ToolFunction{
				Name:        def.Function.Name,
				Description: def.Function.Description,
				Parameters:  params,
			},
		})
	}
	return result
}

// fromOllamaToolCalls synthesizes call ids, which Ollama doesn't issue.
func fromOllamaToolCalls(calls []api.ToolCall) []*tools.ToolCall {
	if len(calls) == 0 {
		return nil
	}
	result := make([]*tools.ToolCall, 0, len(calls))
	for i, call := range calls {
		args, err := json.Marshal(map[string]any(call.Function.Arguments))
		if err != nil {
			log.Printf("WARNING: could not encode arguments for tool call %s: %v", call.Function.Name, err)
			args = []byte("{}")
		}
		result = append(result, &tools.ToolCall{
			ID:   fmt.Sprintf("ollama-call-%d-%s", i, call.Function.Name),
			Type: tools.ToolTypeFunction,
			Function: tools.ToolCallFunction{
				Name:      call.Function.Name,
				Arguments: string(args),
			},
		})
	}
	return result
}
