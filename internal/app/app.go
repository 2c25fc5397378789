// In file: internal/app/app.go

// Package app wires the chat pipeline from configuration. It is shared by the
// HTTP server and the chatctl command so both run the same session.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/dileep-u-k/chat-agent/internal/agent"
	"github.com/dileep-u-k/chat-agent/internal/chat"
	"github.com/dileep-u-k/chat-agent/internal/config"
	"github.com/dileep-u-k/chat-agent/internal/llm"
	"github.com/dileep-u-k/chat-agent/internal/tools"
)

// Components are the long-lived pieces built at startup.
type Components struct {
	Session *chat.Session
	// Pinger is nil when the backend cannot be probed.
	Pinger llm.Pinger
	close  func() error
}

// Close releases the LLM backend.
func (c *Components) Close() error {
	if c.close == nil {
		return nil
	}
	return c.close()
}

// NewLLMClient creates the backend selected by cfg.LLMProvider.
func NewLLMClient(ctx context.Context, cfg *config.Config) (llm.LLMClient, func() error, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	case config.ProviderOllama, "":
		client, err := llm.NewOllamaClient(cfg.OllamaBaseURL, cfg.LLMModel)
		if err != nil {
			return nil, nil, err
		}
		return client, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}

// Build assembles the session around an LLM client created from cfg.
func Build(ctx context.Context, cfg *config.Config) (*Components, error) {
	client, closeFn, err := NewLLMClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	components, err := BuildWithClient(client, cfg)
	if err != nil {
		if closeFn != nil {
			closeFn()
		}
		return nil, err
	}
	components.close = closeFn
	return components, nil
}

// BuildWithClient assembles the session around an existing client.
func BuildWithClient(client llm.LLMClient, cfg *config.Config) (*Components, error) {
	calculator := tools.NewMathTool()
	toolManager := tools.NewToolManager()
	toolManager.Register(calculator)
	log.Printf("✅ Tool Manager initialized with %d tools.", toolManager.ToolCount())

	chatAgent, err := agent.New(client, toolManager, agent.Config{
		Model:        cfg.LLMModel,
		SystemPrompt: cfg.Agent.SystemPrompt,
		MaxToolCalls: cfg.Agent.MaxToolCalls,
		Temperature:  cfg.Agent.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	sanitizer := chat.NewSanitizer(cfg.Sanitizer.Denylist)
	log.Printf("✅ Response sanitizer initialized with %d patterns.", len(sanitizer.Patterns()))

	session, err := chat.NewSession(chatAgent, calculator, sanitizer)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}

	pinger, _ := client.(llm.Pinger)
	return &Components{
		Session: session,
		Pinger:  pinger,
	}, nil
}
