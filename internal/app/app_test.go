package app

import (
	"context"
	"testing"

	"github.com/dileep-u-k/chat-agent/internal/config"
	"github.com/dileep-u-k/chat-agent/internal/llm"
	"github.com/dileep-u-k/chat-agent/internal/tools"
)

type stubClient struct {
	content string
}

func (s stubClient) Generate(context.Context, []llm.Message, *llm.GenerationConfig, []tools.Tool) (*llm.GenerationResult, error) {
	return &llm.GenerationResult{Content: s.content}, nil
}

func TestBuildWithClientUsesConfiguredDenylist(t *testing.T) {
	cfg := &config.Config{LLMModel: "llama3.1:8b"}
	cfg.Sanitizer.Denylist = []string{"secret"}

	components, err := BuildWithClient(stubClient{content: "a secret Result:"}, cfg)
	if err != nil {
		t.Fatalf("BuildWithClient() error = %v", err)
	}
	defer components.Close()

	if got := components.Session.Process(context.Background(), "hi"); got != "a  Result:" {
		t.Errorf("Process() = %q", got)
	}
	if components.Pinger != nil {
		t.Error("stub client should not be reported as a Pinger")
	}
}

func TestNewLLMClient(t *testing.T) {
	ctx := context.Background()

	client, closeFn, err := NewLLMClient(ctx, &config.Config{
		LLMProvider:   config.ProviderOllama,
		OllamaBaseURL: "http://localhost:11434",
		LLMModel:      "llama3.1:8b",
	})
	if err != nil {
		t.Fatalf("NewLLMClient(ollama) error = %v", err)
	}
	if _, ok := client.(*llm.OllamaClient); !ok || closeFn != nil {
		t.Errorf("NewLLMClient(ollama) = %T, close=%v", client, closeFn != nil)
	}

	if _, _, err := NewLLMClient(ctx, &config.Config{LLMProvider: "openai"}); err == nil {
		t.Error("NewLLMClient should reject unknown providers")
	}
	if _, _, err := NewLLMClient(ctx, &config.Config{LLMProvider: config.ProviderGemini, LLMModel: "gemini-1.5-flash"}); err == nil {
		t.Error("NewLLMClient should reject gemini without a key")
	}
}

func TestBuildWithOllama(t *testing.T) {
	components, err := Build(context.Background(), &config.Config{
		LLMProvider:   config.ProviderOllama,
		OllamaBaseURL: "http://localhost:11434",
		LLMModel:      "llama3.1:8b",
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if components.Pinger == nil {
		t.Error("Ollama client should be usable as a Pinger")
	}
	if err := components.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
