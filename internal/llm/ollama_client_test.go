package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dileep-u-k/chat-agent/internal/tools"
)

// newOllamaTestServer answers /api/chat with reply and records the decoded request.
func newOllamaTestServer(t *testing.T, reply string, captured *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/chat":
			body, _ := io.ReadAll(r.Body)
			if captured != nil {
				if err := json.Unmarshal(body, captured); err != nil {
					t.Errorf("request body is not JSON: %v", err)
				}
			}
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, reply+"\n")
		case "/api/tags":
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"models":[{"name":"llama3.1:8b","model":"llama3.1:8b"}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOllamaClientGenerateText(t *testing.T) {
	var captured map[string]any
	srv := newOllamaTestServer(t,
		`{"model":"llama3.1:8b","message":{"role":"assistant","content":" 21 \n"},"done":true,"prompt_eval_count":12,"eval_count":3}`,
		&captured)

	client, err := NewOllamaClient(srv.URL, "")
	if err != nil {
		t.Fatalf("NewOllamaClient() error = %v", err)
	}

	temp := float32(0.2)
	result, err := client.Generate(context.Background(),
		[]Message{
			{Role: RoleSystem, Content: "be brief"},
			{Role: RoleUser, Content: "3 * 7?"},
		},
		&GenerationConfig{Temperature: &temp},
		tools.NewToolManager().GetDefinitions(),
	)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if result.Content != "21" {
		t.Errorf("Content = %q, want 21", result.Content)
	}
	if result.Usage.TotalTokens != 15 {
		t.Errorf("TotalTokens = %d, want 15", result.Usage.TotalTokens)
	}

	if captured["model"] != DefaultOllamaModel {
		t.Errorf("model = %v, want %s", captured["model"], DefaultOllamaModel)
	}
	if captured["stream"] != false {
		t.Errorf("stream = %v, want false", captured["stream"])
	}
	msgs, _ := captured["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("sent %d messages, want 2", len(msgs))
	}
}

func TestOllamaClientGenerateToolCalls(t *testing.T) {
	var captured map[string]any
	srv := newOllamaTestServer(t,
		`{"model":"llama3.1:8b","message":{"role":"assistant","content":"","tool_calls":[{"function":{"name":"calculate_math","arguments":{"expression":"3 * 7"}}}]},"done":true}`,
		&captured)

	client, err := NewOllamaClient(srv.URL, "llama3.1:8b")
	if err != nil {
		t.Fatalf("NewOllamaClient() error = %v", err)
	}

	manager := tools.NewToolManager()
	manager.Register(tools.NewMathTool())

	result, err := client.Generate(context.Background(),
		[]Message{{Role: RoleUser, Content: "what is 3 * 7"}}, nil, manager.GetDefinitions())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(result.ToolCalls) != 1 {
		t.Fatalf("got %d tool calls, want 1", len(result.ToolCalls))
	}
	call := result.ToolCalls[0]
	if call.Function.Name != tools.MathToolName || call.ID == "" {
		t.Errorf("unexpected call %+v", call)
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil || args["expression"] != "3 * 7" {
		t.Errorf("arguments = %s, %v", call.Function.Arguments, err)
	}

	sentTools, _ := captured["tools"].([]any)
	if len(sentTools) != 1 {
		t.Errorf("sent %d tools, want 1", len(sentTools))
	}
}

func TestOllamaClientReplaysToolConversation(t *testing.T) {
	var captured map[string]any
	srv := newOllamaTestServer(t,
		`{"model":"llama3.1:8b","message":{"role":"assistant","content":"It is 21."},"done":true}`,
		&captured)

	client, _ := NewOllamaClient(srv.URL, "")
	_, err := client.Generate(context.Background(), []Message{
		{Role: RoleUser, Content: "3 * 7?"},
		{Role: RoleAssistant, ToolCalls: []*tools.ToolCall{{
			ID:       "ollama-call-0-calculate_math",
			Type:     tools.ToolTypeFunction,
			Function: tools.ToolCallFunction{Name: tools.MathToolName, Arguments: `{"expression":"3 * 7"}`},
		}}},
		{Role: RoleTool, ToolCallID: "ollama-call-0-calculate_math", ToolName: tools.MathToolName, Content: "21"},
	}, nil, nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	msgs, _ := captured["messages"].([]any)
	if len(msgs) != 3 {
		t.Fatalf("sent %d messages, want 3", len(msgs))
	}
	toolMsg, _ := msgs[2].(map[string]any)
	if toolMsg["role"] != "tool" || toolMsg["tool_name"] != tools.MathToolName || toolMsg["content"] != "21" {
		t.Errorf("tool message = %v", toolMsg)
	}
}

func TestOllamaClientRejectsBadInput(t *testing.T) {
	if _, err := NewOllamaClient("not a url", ""); err == nil {
		t.Error("NewOllamaClient() should reject a URL without scheme and host")
	}

	client, _ := NewOllamaClient("http://localhost:11434", "")
	if _, err := client.Generate(context.Background(), nil, nil, nil); err == nil {
		t.Error("Generate() should reject an empty conversation")
	}

	_, err := client.Generate(context.Background(), []Message{{
		Role: RoleAssistant,
		ToolCalls: []*tools.ToolCall{{
			Function: tools.ToolCallFunction{Name: "x", Arguments: "{broken"},
		}},
	}}, nil, nil)
	if err == nil {
		t.Error("Generate() should reject undecodable tool arguments")
	}
}

func TestOllamaClientPing(t *testing.T) {
	srv := newOllamaTestServer(t, `{}`, nil)
	client, _ := NewOllamaClient(srv.URL, "")
	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}

	srv.Close()
	if err := client.Ping(context.Background()); err == nil {
		t.Error("Ping() against a closed server should fail")
	}
}
