// In file: internal/llm/constants.go
package llm

import "time"

// Shared by the Ollama and Gemini clients.
const (
	defaultTimeout     = 120 * time.Second
	defaultPingTimeout = 5 * time.Second
	defaultMaxTokens   = 4096

	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llama3.1:8b"
)
