// In file: internal/api/types.go

// Package api defines the JSON payloads exchanged over HTTP and the token
// accounting shared with the llm package.
package api

import "time"

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the body returned by a successful POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
}

// HealthResponse is the static liveness payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ErrorResponse is the body of every 4xx/5xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HistoryEntry is one user/bot exchange as seen by API clients.
type HistoryEntry struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Bot       string    `json:"bot"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryResponse is the body of GET /history, oldest exchange first.
type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

// Usage counts the tokens consumed by one or more model calls.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates other into u.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}
