// In file: cmd/server/handler.go
package main

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/dileep-u-k/chat-agent/internal/api"
	"github.com/dileep-u-k/chat-agent/internal/history"
	"github.com/dileep-u-k/chat-agent/web"

	"github.com/gin-gonic/gin"
)

const (
	serviceName        = "chat-api"
	errEmptyMessage    = "message must not be empty"
	errInternalServer  = "internal server error"
	errInvalidRequest  = "invalid request: "
	errHistoryUnusable = "history is unavailable"
)

// ChatProcessor turns a user message into the reply text. It never fails.
type ChatProcessor interface {
	Process(ctx context.Context, message string) string
}

// ChatHandler serves the chat API and the embedded web UI.
type ChatHandler struct {
	session ChatProcessor
	history history.Store
	index   []byte
}

func NewChatHandler(session ChatProcessor, store history.Store, index []byte) *ChatHandler {
	if store == nil {
		store = history.NopStore{}
	}
	return &ChatHandler{session: session, history: store, index: index}
}

// newRouter builds the gin engine. Panics inside handlers become a generic 500.
func newRouter(h *ChatHandler) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("❌ Panic while serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{Error: errInternalServer})
	}))

	engine.GET("/", h.HandleIndex)
	engine.StaticFS("/webui", http.FS(web.Static()))
	engine.GET("/health", h.HandleHealth)
	engine.GET("/version", h.HandleVersion)
	engine.POST("/chat", h.HandleChat)
	engine.GET("/history", h.HandleListHistory)
	engine.DELETE("/history", h.HandleClearHistory)
	return engine
}

func (h *ChatHandler) HandleIndex(c *gin.Context) {
	if len(h.index) == 0 {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "web UI not available"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", h.index)
}

func (h *ChatHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "healthy", Service: serviceName})
}

func (h *ChatHandler) HandleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, GetBuildInfo())
}

// HandleChat validates the message and hands it to the session. Whatever the
// session returns, including in-band error text, is a 200.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req api.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: errInvalidRequest + err.Error()})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: errEmptyMessage})
		return
	}
	if h.session == nil {
		log.Println("❌ Chat session is not initialized.")
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: errInternalServer})
		return
	}

	log.Printf("--- New chat message (Prompt: '%.30s...') ---", req.Message)
	response := h.session.Process(c.Request.Context(), req.Message)

	if err := h.history.Append(c.Request.Context(), history.NewEntry(req.Message, response)); err != nil {
		log.Printf("WARNING: Failed to record chat history: %v", err)
	}

	c.JSON(http.StatusOK, api.ChatResponse{Response: response})
}

func (h *ChatHandler) HandleListHistory(c *gin.Context) {
	entries, err := h.history.List(c.Request.Context())
	if err != nil {
		log.Printf("WARNING: Failed to read chat history: %v", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: errHistoryUnusable})
		return
	}

	resp := api.HistoryResponse{Entries: make([]api.HistoryEntry, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, api.HistoryEntry{
			ID:        e.ID,
			User:      e.User,
			Bot:       e.Bot,
			Timestamp: e.Timestamp,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) HandleClearHistory(c *gin.Context) {
	if err := h.history.Clear(c.Request.Context()); err != nil {
		log.Printf("WARNING: Failed to clear chat history: %v", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: errHistoryUnusable})
		return
	}
	c.Status(http.StatusNoContent)
}
