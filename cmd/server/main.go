// In file: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dileep-u-k/chat-agent/internal/app"
	"github.com/dileep-u-k/chat-agent/internal/config"
	"github.com/dileep-u-k/chat-agent/internal/history"
	"github.com/dileep-u-k/chat-agent/internal/llm"
	"github.com/dileep-u-k/chat-agent/web"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const modelCheckInterval = 5 * time.Minute

// main is the composition root: it loads configuration, builds the chat
// pipeline, injects it into the HTTP handler and runs the server.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	buildInfo := GetBuildInfo()
	log.Printf("🚀 Starting Chat Agent | Version: %s | Commit: %s", buildInfo.Version, buildInfo.GitCommit)

	// 1. LOAD CONFIGURATION
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ FATAL: Configuration Error: %v", err)
	}
	log.Printf("✅ Configuration loaded (provider: %s, model: %s).", cfg.LLMProvider, cfg.LLMModel)

	// 2. INITIALIZE SERVICES
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	components, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}
	defer components.Close()

	store, closeStore := initializeHistoryStore(ctx, cfg)
	defer closeStore()

	index, err := web.Index()
	if err != nil {
		log.Printf("WARNING: Web UI is not available: %v", err)
	}

	handler := NewChatHandler(components.Session, store, index)
	log.Println("✅ All services initialized.")

	// 3. START BACKGROUND PROCESSES
	if components.Pinger != nil {
		go startModelMonitor(ctx, cfg.LLMModel, components.Pinger, modelCheckInterval)
	}

	// 4. SETUP AND RUN THE WEB SERVER
	gin.SetMode(cfg.GinMode)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           newRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	runServerWithGracefulShutdown(srv)
}

// initializeHistoryStore connects to Redis when configured. History is
// optional, so an unreachable Redis degrades to the no-op store.
func initializeHistoryStore(ctx context.Context, cfg *config.Config) (history.Store, func()) {
	noop := func() {}
	if !cfg.HistoryEnabled() {
		log.Println("REDIS_ADDR not set, chat history is disabled.")
		return history.NopStore{}, noop
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		log.Printf("WARNING: Could not connect to Redis at %s, chat history is disabled: %v", cfg.RedisAddr, err)
		rdb.Close()
		return history.NopStore{}, noop
	}

	store, err := history.NewRedisStore(rdb, cfg.HistoryLimit)
	if err != nil {
		log.Printf("WARNING: %v", err)
		rdb.Close()
		return history.NopStore{}, noop
	}
	log.Printf("✅ Chat history enabled (limit %d).", cfg.HistoryLimit)
	return store, func() { rdb.Close() }
}

// startModelMonitor periodically checks that the model backend is reachable.
// /health stays static; this only surfaces outages in the logs.
func startModelMonitor(ctx context.Context, model string, pinger llm.Pinger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Println("🩺 Model monitor started.")
	check := func() {
		if err := pinger.Ping(ctx); err != nil {
			log.Printf("🩺 Model %s: Healthy = false (%v)", model, err)
			return
		}
		log.Printf("🩺 Model %s: Healthy = true", model)
	}

	check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}

// runServerWithGracefulShutdown handles the server lifecycle.
func runServerWithGracefulShutdown(srv *http.Server) {
	go func() {
		log.Printf("👂 Chat Agent is listening on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Listen error: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server shutdown failed:", err)
	}

	log.Println("👋 Server exited gracefully.")
}
