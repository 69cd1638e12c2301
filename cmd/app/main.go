package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freman226/chatbot-backend/internal/chat"
	"github.com/freman226/chatbot-backend/internal/config"
	"github.com/freman226/chatbot-backend/internal/httpserver"
	"github.com/freman226/chatbot-backend/internal/llm"
	"github.com/freman226/chatbot-backend/internal/transport"
	"log/slog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.LogLevel)

	httpClient := transport.NewHTTPClient(cfg.RequestTimeout)
	geminiClient := llm.NewGeminiClient(cfg.Gemini, httpClient, logger)

	chatService := chat.NewService(chat.ServiceDeps{
		Client:   geminiClient,
		Model:    geminiClient.Model(),
		Degraded: !cfg.Gemini.HasAPIKey(),
		Logger:   logger,
	})
	chatHandler := chat.NewHandler(chat.HandlerDeps{
		Service: chatService,
		Logger:  logger,
	})

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Logger: logger,
		Chat:   chatHandler,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", slog.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}

func newLogger(level string) *slog.Logger {
	slogLevel := slog.LevelInfo
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
}
