package httpserver

import (
	"net/http"

	"github.com/freman226/chatbot-backend/internal/middleware"

	"log/slog"

	"github.com/go-chi/chi/v5"
)

// ChatHandler маршруты чата. Реализация живёт в пакете chat,
// чтобы не вводить циклический импорт.
type ChatHandler interface {
	ServeMessage(w http.ResponseWriter, r *http.Request)
	ServeEventOne(w http.ResponseWriter, r *http.Request)
	ServeEventTwo(w http.ResponseWriter, r *http.Request)
}

type RouterDeps struct {
	Logger *slog.Logger
	Chat   ChatHandler
}

// NewRouter собирает chi-роутер с общими middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/message", deps.Chat.ServeMessage)
		r.Post("/event-uno", deps.Chat.ServeEventOne)
		r.Post("/event-dos", deps.Chat.ServeEventTwo)
	})

	return r
}
