package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/freman226/chatbot-backend/internal/httpserver"
	"log/slog"
)

type HandlerDeps struct {
	Service *Service
	Logger  *slog.Logger
}

// Handler принимает HTTP-запросы чата и транслирует их в операции сервиса.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		service: deps.Service,
		logger:  deps.Logger,
	}
}

type chatRequest struct {
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

// ServeMessage обрабатывает POST /api/message.
func (h *Handler) ServeMessage(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(ctx context.Context, req chatRequest) Result {
		return h.service.ProcessMessage(ctx, req.Message, req.Context)
	})
}

// ServeEventOne обрабатывает POST /api/event-uno.
func (h *Handler) ServeEventOne(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(ctx context.Context, req chatRequest) Result {
		return h.service.HandleEventOne(ctx, req.Message, req.Context)
	})
}

// ServeEventTwo обрабатывает POST /api/event-dos.
func (h *Handler) ServeEventTwo(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(ctx context.Context, req chatRequest) Result {
		return h.service.HandleEventTwo(ctx, req.Message, req.Context)
	})
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, op func(context.Context, chatRequest) Result) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpserver.WriteJSONError(w, http.StatusBadRequest, "bad_request", "cannot parse request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		httpserver.WriteJSONError(w, http.StatusBadRequest, "bad_request", "message is required")
		return
	}

	result := op(r.Context(), req)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("encode response", slog.String("error", err.Error()))
	}
}
