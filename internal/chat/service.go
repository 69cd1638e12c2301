package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/freman226/chatbot-backend/internal/llm"
	"log/slog"
)

// ProviderName идентификатор бэкенда в возвращаемых результатах.
const ProviderName = "gemini"

const (
	markerContext = "Contexto:"
	markerUser    = "Usuario:"
)

// Result итог обработки одного сообщения. Обычное значение, без
// дальнейшего жизненного цикла.
type Result struct {
	Text        string `json:"text"`
	ProcessedAt string `json:"processed_at"`
	ModelUsed   string `json:"model_used"`
	Provider    string `json:"provider"`
	EventType   string `json:"event_type,omitempty"`
}

// Decoration оформление события: префикс промпта и метки,
// подмешиваемые в контекст перед отправкой.
type Decoration struct {
	Marker         string
	EventType      string
	ProcessingMode string
}

var (
	decorationEventOne = Decoration{Marker: "[Evento Uno]", EventType: "evento_uno", ProcessingMode: "primary_block"}
	decorationEventTwo = Decoration{Marker: "[Evento Dos]", EventType: "evento_dos", ProcessingMode: "secondary_block"}
)

type ServiceDeps struct {
	Client   llm.Client
	Model    string
	Degraded bool
	Fallback *Fallback
	Logger   *slog.Logger
	Now      func() time.Time
}

// Service оборачивает вызов провайдера: оформляет промпт, чистит ответ
// и при любом сбое подставляет заглушку. Ошибок наружу не отдаёт.
type Service struct {
	client   llm.Client
	model    string
	degraded bool
	fallback *Fallback
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(deps ServiceDeps) *Service {
	fallback := deps.Fallback
	if fallback == nil {
		fallback = NewFallback()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		client:   deps.Client,
		model:    deps.Model,
		degraded: deps.Degraded,
		fallback: fallback,
		logger:   deps.Logger,
		now:      now,
	}
}

// ProcessMessage обрабатывает обычное сообщение без меток события.
func (s *Service) ProcessMessage(ctx context.Context, message string, msgContext map[string]any) Result {
	return s.process(ctx, message, msgContext, nil)
}

// HandleEventOne обрабатывает сообщение первого класса событий.
func (s *Service) HandleEventOne(ctx context.Context, message string, msgContext map[string]any) Result {
	return s.process(ctx, message, msgContext, &decorationEventOne)
}

// HandleEventTwo обрабатывает сообщение второго класса событий.
func (s *Service) HandleEventTwo(ctx context.Context, message string, msgContext map[string]any) Result {
	return s.process(ctx, message, msgContext, &decorationEventTwo)
}

// process единая точка обработки. Три публичные операции отличаются
// только оформлением, поэтому сведены к одному вызову.
func (s *Service) process(ctx context.Context, message string, msgContext map[string]any, deco *Decoration) Result {
	prompt := message
	eventType := ""

	if deco != nil {
		prompt = deco.Marker + " " + message
		eventType = deco.EventType

		merged := make(map[string]any, len(msgContext)+2)
		for k, v := range msgContext {
			merged[k] = v
		}
		merged["event_type"] = deco.EventType
		merged["processing_mode"] = deco.ProcessingMode
		msgContext = merged
	}

	return Result{
		Text:        s.generate(ctx, composePrompt(prompt, msgContext)),
		ProcessedAt: s.now().UTC().Format(time.RFC3339),
		ModelUsed:   s.model,
		Provider:    ProviderName,
		EventType:   eventType,
	}
}

// generate вызывает провайдера и возвращает очищенный текст либо заглушку.
// Гарантия: результат всегда непустая строка.
func (s *Service) generate(ctx context.Context, prompt string) string {
	if s.degraded {
		s.logger.Debug("gemini call skipped, no api key")
		return s.fallback.Pick()
	}

	raw, err := s.client.GenerateContent(ctx, prompt)
	if err != nil {
		s.logProviderFailure(err)
		return s.fallback.Pick()
	}

	cleaned := CleanResponse(raw)
	if cleaned == "" {
		s.logger.Warn("gemini response empty after cleaning")
		return s.fallback.Pick()
	}
	return cleaned
}

// logProviderFailure классифицирует сбой для логов.
// На текст, который увидит пользователь, класс сбоя не влияет.
func (s *Service) logProviderFailure(err error) {
	var statusErr *llm.StatusError
	switch {
	case errors.As(err, &statusErr) && statusErr.Unauthorized():
		s.logger.Error("gemini rejected credentials", slog.Int("status", statusErr.StatusCode))
	case errors.As(err, &statusErr) && statusErr.NotFound():
		s.logger.Error("gemini model or endpoint not found", slog.Int("status", statusErr.StatusCode))
	case errors.As(err, &statusErr):
		s.logger.Error("gemini request failed", slog.Int("status", statusErr.StatusCode))
	case errors.Is(err, llm.ErrEmptyCandidate):
		s.logger.Warn("gemini returned no usable candidate")
	default:
		s.logger.Error("gemini transport failure", slog.String("error", err.Error()))
	}
}

// composePrompt добавляет сериализованный контекст перед текстом пользователя.
// Без контекста промпт уходит как есть, без маркеров.
func composePrompt(message string, msgContext map[string]any) string {
	if len(msgContext) == 0 {
		return message
	}
	serialized, err := json.Marshal(msgContext)
	if err != nil {
		return message
	}
	return fmt.Sprintf("%s %s\n\n%s %s", markerContext, serialized, markerUser, message)
}
