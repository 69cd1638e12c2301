package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/freman226/chatbot-backend/internal/config"
	"log/slog"
)

var (
	// ErrEmptyCandidate ответ 2xx, в котором нет ожидаемой структуры
	// candidates[0].content.parts[0].text.
	ErrEmptyCandidate = errors.New("empty candidate in response")
)

// StatusError не-2xx ответ провайдера.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gemini status %d: %s", e.StatusCode, e.Body)
}

// Unauthorized true для 401/403: ключ невалиден или не имеет доступа.
func (e *StatusError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// NotFound true для 404: неверная связка модель/endpoint.
func (e *StatusError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

type GeminiClient struct {
	apiKey     string
	baseURL    string
	model      string
	genConfig  generationConfig
	httpClient *http.Client
}

// NewGeminiClient создаёт клиент generateContent API.
// Один раз логирует режим работы: провайдер активен либо ключ отсутствует.
func NewGeminiClient(cfg config.GeminiConfig, httpClient *http.Client, logger *slog.Logger) *GeminiClient {
	if cfg.HasAPIKey() {
		logger.Info("gemini provider active", slog.String("model", cfg.Model))
	} else {
		logger.Warn("gemini api key missing, replies degrade to canned fallbacks")
	}

	return &GeminiClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		genConfig: generationConfig{
			Temperature:     cfg.Temperature,
			MaxOutputTokens: cfg.MaxOutputTokens,
			TopP:            cfg.TopP,
			TopK:            cfg.TopK,
		},
		httpClient: httpClient,
	}
}

// Model возвращает имя модели, с которым выполняются запросы.
func (c *GeminiClient) Model() string {
	return c.model
}

// GenerateContent выполняет один запрос к модели и возвращает текст
// первого кандидата. Сбои транспорта, не-2xx статусы и пустые ответы
// возвращаются как ошибки без какой-либо ретрай-логики.
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	requestBody := geminiRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: c.genConfig,
	}

	buf, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyCandidate
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", ErrEmptyCandidate
	}
	return text, nil
}

type geminiRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}
