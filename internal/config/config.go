package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	geminiModelPrefix    = "gemini-"
)

// DefaultGeminiModel используется, когда сконфигурированная модель
// не похожа на модель семейства Gemini.
const DefaultGeminiModel = "gemini-2.0-flash"

type Config struct {
	HTTPAddr       string
	LogLevel       string
	RequestTimeout time.Duration
	Gemini         GeminiConfig
}

// GeminiConfig параметры подключения к generateContent API.
// Создаётся один раз при старте и дальше не меняется.
type GeminiConfig struct {
	BaseURL         string
	APIKey          string
	Model           string
	Temperature     float64
	MaxOutputTokens int
	TopP            float64
	TopK            int
}

// HasAPIKey сообщает, задан ли ключ. Без ключа сервис не ходит в сеть
// и отвечает заглушками.
func (c GeminiConfig) HasAPIKey() bool {
	return c.APIKey != ""
}

func Load() (Config, error) {
	var cfg Config

	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	reqTimeout, err := parseDuration(getEnv("HTTP_CLIENT_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_CLIENT_TIMEOUT: %w", err)
	}
	cfg.RequestTimeout = reqTimeout

	temperature, err := parseFloat(getEnv("GEMINI_TEMPERATURE", "0.7"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GEMINI_TEMPERATURE: %w", err)
	}

	maxTokens, err := parseInt(getEnv("GEMINI_MAX_OUTPUT_TOKENS", "1024"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GEMINI_MAX_OUTPUT_TOKENS: %w", err)
	}

	topP, err := parseFloat(getEnv("GEMINI_TOP_P", "0.95"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GEMINI_TOP_P: %w", err)
	}

	topK, err := parseInt(getEnv("GEMINI_TOP_K", "40"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GEMINI_TOP_K: %w", err)
	}

	cfg.Gemini = GeminiConfig{
		BaseURL:         strings.TrimRight(getEnv("GEMINI_BASE_URL", defaultGeminiBaseURL), "/"),
		APIKey:          getEnv("GEMINI_API_KEY", ""),
		Model:           normalizeModel(getEnv("GEMINI_MODEL", DefaultGeminiModel)),
		Temperature:     temperature,
		MaxOutputTokens: maxTokens,
		TopP:            topP,
		TopK:            topK,
	}

	return cfg, nil
}

// normalizeModel молча заменяет чужое или устаревшее имя модели
// известной рабочей моделью.
func normalizeModel(model string) string {
	if !strings.HasPrefix(model, geminiModelPrefix) {
		return DefaultGeminiModel
	}
	return model
}

func parseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, fmt.Errorf("duration is empty")
	}
	return time.ParseDuration(value)
}

func parseFloat(value string) (float64, error) {
	return strconv.ParseFloat(value, 64)
}

func parseInt(value string) (int, error) {
	return strconv.Atoi(value)
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}
