package llm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/freman226/chatbot-backend/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func testGeminiConfig(baseURL string) config.GeminiConfig {
	return config.GeminiConfig{
		BaseURL:         baseURL,
		APIKey:          "test-key",
		Model:           "gemini-2.0-flash",
		Temperature:     0.7,
		MaxOutputTokens: 1024,
		TopP:            0.95,
		TopK:            40,
	}
}

func TestGeminiClient_GenerateContent_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got: %s", r.Method)
		}
		if r.URL.Path != "/models/gemini-2.0-flash:generateContent" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("expected api key in query, got: %s", r.URL.RawQuery)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}

		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("cannot decode request body: %v", err)
		}
		if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 1 {
			t.Fatalf("unexpected contents shape: %+v", req.Contents)
		}
		if req.Contents[0].Parts[0].Text != "Hola" {
			t.Errorf("expected prompt 'Hola', got: %s", req.Contents[0].Parts[0].Text)
		}
		if req.GenerationConfig.Temperature != 0.7 || req.GenerationConfig.MaxOutputTokens != 1024 {
			t.Errorf("unexpected generation config: %+v", req.GenerationConfig)
		}
		if req.GenerationConfig.TopP != 0.95 || req.GenerationConfig.TopK != 40 {
			t.Errorf("unexpected sampling config: %+v", req.GenerationConfig)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Son las 3pm"}]}}]}`))
	}))
	t.Cleanup(server.Close)

	client := NewGeminiClient(testGeminiConfig(server.URL), server.Client(), testLogger())

	if client.Model() != "gemini-2.0-flash" {
		t.Errorf("expected configured model, got: %s", client.Model())
	}

	answer, err := client.GenerateContent(context.Background(), "Hola")
	if err != nil {
		t.Fatalf("GenerateContent failed: %v", err)
	}
	if answer != "Son las 3pm" {
		t.Errorf("expected 'Son las 3pm', got: %s", answer)
	}
}

func TestGeminiClient_GenerateContent_StatusErrors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		unauthorized bool
		notFound     bool
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, unauthorized: true},
		{name: "forbidden", status: http.StatusForbidden, unauthorized: true},
		{name: "not found", status: http.StatusNotFound, notFound: true},
		{name: "server error", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":{"message":"nope"}}`))
			}))
			t.Cleanup(server.Close)

			client := NewGeminiClient(testGeminiConfig(server.URL), server.Client(), testLogger())

			_, err := client.GenerateContent(context.Background(), "Hola")
			if err == nil {
				t.Fatalf("expected error for status %d", tt.status)
			}

			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("expected StatusError, got: %v", err)
			}
			if statusErr.StatusCode != tt.status {
				t.Errorf("expected status %d, got: %d", tt.status, statusErr.StatusCode)
			}
			if statusErr.Unauthorized() != tt.unauthorized {
				t.Errorf("Unauthorized() = %v, expected %v", statusErr.Unauthorized(), tt.unauthorized)
			}
			if statusErr.NotFound() != tt.notFound {
				t.Errorf("NotFound() = %v, expected %v", statusErr.NotFound(), tt.notFound)
			}
		})
	}
}

func TestGeminiClient_GenerateContent_EmptyCandidates(t *testing.T) {
	bodies := []string{
		`{"candidates":[]}`,
		`{}`,
		`{"candidates":[{"content":{"parts":[]}}]}`,
		`{"candidates":[{"content":{"parts":[{"text":""}]}}]}`,
	}

	for _, body := range bodies {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		}))

		client := NewGeminiClient(testGeminiConfig(server.URL), server.Client(), testLogger())

		_, err := client.GenerateContent(context.Background(), "Hola")
		if !errors.Is(err, ErrEmptyCandidate) {
			t.Errorf("body %s: expected ErrEmptyCandidate, got: %v", body, err)
		}
		server.Close()
	}
}

func TestGeminiClient_GenerateContent_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	t.Cleanup(server.Close)

	client := NewGeminiClient(testGeminiConfig(server.URL), server.Client(), testLogger())

	if _, err := client.GenerateContent(context.Background(), "Hola"); err == nil {
		t.Fatalf("expected decode error for malformed body")
	}
}
