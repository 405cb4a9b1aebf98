package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func geminiResponse(text string) string {
	payload := map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"parts": []map[string]any{{"text": text}},
				},
			},
		},
	}
	encoded, _ := json.Marshal(payload)
	return string(encoded)
}

func TestGenerateTextUnavailableWithoutKey(t *testing.T) {
	client := NewGeminiClient(GeminiClientConfig{})
	if client.Available() {
		t.Fatalf("expected client without key to be unavailable")
	}
	if _, err := client.GenerateText(context.Background(), GenerateRequest{Prompt: "hi"}); !errors.Is(err, ErrGeminiUnavailable) {
		t.Fatalf("expected ErrGeminiUnavailable, got %v", err)
	}
}

func TestGenerateTextSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/models/gemini-2.5-flash:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if _, ok := payload["generationConfig"]; !ok {
			t.Errorf("expected generationConfig in payload")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(geminiResponse(`{"title":"ok"}`)))
	}))
	defer server.Close()

	client := NewGeminiClient(GeminiClientConfig{APIKey: "test-key", BaseURL: server.URL})
	text, err := client.GenerateText(context.Background(), GenerateRequest{
		Prompt:         "describe the job",
		ResponseSchema: map[string]any{"type": "OBJECT"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != `{"title":"ok"}` {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestGenerateTextRetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(geminiResponse("second try")))
	}))
	defer server.Close()

	client := NewGeminiClient(GeminiClientConfig{APIKey: "test-key", BaseURL: server.URL, MaxRetries: 2})
	text, err := client.GenerateText(context.Background(), GenerateRequest{Prompt: "hello"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "second try" {
		t.Fatalf("unexpected text %q", text)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
}

func TestGenerateTextDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"bad request"}}`))
	}))
	defer server.Close()

	client := NewGeminiClient(GeminiClientConfig{APIKey: "test-key", BaseURL: server.URL, MaxRetries: 3})
	if _, err := client.GenerateText(context.Background(), GenerateRequest{Prompt: "hello"}); err == nil {
		t.Fatalf("expected an error")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single call, got %d", got)
	}
}

func TestGenerateTextEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client := NewGeminiClient(GeminiClientConfig{APIKey: "test-key", BaseURL: server.URL})
	if _, err := client.GenerateText(context.Background(), GenerateRequest{Prompt: "hello"}); err == nil {
		t.Fatalf("expected an error on empty candidates")
	}
}

func TestGenerateTextRequiresPromptOrInline(t *testing.T) {
	client := NewGeminiClient(GeminiClientConfig{APIKey: "test-key"})
	if _, err := client.GenerateText(context.Background(), GenerateRequest{}); err == nil {
		t.Fatalf("expected an error on empty request")
	}
}
