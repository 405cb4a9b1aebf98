package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var ErrGeminiUnavailable = errors.New("gemini client not configured")

type GeminiClientConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	HTTPClient *http.Client
}

// GeminiClient calls the generateContent API. It is a best-effort
// collaborator: callers are expected to degrade to a deterministic fallback
// when it errors.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	model      string
	timeout    time.Duration
	maxRetries int
	httpClient *http.Client
}

func NewGeminiClient(config GeminiClientConfig) *GeminiClient {
	if strings.TrimSpace(config.BaseURL) == "" {
		config.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if strings.TrimSpace(config.Model) == "" {
		config.Model = "gemini-2.5-flash"
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = 2
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{}
	}

	return &GeminiClient{
		apiKey:     strings.TrimSpace(config.APIKey),
		baseURL:    strings.TrimSuffix(config.BaseURL, "/"),
		model:      config.Model,
		timeout:    config.Timeout,
		maxRetries: config.MaxRetries,
		httpClient: config.HTTPClient,
	}
}

func (c *GeminiClient) Available() bool {
	return c.apiKey != ""
}

// InlineData carries base64-encoded media for multimodal prompts.
type InlineData struct {
	MIMEType string
	Data     string
}

type GenerateRequest struct {
	Prompt string
	Inline *InlineData
	// ResponseSchema, when set, asks the model for structured JSON output.
	ResponseSchema map[string]any
}

func (c *GeminiClient) GenerateText(ctx context.Context, request GenerateRequest) (string, error) {
	if !c.Available() {
		return "", ErrGeminiUnavailable
	}
	if strings.TrimSpace(request.Prompt) == "" && request.Inline == nil {
		return "", errors.New("prompt is required")
	}

	parts := make([]map[string]any, 0, 2)
	if request.Inline != nil {
		parts = append(parts, map[string]any{
			"inline_data": map[string]string{
				"mime_type": request.Inline.MIMEType,
				"data":      request.Inline.Data,
			},
		})
	}
	if strings.TrimSpace(request.Prompt) != "" {
		parts = append(parts, map[string]any{"text": request.Prompt})
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": parts},
		},
	}
	if request.ResponseSchema != nil {
		payload["generationConfig"] = map[string]any{
			"responseMimeType": "application/json",
			"responseSchema":   request.ResponseSchema,
		}
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal gemini payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		text, callErr := c.callGenerateContent(ctx, encoded)
		if callErr == nil {
			return text, nil
		}
		lastErr = callErr

		if !isRetryableProviderError(callErr) || attempt == c.maxRetries {
			break
		}

		backoff := time.Duration(350*(attempt+1)) * time.Millisecond
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
	}

	if lastErr == nil {
		lastErr = errors.New("unknown gemini error")
	}
	return "", lastErr
}

func (c *GeminiClient) callGenerateContent(ctx context.Context, payload []byte) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpRequest, err := http.NewRequestWithContext(timeoutCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create gemini request: %w", err)
	}
	httpRequest.Header.Set("x-goog-api-key", c.apiKey)
	httpRequest.Header.Set("Content-Type", "application/json")
	httpRequest.Header.Set("Accept", "application/json")

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("gemini timeout: %w", err)
		}
		return "", fmt.Errorf("gemini transport error: %w", err)
	}
	defer httpResponse.Body.Close()

	body, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini body: %w", err)
	}

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode > 299 {
		message := strings.TrimSpace(string(body))
		if len(message) > 700 {
			message = message[:700]
		}
		return "", &providerHTTPError{
			Provider:   "gemini",
			StatusCode: httpResponse.StatusCode,
			Message:    message,
		}
	}

	var raw geminiGenerateContentResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}

	text := extractGeminiText(raw)
	if strings.TrimSpace(text) == "" {
		return "", errors.New("gemini response without text output")
	}
	return text, nil
}

type geminiGenerateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func extractGeminiText(response geminiGenerateContentResponse) string {
	if len(response.Candidates) == 0 {
		return ""
	}
	fragments := make([]string, 0, len(response.Candidates[0].Content.Parts))
	for _, part := range response.Candidates[0].Content.Parts {
		if strings.TrimSpace(part.Text) == "" {
			continue
		}
		fragments = append(fragments, strings.TrimSpace(part.Text))
	}
	return strings.TrimSpace(strings.Join(fragments, "\n"))
}

type providerHTTPError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *providerHTTPError) Error() string {
	return fmt.Sprintf("%s status %d: %s", e.Provider, e.StatusCode, e.Message)
}

func isRetryableProviderError(err error) bool {
	if err == nil {
		return false
	}
	var httpErr *providerHTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "timeout") || strings.Contains(message, "tempor")
}
