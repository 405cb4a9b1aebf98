package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/homely/homely-back/internal/ai"
	"github.com/homely/homely-back/internal/cache"
	"github.com/homely/homely-back/internal/domain"
)

// textGenerator is the slice of the Gemini client the service needs.
type textGenerator interface {
	Available() bool
	GenerateText(ctx context.Context, request ai.GenerateRequest) (string, error)
}

// EnhancementService turns rough client input into a polished job draft.
// Every failure degrades to a deterministic fallback: no error ever crosses
// this boundary.
type EnhancementService struct {
	client textGenerator
	cache  *cache.EnhanceCache
	logger zerolog.Logger
}

func NewEnhancementService(client textGenerator, cache *cache.EnhanceCache, logger zerolog.Logger) *EnhancementService {
	return &EnhancementService{client: client, cache: cache, logger: logger}
}

func (s *EnhancementService) EnhanceDescription(
	ctx context.Context,
	rawText string,
	serviceType domain.ServiceType,
) domain.EnhancedDraft {
	if s.client == nil || !s.client.Available() {
		return domain.EnhancedDraft{
			Title:          fmt.Sprintf("%s Request", serviceType),
			Description:    rawText,
			EstimatedPrice: "$50 - $100 (Estimate unavailable)",
		}
	}

	var signature string
	if s.cache != nil {
		signature = s.cache.BuildSignature(rawText, string(serviceType))
		if entry, ok := s.cache.Get(signature); ok {
			return entry.Draft
		}
	}

	prompt := fmt.Sprintf(
		"You are a professional household service manager. "+
			"A client has provided the following rough details for a %s job: %q. "+
			"Output a JSON object with: "+
			"1. A catchy, professional short title (max 5 words). "+
			"2. A polite, clear, and detailed description of the task suitable for a worker to read. "+
			"3. A realistic estimated price range based on typical US rates (e.g., \"$80 - $120\").",
		serviceType, rawText,
	)

	text, err := s.client.GenerateText(ctx, ai.GenerateRequest{
		Prompt: prompt,
		ResponseSchema: map[string]any{
			"type": "OBJECT",
			"properties": map[string]any{
				"title":          map[string]any{"type": "STRING"},
				"description":    map[string]any{"type": "STRING"},
				"estimatedPrice": map[string]any{"type": "STRING"},
			},
			"required": []string{"title", "description", "estimatedPrice"},
		},
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("enhancement call failed, using fallback draft")
		return degradedDraft(rawText, serviceType)
	}

	draft, err := parseDraft(text)
	if err != nil {
		s.logger.Warn().Err(err).Msg("enhancement response unparseable, using fallback draft")
		return degradedDraft(rawText, serviceType)
	}

	if s.cache != nil {
		s.cache.Set(signature, draft)
	}
	return draft
}

func (s *EnhancementService) AnalyzeImage(ctx context.Context, base64Image string) string {
	if s.client == nil || !s.client.Available() {
		return "AI analysis unavailable (Missing Key)"
	}

	data := base64Image
	if index := strings.Index(data, ","); index >= 0 {
		data = data[index+1:]
	}

	text, err := s.client.GenerateText(ctx, ai.GenerateRequest{
		Prompt: "Analyze this image and describe what household service is likely needed " +
			"(e.g., plumbing repair, cleaning, gardening). Keep it brief.",
		Inline: &ai.InlineData{MIMEType: "image/jpeg", Data: data},
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("image analysis failed")
		return "Error analyzing image."
	}
	if strings.TrimSpace(text) == "" {
		return "Could not analyze image."
	}
	return text
}

func degradedDraft(rawText string, serviceType domain.ServiceType) domain.EnhancedDraft {
	return domain.EnhancedDraft{
		Title:          fmt.Sprintf("%s Job", serviceType),
		Description:    rawText,
		EstimatedPrice: "Price TBD",
	}
}

func parseDraft(text string) (domain.EnhancedDraft, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var draft domain.EnhancedDraft
	if err := json.Unmarshal([]byte(cleaned), &draft); err != nil {
		return domain.EnhancedDraft{}, fmt.Errorf("decode draft: %w", err)
	}
	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Description) == "" {
		return domain.EnhancedDraft{}, fmt.Errorf("draft missing title or description")
	}
	return draft, nil
}
