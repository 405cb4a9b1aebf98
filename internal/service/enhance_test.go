package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/homely/homely-back/internal/ai"
	"github.com/homely/homely-back/internal/cache"
	"github.com/homely/homely-back/internal/domain"
)

// stubGenerator scripts the provider so the fallback ladder can be exercised
// without network access.
type stubGenerator struct {
	available bool
	response  string
	err       error
	calls     int
}

func (s *stubGenerator) Available() bool { return s.available }

func (s *stubGenerator) GenerateText(ctx context.Context, request ai.GenerateRequest) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newEnhanceCache() *cache.EnhanceCache {
	return cache.NewEnhanceCache(cache.Config{TTL: time.Minute, MaxEntries: 16})
}

func TestEnhanceDescriptionWithoutProvider(t *testing.T) {
	service := NewEnhancementService(&stubGenerator{available: false}, newEnhanceCache(), zerolog.Nop())

	draft := service.EnhanceDescription(context.Background(), "leaky pipe under sink", domain.ServiceTypePlumbing)
	if draft.Title != "Plumbing Request" {
		t.Fatalf("unexpected title %q", draft.Title)
	}
	if draft.Description != "leaky pipe under sink" {
		t.Fatalf("expected raw text preserved, got %q", draft.Description)
	}
	if draft.EstimatedPrice != "$50 - $100 (Estimate unavailable)" {
		t.Fatalf("unexpected price %q", draft.EstimatedPrice)
	}
}

func TestEnhanceDescriptionSuccess(t *testing.T) {
	generator := &stubGenerator{
		available: true,
		response:  `{"title":"Sparkling Kitchen Revival","description":"Full deep clean of the kitchen.","estimatedPrice":"$120 - $180"}`,
	}
	service := NewEnhancementService(generator, newEnhanceCache(), zerolog.Nop())

	draft := service.EnhanceDescription(context.Background(), "clean my kitchen", domain.ServiceTypeCleaning)
	if draft.Title != "Sparkling Kitchen Revival" {
		t.Fatalf("unexpected title %q", draft.Title)
	}
	if draft.EstimatedPrice != "$120 - $180" {
		t.Fatalf("unexpected price %q", draft.EstimatedPrice)
	}
}

func TestEnhanceDescriptionStripsCodeFences(t *testing.T) {
	generator := &stubGenerator{
		available: true,
		response:  "```json\n{\"title\":\"Garden Refresh\",\"description\":\"Tidy the beds.\",\"estimatedPrice\":\"$60 - $90\"}\n```",
	}
	service := NewEnhancementService(generator, newEnhanceCache(), zerolog.Nop())

	draft := service.EnhanceDescription(context.Background(), "weeds everywhere", domain.ServiceTypeGardening)
	if draft.Title != "Garden Refresh" {
		t.Fatalf("unexpected title %q", draft.Title)
	}
}

func TestEnhanceDescriptionDegradesOnCallFailure(t *testing.T) {
	generator := &stubGenerator{available: true, err: errors.New("quota exhausted")}
	service := NewEnhancementService(generator, newEnhanceCache(), zerolog.Nop())

	draft := service.EnhanceDescription(context.Background(), "fix the fence", domain.ServiceTypeOther)
	if draft.Title != "Other Job" {
		t.Fatalf("unexpected title %q", draft.Title)
	}
	if draft.Description != "fix the fence" {
		t.Fatalf("expected raw text preserved, got %q", draft.Description)
	}
	if draft.EstimatedPrice != "Price TBD" {
		t.Fatalf("unexpected price %q", draft.EstimatedPrice)
	}
}

func TestEnhanceDescriptionDegradesOnGarbageResponse(t *testing.T) {
	generator := &stubGenerator{available: true, response: "sorry, I cannot help with that"}
	service := NewEnhancementService(generator, newEnhanceCache(), zerolog.Nop())

	draft := service.EnhanceDescription(context.Background(), "broken outlet", domain.ServiceTypeElectrician)
	if draft.Title != "Electrician Job" || draft.EstimatedPrice != "Price TBD" {
		t.Fatalf("expected degraded draft, got %+v", draft)
	}
}

func TestEnhanceDescriptionUsesCache(t *testing.T) {
	generator := &stubGenerator{
		available: true,
		response:  `{"title":"Pipe Patrol","description":"Inspect and fix the leak.","estimatedPrice":"$90 - $140"}`,
	}
	service := NewEnhancementService(generator, newEnhanceCache(), zerolog.Nop())
	ctx := context.Background()

	first := service.EnhanceDescription(ctx, "leaky pipe", domain.ServiceTypePlumbing)
	second := service.EnhanceDescription(ctx, "leaky pipe", domain.ServiceTypePlumbing)
	if generator.calls != 1 {
		t.Fatalf("expected one provider call, got %d", generator.calls)
	}
	if first != second {
		t.Fatalf("expected cached draft, got %+v vs %+v", first, second)
	}

	// Different service type misses the cache.
	service.EnhanceDescription(ctx, "leaky pipe", domain.ServiceTypeOther)
	if generator.calls != 2 {
		t.Fatalf("expected cache miss on new type, got %d calls", generator.calls)
	}
}

func TestAnalyzeImage(t *testing.T) {
	t.Run("no provider", func(t *testing.T) {
		service := NewEnhancementService(&stubGenerator{available: false}, nil, zerolog.Nop())
		got := service.AnalyzeImage(context.Background(), "data:image/jpeg;base64,AAAA")
		if got != "AI analysis unavailable (Missing Key)" {
			t.Fatalf("unexpected result %q", got)
		}
	})

	t.Run("call failure", func(t *testing.T) {
		service := NewEnhancementService(&stubGenerator{available: true, err: errors.New("boom")}, nil, zerolog.Nop())
		got := service.AnalyzeImage(context.Background(), "AAAA")
		if got != "Error analyzing image." {
			t.Fatalf("unexpected result %q", got)
		}
	})

	t.Run("empty response", func(t *testing.T) {
		service := NewEnhancementService(&stubGenerator{available: true, response: "  "}, nil, zerolog.Nop())
		got := service.AnalyzeImage(context.Background(), "AAAA")
		if got != "Could not analyze image." {
			t.Fatalf("unexpected result %q", got)
		}
	})

	t.Run("success", func(t *testing.T) {
		service := NewEnhancementService(&stubGenerator{available: true, response: "Likely a plumbing repair."}, nil, zerolog.Nop())
		got := service.AnalyzeImage(context.Background(), "AAAA")
		if got != "Likely a plumbing repair." {
			t.Fatalf("unexpected result %q", got)
		}
	})
}
