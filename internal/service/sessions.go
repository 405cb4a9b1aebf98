package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/homely/homely-back/internal/domain"
	"github.com/homely/homely-back/internal/repository"
)

// SessionsService hands out the canonical demo identities. There is no user
// registry: the same role always resolves to the same profile.
type SessionsService struct {
	repo   repository.SessionsRepository
	logger zerolog.Logger
}

func NewSessionsService(repo repository.SessionsRepository, logger zerolog.Logger) *SessionsService {
	return &SessionsService{repo: repo, logger: logger}
}

func (s *SessionsService) Login(ctx context.Context, role domain.Role) (domain.UserProfile, error) {
	if !role.Valid() {
		return domain.UserProfile{}, fmt.Errorf("%w: role is required", domain.ErrValidation)
	}

	profile := profileForRole(role)
	if err := s.repo.SaveSession(ctx, profile); err != nil {
		return domain.UserProfile{}, fmt.Errorf("save session: %w", err)
	}

	s.logger.Info().Str("user_id", profile.ID).Str("role", string(role)).Msg("logged in")
	return profile, nil
}

func (s *SessionsService) CurrentUser(ctx context.Context) (domain.UserProfile, bool, error) {
	return s.repo.GetSession(ctx)
}

func (s *SessionsService) Logout(ctx context.Context) error {
	if err := s.repo.DeleteSession(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func profileForRole(role domain.Role) domain.UserProfile {
	profile := domain.UserProfile{
		Role:   role,
		Avatar: fmt.Sprintf("https://picsum.photos/seed/%s/50/50", role),
	}
	if role == domain.RoleClient {
		profile.ID = "client-1"
		profile.Name = "Alice Homeowner"
	} else {
		profile.ID = "worker-1"
		profile.Name = "Bob Builder"
	}
	return profile
}
