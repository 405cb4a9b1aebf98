package repository

import (
	"context"
	"sync"

	"github.com/homely/homely-back/internal/domain"
)

// SessionsRepository persists the single active session of a running client
// instance. Get reports absence through the boolean, not an error.
type SessionsRepository interface {
	SaveSession(ctx context.Context, profile domain.UserProfile) error
	GetSession(ctx context.Context) (domain.UserProfile, bool, error)
	DeleteSession(ctx context.Context) error
}

// MemorySessionsRepository keeps the session in process memory.
type MemorySessionsRepository struct {
	mu      sync.RWMutex
	profile *domain.UserProfile
}

func NewMemorySessionsRepository() *MemorySessionsRepository {
	return &MemorySessionsRepository{}
}

func (r *MemorySessionsRepository) SaveSession(_ context.Context, profile domain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profile = &profile
	return nil
}

func (r *MemorySessionsRepository) GetSession(_ context.Context) (domain.UserProfile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.profile == nil {
		return domain.UserProfile{}, false, nil
	}
	return *r.profile, true, nil
}

func (r *MemorySessionsRepository) DeleteSession(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profile = nil
	return nil
}
