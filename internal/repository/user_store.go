package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/trip-planner/internal/model"
)

// UserStore is the capability the auth flows need from user storage.  The
// core never assumes a particular engine, only the atomicity of Create:
// check-for-existence and insert must act as one step with respect to
// concurrent writers.
type UserStore interface {
	// Create inserts a new user with the given already-hashed password and
	// returns the stored record.  The email is normalized before the
	// uniqueness check; a collision yields ErrEmailExists.
	Create(ctx context.Context, name, email, passwordHash string) (model.User, error)
	// GetByEmail fetches a user by normalized email, ErrNotFound on miss.
	GetByEmail(ctx context.Context, email string) (model.User, error)
	// GetByID fetches a user by id, ErrNotFound on miss.
	GetByID(ctx context.Context, id string) (model.User, error)
}

// NormalizeEmail folds an email to its canonical form used as the
// uniqueness key: surrounding whitespace trimmed, letters lower-cased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MemoryUserStore keeps users in process memory.  A single mutex guards
// both indexes, which makes the duplicate check and the insert atomic.
// Lookup is O(1) per index; fine for the few thousand records a demo
// deployment holds.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byEmail map[string]model.User
	byID    map[string]model.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byEmail: make(map[string]model.User),
		byID:    make(map[string]model.User),
	}
}

func (s *MemoryUserStore) Create(_ context.Context, name, email, passwordHash string) (model.User, error) {
	email = NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[email]; exists {
		return model.User{}, ErrEmailExists
	}
	u := model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.byEmail[email] = u
	s.byID[u.ID] = u
	return u, nil
}

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byEmail[NormalizeEmail(email)]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryUserStore) GetByID(_ context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}
