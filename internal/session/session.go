// Package session holds the signed-in user of one client and persists it
// under the fixed "user" storage key.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/internal/storage"
)

// storedUser also accepts records written with the legacy isAdmin flag
type storedUser struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin *bool  `json:"isAdmin,omitempty"`
}

// UserPatch is a shallow update of the session user
type UserPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// Session is safe for concurrent use. Listeners run after each identity change.
type Session struct {
	store  storage.Store
	logger *zap.Logger

	mu        sync.RWMutex
	user      *domain.User
	listeners []func(ctx context.Context, user *domain.User)
}

// New creates an empty session; call Load to restore a persisted user
func New(store storage.Store, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{store: store, logger: logger}
}

// OnChange registers fn to run after Login and Logout
func (s *Session) OnChange(fn func(ctx context.Context, user *domain.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Load restores the persisted user. A missing or corrupt record leaves the session empty.
func (s *Session) Load(ctx context.Context) error {
	var rec storedUser
	ok, err := storage.LoadJSON(ctx, s.store, storage.KeyUser, &rec)
	if errors.Is(err, storage.ErrCorrupt) {
		s.logger.Warn("Discarding corrupt session record", zap.Error(err))
		ok, err = false, nil
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok || rec.ID == "" {
		s.user = nil
		return nil
	}
	s.user = &domain.User{
		ID:    rec.ID,
		Name:  rec.Name,
		Email: rec.Email,
		Role:  domain.ResolveRole(rec.Role, rec.IsAdmin),
	}
	return nil
}

// Login replaces the session wholesale and persists it
func (s *Session) Login(ctx context.Context, user domain.User) error {
	if strings.TrimSpace(user.ID) == "" {
		return fmt.Errorf("login: user id is required")
	}
	if !user.Role.IsValid() {
		user.Role = domain.RoleUser
	}

	if err := storage.SaveJSON(ctx, s.store, storage.KeyUser, user); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	u := user
	s.user = &u
	s.mu.Unlock()

	s.logger.Info("Session started", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	s.notify(ctx)
	return nil
}

// Logout clears the session and its persisted record
func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.Remove(ctx, storage.KeyUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.mu.Lock()
	had := s.user != nil
	s.user = nil
	s.mu.Unlock()

	if had {
		s.notify(ctx)
	}
	return nil
}

// UpdateUser merges patch into the session user. Without a session it does nothing.
func (s *Session) UpdateUser(ctx context.Context, patch UserPatch) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil, nil
	}
	next := *s.user
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.Email != nil {
		next.Email = *patch.Email
	}
	if err := storage.SaveJSON(ctx, s.store, storage.KeyUser, next); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	s.user = &next
	out := next
	return &out, nil
}

// User returns a copy of the session user, or nil
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// UserID returns the session user's ID, or "" when anonymous
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

func (s *Session) IsAuthenticated() bool {
	return s.UserID() != ""
}

func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.IsAdmin()
}

func (s *Session) notify(ctx context.Context) {
	s.mu.RLock()
	listeners := append([]func(context.Context, *domain.User){}, s.listeners...)
	s.mu.RUnlock()

	user := s.User()
	for _, fn := range listeners {
		fn(ctx, user)
	}
}
