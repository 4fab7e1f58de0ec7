// Package auth keeps the guest-first account layer: a users list and a
// single current-session record. Everything works without an account;
// logging in only attaches an identity to the session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/domain"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/events"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/pricing"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/store"
)

const minPasswordLen = 6

var (
	ErrMissingFields      = errors.New("please fill in all fields")
	ErrInvalidEmail       = errors.New("please enter a valid email address")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Manager struct {
	store store.Store
	bus   *events.Bus
	mu    sync.Mutex
}

func NewManager(st store.Store, bus *events.Bus) *Manager {
	return &Manager{store: st, bus: bus}
}

// Register creates an account and logs it in. Validation failures
// leave the users list untouched: a rejected registration creates no
// user.
func (m *Manager) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if !pricing.ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	users := m.loadUsers(ctx)
	for _, u := range users {
		if normalizeEmail(u.Email) == email {
			return nil, ErrEmailTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		RegisteredAt: time.Now(),
	}
	if err := m.store.Set(ctx, store.KeyUsers, append(users, user)); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	return m.startSession(ctx, user)
}

// Login checks the credentials and opens a session. The session record
// never carries the password hash.
func (m *Manager) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.loadUsers(ctx) {
		if normalizeEmail(u.Email) != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
		return m.startSession(ctx, u)
	}
	return nil, ErrInvalidCredentials
}

// Logout clears the session. A guest logging out is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var session *domain.User
	if err := m.store.Set(ctx, store.KeyAuth, session); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	m.bus.Publish(events.TopicAuthLogout, nil)
	return nil
}

// CurrentUser returns the logged-in user, or nil for a guest.
func (m *Manager) CurrentUser(ctx context.Context) *domain.User {
	var session *domain.User
	if _, err := m.store.Get(ctx, store.KeyAuth, &session); err != nil {
		log.Printf("auth: failed to read session: %v", err)
		return nil
	}
	return session
}

func (m *Manager) IsLoggedIn(ctx context.Context) bool {
	return m.CurrentUser(ctx) != nil
}

func (m *Manager) startSession(ctx context.Context, user domain.User) (*domain.User, error) {
	session := user.WithoutPassword()
	if err := m.store.Set(ctx, store.KeyAuth, &session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	m.bus.Publish(events.TopicAuthLogin, session)
	return &session, nil
}

func (m *Manager) loadUsers(ctx context.Context) []domain.User {
	var users []domain.User
	if _, err := m.store.Get(ctx, store.KeyUsers, &users); err != nil {
		log.Printf("auth: failed to read users: %v", err)
	}
	return users
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
