package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/tourney/internal/dependencies/clock"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrAuthDisabled       = errors.New("operator auth is not configured")
)

// Session represents an authenticated operator session
type Session struct {
	Token     string    `json:"token"`
	Operator  string    `json:"operator"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service checks the operator key and manages sessions
type Service struct {
	clock   clock.Clock
	keyHash []byte

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	// KeyHash is the bcrypt hash of the operator key. Empty disables auth.
	KeyHash         string
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new auth Service
func New(clock clock.Clock, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		clock:           clock,
		keyHash:         []byte(strings.TrimSpace(cfg.KeyHash)),
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
}

// HashKey returns the bcrypt hash to configure for an operator key
func HashKey(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Enabled reports whether an operator key is configured
func (s *Service) Enabled() bool {
	return len(s.keyHash) > 0
}

// Login checks the operator key and creates a session.
// operator is a free-form name recorded for audit logs.
func (s *Service) Login(ctx context.Context, operator, key string) (*Session, error) {
	if !s.Enabled() {
		return nil, ErrAuthDisabled
	}
	if err := bcrypt.CompareHashAndPassword(s.keyHash, []byte(key)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if operator == "" {
		operator = "operator"
	}
	return s.createSession(operator), nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

func (s *Service) createSession(operator string) *Session {
	now := s.clock.Now()
	session := &Session{
		Token:     generateToken(),
		Operator:  operator,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}

func generateToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "sess_" + base64.RawURLEncoding.EncodeToString(b)
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}
