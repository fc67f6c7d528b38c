package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNoSession    = errors.New("no active session")
	ErrInvalidToken = errors.New("invalid access token")
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Session is the identity handed out by the auth backend. The application only reads it.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type EventType string

const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
	EventUserUpdated    EventType = "USER_UPDATED"
)

// Event is one auth-state change for a browser session. Session is nil after sign-out.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Session   *Session  `json:"session,omitempty"`
}

type Listener func(Event)

// Provider is what the rest of the application sees of authentication.
type Provider interface {
	// GetSession returns the current session or ErrNoSession.
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	OnAuthStateChange(sessionID string, listener Listener) *Subscription
	SignOut(ctx context.Context, sessionID string) error
}

// Backend is the hosted identity service.
type Backend interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*Session, error)
	GetUser(ctx context.Context, accessToken string) (*User, error)
	SignOut(ctx context.Context, accessToken string) error
}

// SessionStore keeps sessions keyed by the browser's session id. Delete is idempotent.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, session *Session) error
	Get(ctx context.Context, sessionID string) (*Session, bool, error)
	Delete(ctx context.Context, sessionID string) error
}
