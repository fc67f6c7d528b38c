package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"petmatch/internal/pkg/logger"

	"github.com/google/uuid"
)

// ErrConfirmationPending is returned by SignUp when the backend wants the
// address confirmed before it issues a session.
var ErrConfirmationPending = errors.New("check your inbox to confirm the account")

// Manager is the Provider backed by the hosted identity service.
type Manager struct {
	backend  Backend
	store    SessionStore
	notifier *Notifier
	logger   logger.ILogger
	now      func() time.Time
}

var _ Provider = (*Manager)(nil)

func NewManager(backend Backend, store SessionStore, notifier *Notifier, log logger.ILogger) *Manager {
	return &Manager{
		backend:  backend,
		store:    store,
		notifier: notifier,
		logger:   log,
		now:      time.Now,
	}
}

// SignIn starts a new browser session and returns its id.
func (m *Manager) SignIn(ctx context.Context, email, password string) (string, *Session, error) {
	session, err := m.backend.SignInWithPassword(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	return m.start(ctx, session)
}

func (m *Manager) SignUp(ctx context.Context, email, password string) (string, *Session, error) {
	session, err := m.backend.SignUp(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	if session == nil || session.AccessToken == "" {
		return "", nil, ErrConfirmationPending
	}
	return m.start(ctx, session)
}

func (m *Manager) start(ctx context.Context, session *Session) (string, *Session, error) {
	sessionID := uuid.NewString()
	if err := m.store.Save(ctx, sessionID, session); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}
	m.publish(Event{Type: EventSignedIn, SessionID: sessionID, Session: session})
	return sessionID, session, nil
}

func (m *Manager) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}

	session, found, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !found || session == nil {
		return nil, ErrNoSession
	}
	if !session.Expired(m.now()) {
		return session, nil
	}

	if session.RefreshToken == "" {
		m.end(ctx, sessionID)
		return nil, ErrNoSession
	}

	refreshed, err := m.backend.RefreshSession(ctx, session.RefreshToken)
	if err != nil {
		m.logger.Warn("AuthManager", "Session refresh failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		m.end(ctx, sessionID)
		return nil, ErrNoSession
	}

	if err := m.store.Save(ctx, sessionID, refreshed); err != nil {
		return nil, fmt.Errorf("store refreshed session: %w", err)
	}
	m.publish(Event{Type: EventTokenRefreshed, SessionID: sessionID, Session: refreshed})
	if session.User.ID != "" && refreshed.User != session.User {
		m.publish(Event{Type: EventUserUpdated, SessionID: sessionID, Session: refreshed})
	}
	return refreshed, nil
}

func (m *Manager) OnAuthStateChange(sessionID string, listener Listener) *Subscription {
	return m.notifier.Subscribe(sessionID, listener)
}

// SignOut revokes the session upstream and forgets it. The change notification is the only
// visible effect for other listeners.
func (m *Manager) SignOut(ctx context.Context, sessionID string) error {
	session, found, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if found && session != nil && session.AccessToken != "" {
		if err := m.backend.SignOut(ctx, session.AccessToken); err != nil {
			m.logger.Warn("AuthManager", "Upstream sign-out failed", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}
	m.end(ctx, sessionID)
	return nil
}

func (m *Manager) end(ctx context.Context, sessionID string) {
	if err := m.store.Delete(ctx, sessionID); err != nil {
		m.logger.Error("AuthManager", "Failed to delete session", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
	m.publish(Event{Type: EventSignedOut, SessionID: sessionID})
}

func (m *Manager) publish(event Event) {
	if m.notifier == nil {
		return
	}
	if err := m.notifier.Publish(event); err != nil {
		m.logger.Error("AuthManager", "Failed to publish auth event", map[string]interface{}{
			"event":      string(event.Type),
			"session_id": event.SessionID,
			"error":      err.Error(),
		})
	}
}
