package memory

import (
	"context"
	"time"

	"petmatch/pkg/auth"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps auth sessions in process memory only.
type SessionRepository struct {
	cache *cache.Cache
}

var _ auth.SessionStore = (*SessionRepository)(nil)

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(_ context.Context, sessionID string, session *auth.Session) error {
	r.cache.Set(sessionID, session, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, sessionID string) (*auth.Session, bool, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*auth.Session), true, nil
	}
	return nil, false, nil
}

func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}
