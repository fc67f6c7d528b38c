package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"petmatch/pkg/auth"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "petmatch:session:"

// SessionRepository shares auth sessions between server instances. Entries
// carry a TTL, so nothing outlives the configured session lifetime.
type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ auth.SessionStore = (*SessionRepository)(nil)

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		rdb: rdb,
		ttl: ttl,
	}
}

func sessionKey(sessionID string) string {
	return keyPrefix + sessionID
}

func (r *SessionRepository) Save(ctx context.Context, sessionID string, session *auth.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return r.rdb.Set(ctx, sessionKey(sessionID), payload, r.ttl).Err()
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*auth.Session, bool, error) {
	payload, err := r.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var session auth.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, false, fmt.Errorf("decode session: %w", err)
	}
	return &session, true, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, sessionKey(sessionID)).Err()
}
