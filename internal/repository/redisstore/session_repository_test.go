package redisstore

import (
	"context"
	"testing"
	"time"

	"petmatch/pkg/auth"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "petmatch:session:abc", sessionKey("abc"))
}

func TestUnreachableRedisReportsError(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	repo := NewSessionRepository(rdb, time.Hour)
	ctx := context.Background()

	_, found, err := repo.Get(ctx, "sid")
	require.Error(t, err)
	assert.False(t, found)

	assert.Error(t, repo.Save(ctx, "sid", &auth.Session{AccessToken: "tok"}))
}
