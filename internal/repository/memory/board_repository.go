package memory

import (
	"sync"
	"time"

	"petmatch/pkg/match"

	"github.com/patrickmn/go-cache"
)

// BoardRepository hands out one display Board per key. Idle boards expire
// with the session TTL.
type BoardRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewBoardRepository(ttl time.Duration) *BoardRepository {
	return &BoardRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *BoardRepository) GetOrCreate(key string) *match.Board {
	r.mu.Lock()
	defer r.mu.Unlock()

	if x, found := r.cache.Get(key); found {
		board := x.(*match.Board)
		r.cache.SetDefault(key, board)
		return board
	}
	board := match.NewBoard()
	r.cache.SetDefault(key, board)
	return board
}

func (r *BoardRepository) Delete(key string) {
	r.cache.Delete(key)
}
