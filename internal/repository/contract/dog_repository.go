package contract

import (
	"context"

	"petmatch/pkg/match"
)

// DogRepository reads the shelter's candidate list. Every call returns the
// full current contents; nothing is cached.
type DogRepository interface {
	FindAll(ctx context.Context) ([]match.Candidate, error)
}
