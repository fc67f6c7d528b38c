package implementation

import (
	"context"

	"petmatch/internal/repository/contract"
	"petmatch/pkg/match"
	"petmatch/pkg/supabase"
)

type DogRepositoryRest struct {
	client *supabase.Client
	table  string
}

func NewDogRepositoryRest(client *supabase.Client, table string) contract.DogRepository {
	return &DogRepositoryRest{
		client: client,
		table:  table,
	}
}

func (r *DogRepositoryRest) FindAll(ctx context.Context) ([]match.Candidate, error) {
	var rows []match.Candidate
	if err := r.client.Select(ctx, r.table, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []match.Candidate{}
	}
	return rows, nil
}
