package implementation

import (
	"context"
	"encoding/json"

	"petmatch/internal/repository/contract"
	"petmatch/pkg/supabase"
)

type DiagnosticsRepositoryRest struct {
	client    *supabase.Client
	procedure string
}

func NewDiagnosticsRepositoryRest(client *supabase.Client, procedure string) contract.DiagnosticsRepository {
	return &DiagnosticsRepositoryRest{
		client:    client,
		procedure: procedure,
	}
}

func (r *DiagnosticsRepositoryRest) ListTables(ctx context.Context) (json.RawMessage, error) {
	return r.client.RPC(ctx, r.procedure, nil)
}
