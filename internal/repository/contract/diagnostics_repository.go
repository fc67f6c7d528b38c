package contract

import (
	"context"
	"encoding/json"
)

type DiagnosticsRepository interface {
	// ListTables invokes the table-listing procedure and returns its raw result.
	ListTables(ctx context.Context) (json.RawMessage, error)
}
