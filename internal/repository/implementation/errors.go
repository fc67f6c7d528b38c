package implementation

import (
	"errors"

	"petmatch/pkg/supabase"

	"github.com/jackc/pgx/v5/pgconn"
)

// translatePgError reports Postgres errors the same way the REST layer does,
// so callers see one application error type regardless of driver.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &supabase.Error{
			Code:    pgErr.Code,
			Message: pgErr.Message,
			Details: pgErr.Detail,
			Hint:    pgErr.Hint,
		}
	}
	return err
}
