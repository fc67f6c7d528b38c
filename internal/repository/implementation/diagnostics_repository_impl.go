package implementation

import (
	"context"
	"encoding/json"

	"petmatch/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DiagnosticsRepositoryImpl struct {
	db        *gorm.DB
	procedure string
}

func NewDiagnosticsRepository(db *gorm.DB, procedure string) contract.DiagnosticsRepository {
	return &DiagnosticsRepositoryImpl{
		db:        db,
		procedure: procedure,
	}
}

func (r *DiagnosticsRepositoryImpl) ListTables(ctx context.Context) (json.RawMessage, error) {
	var row jsonRow
	err := r.db.WithContext(ctx).
		Raw("SELECT json_agg(t) AS payload FROM ?() t", clause.Table{Name: r.procedure}).
		Scan(&row).Error
	if err != nil {
		return nil, translatePgError(err)
	}
	if len(row.Payload) == 0 {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(row.Payload), nil
}
