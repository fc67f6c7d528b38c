package implementation

import (
	"context"
	"encoding/json"
	"fmt"

	"petmatch/internal/repository/contract"
	"petmatch/pkg/match"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// jsonRow holds a single json_agg result.
type jsonRow struct {
	Payload datatypes.JSON `gorm:"column:payload"`
}

type DogRepositoryImpl struct {
	db    *gorm.DB
	table string
}

func NewDogRepository(db *gorm.DB, table string) contract.DogRepository {
	return &DogRepositoryImpl{
		db:    db,
		table: table,
	}
}

// FindAll aggregates the table into one JSON array so rows keep their
// original column names and types, exactly as the REST layer returns them.
func (r *DogRepositoryImpl) FindAll(ctx context.Context) ([]match.Candidate, error) {
	var row jsonRow
	err := r.db.WithContext(ctx).
		Raw("SELECT coalesce(json_agg(d), '[]'::json) AS payload FROM ? d", clause.Table{Name: r.table}).
		Scan(&row).Error
	if err != nil {
		return nil, translatePgError(err)
	}

	candidates := []match.Candidate{}
	if len(row.Payload) == 0 {
		return candidates, nil
	}
	if err := json.Unmarshal(row.Payload, &candidates); err != nil {
		return nil, fmt.Errorf("decode %s rows: %w", r.table, err)
	}
	return candidates, nil
}
