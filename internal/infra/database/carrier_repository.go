package database

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/agencydesk/crm-api/internal/entity"
)

type CarrierRepository struct {
	DB *sql.DB
}

func NewCarrierRepository(db *sql.DB) *CarrierRepository {
	return &CarrierRepository{DB: db}
}

// ListAll returns the carrier catalog ordered by canonical name, which fixes
// the match order used by the import pipeline's alias lookup. Aliases are
// stored as a JSON array string; a malformed value degrades to no aliases
// rather than failing the whole catalog.
func (r *CarrierRepository) ListAll(ctx context.Context) ([]entity.Carrier, error) {
	query := `SELECT id, name, aliases FROM carriers ORDER BY name`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var carriers []entity.Carrier
	for rows.Next() {
		var c entity.Carrier
		var aliases string
		if err := rows.Scan(&c.ID, &c.Name, &aliases); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(aliases), &c.Aliases); err != nil {
			c.Aliases = nil
		}
		carriers = append(carriers, c)
	}
	return carriers, rows.Err()
}
