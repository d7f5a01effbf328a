package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/ignite/agency-crm/internal/domain"
)

// CarrierRepo serves the supported-carrier catalog the import wizard
// matches raw spreadsheet values against. Aliases live in a text[]
// column so agency admins can extend them without a migration.
type CarrierRepo struct{ db *sql.DB }

// NewCarrierRepo creates a Postgres-backed carrier catalog repository.
func NewCarrierRepo(db *sql.DB) *CarrierRepo { return &CarrierRepo{db: db} }

func (r *CarrierRepo) ListSupported(ctx context.Context) ([]domain.Carrier, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(aliases, '{}')
		FROM supported_carriers
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list carriers: %w", err)
	}
	defer rows.Close()

	var carriers []domain.Carrier
	for rows.Next() {
		var c domain.Carrier
		var aliases pq.StringArray
		if err := rows.Scan(&c.ID, &c.Name, &aliases); err != nil {
			return nil, fmt.Errorf("scan carrier: %w", err)
		}
		c.Aliases = []string(aliases)
		carriers = append(carriers, c)
	}
	return carriers, rows.Err()
}

// Upsert inserts or refreshes one catalog entry, keyed on name. Used at
// startup to seed the catalog from config.
func (r *CarrierRepo) Upsert(ctx context.Context, c *domain.Carrier) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO supported_carriers (name, aliases)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET aliases = EXCLUDED.aliases
	`, c.Name, pq.Array(c.Aliases))
	if err != nil {
		return fmt.Errorf("upsert carrier: %w", err)
	}
	return nil
}
