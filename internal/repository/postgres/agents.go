package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/agency-crm/internal/domain"
)

// AgentRepo implements agent persistence against PostgreSQL.
type AgentRepo struct{ db *sql.DB }

// NewAgentRepo creates a Postgres-backed agent repository.
func NewAgentRepo(db *sql.DB) *AgentRepo { return &AgentRepo{db: db} }

func (r *AgentRepo) List(ctx context.Context) ([]domain.Agent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, email, COALESCE(phone,''), created_at, updated_at
		FROM agents
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	var agents []domain.Agent
	for rows.Next() {
		var a domain.Agent
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Phone,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

func (r *AgentRepo) Create(ctx context.Context, a *domain.Agent) (*domain.Agent, error) {
	created := &domain.Agent{}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO agents (first_name, last_name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, first_name, last_name, email, COALESCE(phone,''), created_at, updated_at
	`, a.FirstName, a.LastName, a.Email, a.Phone).Scan(
		&created.ID, &created.FirstName, &created.LastName, &created.Email, &created.Phone,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}
	return created, nil
}
