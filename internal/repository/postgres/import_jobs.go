package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImportJob is the audit record of one completed (or failed) CSV
// import run.
type ImportJob struct {
	ID                   uuid.UUID `json:"id"`
	Filename             string    `json:"filename"`
	Status               string    `json:"status"` // completed, failed
	TotalRows            int       `json:"total_rows"`
	ValidRows            int       `json:"valid_rows"`
	ErrorRows            int       `json:"error_rows"`
	ConvertedCarrierRows int       `json:"converted_carrier_rows"`
	Error                string    `json:"error,omitempty"`
	CompletedAt          time.Time `json:"completed_at"`
}

// ImportJobRepo records import runs for the dashboard's history view.
type ImportJobRepo struct{ db *sql.DB }

// NewImportJobRepo creates a Postgres-backed import job repository.
func NewImportJobRepo(db *sql.DB) *ImportJobRepo { return &ImportJobRepo{db: db} }

func (r *ImportJobRepo) Record(ctx context.Context, job *ImportJob) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO import_jobs
			(id, filename, status, total_rows, valid_rows, error_rows,
			 converted_carrier_rows, error, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`, job.ID, job.Filename, job.Status, job.TotalRows, job.ValidRows,
		job.ErrorRows, job.ConvertedCarrierRows, job.Error)
	if err != nil {
		return fmt.Errorf("record import job: %w", err)
	}
	return nil
}
