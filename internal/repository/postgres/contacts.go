package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ignite/agency-crm/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ContactRepo implements contact persistence against PostgreSQL.
type ContactRepo struct{ db *sql.DB }

// NewContactRepo creates a Postgres-backed contact repository.
func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{db: db} }

const contactColumns = `id, first_name, last_name, email,
	COALESCE(phone_number,''), COALESCE(current_carrier,''), COALESCE(plan_type,''),
	COALESCE(effective_date,''), COALESCE(birth_date,''), tobacco_user,
	COALESCE(gender,''), COALESCE(state,''), COALESCE(zip_code,''),
	agent_id, COALESCE(last_emailed_date,''), created_at, updated_at`

func scanContact(row interface{ Scan(...interface{}) error }) (*domain.Contact, error) {
	c := &domain.Contact{}
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email,
		&c.PhoneNumber, &c.CurrentCarrier, &c.PlanType,
		&c.EffectiveDate, &c.BirthDate, &c.TobaccoUser,
		&c.Gender, &c.State, &c.ZipCode,
		&c.AgentID, &c.LastEmailedDate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ContactRepo) List(ctx context.Context, limit int) ([]domain.Contact, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var contacts []domain.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}

func (r *ContactRepo) Get(ctx context.Context, id int64) (*domain.Contact, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

func (r *ContactRepo) Create(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	created, err := scanContact(r.db.QueryRowContext(ctx, `
		INSERT INTO contacts
			(first_name, last_name, email, phone_number, current_carrier, plan_type,
			 effective_date, birth_date, tobacco_user, gender, state, zip_code, agent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+contactColumns+`
	`, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.CurrentCarrier, c.PlanType,
		c.EffectiveDate, c.BirthDate, c.TobaccoUser, c.Gender, c.State, c.ZipCode, c.AgentID))
	if err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return created, nil
}

func (r *ContactRepo) Update(ctx context.Context, id int64, c *domain.Contact) (*domain.Contact, error) {
	updated, err := scanContact(r.db.QueryRowContext(ctx, `
		UPDATE contacts SET
			first_name = $1, last_name = $2, email = $3, phone_number = $4,
			current_carrier = $5, plan_type = $6, effective_date = $7, birth_date = $8,
			tobacco_user = $9, gender = $10, state = $11, zip_code = $12,
			agent_id = COALESCE($13, agent_id),
			updated_at = NOW()
		WHERE id = $14
		RETURNING `+contactColumns+`
	`, c.FirstName, c.LastName, c.Email, c.PhoneNumber,
		c.CurrentCarrier, c.PlanType, c.EffectiveDate, c.BirthDate,
		c.TobaccoUser, c.Gender, c.State, c.ZipCode, c.AgentID, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	return updated, nil
}

// BulkImport upserts a batch of imported contacts, keyed on email (the
// de-duplication key the import pipeline guarantees non-empty). Existing
// contacts keep their name fields unless the import supplies non-empty
// replacements. Returns the number of rows written; a single failed row
// does not abort the batch.
func (r *ContactRepo) BulkImport(ctx context.Context, contacts []domain.Contact) (int, error) {
	if len(contacts) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin bulk import: %w", err)
	}
	defer tx.Rollback()

	imported := 0
	for _, c := range contacts {
		// Savepoint per row so one failure doesn't poison the transaction.
		if _, err := tx.ExecContext(ctx, "SAVEPOINT import_sp"); err != nil {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO contacts
				(first_name, last_name, email, phone_number, current_carrier, plan_type,
				 effective_date, birth_date, tobacco_user, gender, state, zip_code)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (email) DO UPDATE SET
				first_name = COALESCE(NULLIF(EXCLUDED.first_name, ''), contacts.first_name),
				last_name = COALESCE(NULLIF(EXCLUDED.last_name, ''), contacts.last_name),
				phone_number = COALESCE(NULLIF(EXCLUDED.phone_number, ''), contacts.phone_number),
				current_carrier = COALESCE(NULLIF(EXCLUDED.current_carrier, ''), contacts.current_carrier),
				plan_type = COALESCE(NULLIF(EXCLUDED.plan_type, ''), contacts.plan_type),
				effective_date = COALESCE(NULLIF(EXCLUDED.effective_date, ''), contacts.effective_date),
				birth_date = COALESCE(NULLIF(EXCLUDED.birth_date, ''), contacts.birth_date),
				tobacco_user = EXCLUDED.tobacco_user,
				gender = COALESCE(NULLIF(EXCLUDED.gender, ''), contacts.gender),
				zip_code = COALESCE(NULLIF(EXCLUDED.zip_code, ''), contacts.zip_code),
				updated_at = NOW()
		`, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.CurrentCarrier, c.PlanType,
			c.EffectiveDate, c.BirthDate, c.TobaccoUser, c.Gender, c.State, c.ZipCode)
		if err != nil {
			tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT import_sp")
			continue
		}
		tx.ExecContext(ctx, "RELEASE SAVEPOINT import_sp")
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit bulk import: %w", err)
	}
	return imported, nil
}
