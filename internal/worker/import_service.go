package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ignite/agency-crm/internal/csvimport"
	"github.com/ignite/agency-crm/internal/domain"
	"github.com/ignite/agency-crm/internal/repository/postgres"
)

// =============================================================================
// IMPORT SERVICE - Multi-step CSV contact import
// =============================================================================
// Server-side state for the import wizard:
// - Upload once: file text and header suggestions live in Redis under a
//   session id, so the column and carrier review steps re-run against
//   the cached file instead of re-uploading.
// - Column step and carrier step are advisory; the UI may edit both
//   mappings before the final processing step.
// - Processing runs the pure pipeline, bulk-upserts valid contacts,
//   records an import job, and keeps the reject list downloadable.

var (
	ErrSessionNotFound = errors.New("import session not found")
)

const (
	sessionTTL     = 24 * time.Hour
	sampleRowCount = 5
)

// ImportSession is the Redis-persisted wizard state for one upload.
type ImportSession struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Headers   []string  `json:"headers"`
	TotalRows int       `json:"total_rows"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionPreview is the response to the upload step.
type SessionPreview struct {
	SessionID        string                  `json:"session_id"`
	Headers          []string                `json:"headers"`
	SuggestedColumns csvimport.ColumnMapping `json:"suggested_columns"`
	SampleRows       [][]string              `json:"sample_rows"`
	TotalRows        int                     `json:"total_rows"`
}

// CarrierPreview is the response to the carrier review step.
type CarrierPreview struct {
	RawValues []string                 `json:"raw_values"`
	Suggested csvimport.CarrierMapping `json:"suggested"`
	Catalog   []domain.Carrier         `json:"catalog"`
}

// ImportOutcome is the response to the final processing step.
type ImportOutcome struct {
	JobID    string                    `json:"job_id"`
	Imported int                       `json:"imported"`
	Result   *csvimport.PipelineResult `json:"result"`
	Rejected []csvimport.RejectedRow   `json:"rejected"`
}

// FileArchiver stores the raw uploaded file for later cross-reference.
type FileArchiver interface {
	ArchiveImport(ctx context.Context, filename, contents string) (string, error)
}

// ImportService drives the import wizard.
type ImportService struct {
	redis    *redis.Client
	contacts *postgres.ContactRepo
	carriers *postgres.CarrierRepo
	jobs     *postgres.ImportJobRepo
	archiver FileArchiver // nil when archiving is disabled
	ttl      time.Duration
}

// SetSessionTTL overrides the default session lifetime.
func (s *ImportService) SetSessionTTL(d time.Duration) {
	if d > 0 {
		s.ttl = d
	}
}

// NewImportService creates the wizard service. archiver may be nil.
func NewImportService(rdb *redis.Client, contacts *postgres.ContactRepo,
	carriers *postgres.CarrierRepo, jobs *postgres.ImportJobRepo, archiver FileArchiver) *ImportService {
	return &ImportService{
		redis:    rdb,
		contacts: contacts,
		carriers: carriers,
		jobs:     jobs,
		archiver: archiver,
		ttl:      sessionTTL,
	}
}

// BeginSession parses the uploaded file, caches it, and returns header
// suggestions for the column review step. Whole-file pipeline errors
// (empty file, blank headers, malformed CSV) propagate untouched.
func (s *ImportService) BeginSession(ctx context.Context, filename, text string) (*SessionPreview, error) {
	table, err := csvimport.Parse(text)
	if err != nil {
		return nil, err
	}
	headers, err := csvimport.ExtractHeaders(table)
	if err != nil {
		return nil, err
	}

	dataRows := table.DataRows()
	sample := dataRows
	if len(sample) > sampleRowCount {
		sample = sample[:sampleRowCount]
	}

	session := &ImportSession{
		ID:        uuid.New().String(),
		Filename:  filename,
		Headers:   headers,
		TotalRows: len(dataRows),
		CreatedAt: time.Now(),
	}

	sessionJSON, _ := json.Marshal(session)
	if err := s.redis.Set(ctx, sessionKey(session.ID), sessionJSON, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store import session: %w", err)
	}
	if err := s.redis.Set(ctx, fileKey(session.ID), text, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store import file: %w", err)
	}

	log.Printf("[ImportService] Session %s: %q, %d headers, %d rows",
		session.ID, filename, len(headers), session.TotalRows)

	return &SessionPreview{
		SessionID:        session.ID,
		Headers:          headers,
		SuggestedColumns: csvimport.SuggestColumnMappings(headers),
		SampleRows:       sample,
		TotalRows:        session.TotalRows,
	}, nil
}

// GetSession loads wizard state for a session id.
func (s *ImportService) GetSession(ctx context.Context, id string) (*ImportSession, error) {
	data, err := s.redis.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session ImportSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CarrierStep extracts the distinct carrier values for the (possibly
// user-edited) column mapping and proposes a carrier mapping against
// the catalog. An unmapped carrier column yields an empty step — the
// wizard skips straight to processing.
func (s *ImportService) CarrierStep(ctx context.Context, sessionID string, cols csvimport.ColumnMapping) (*CarrierPreview, error) {
	text, err := s.fileText(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.carriers.ListSupported(ctx)
	if err != nil {
		return nil, err
	}

	if cols.CurrentCarrier == "" {
		return &CarrierPreview{Catalog: catalog}, nil
	}

	table, err := csvimport.Parse(text)
	if err != nil {
		return nil, err
	}
	rawValues, err := csvimport.ExtractUniqueValues(table, cols.CurrentCarrier)
	if err != nil {
		return nil, err
	}

	return &CarrierPreview{
		RawValues: rawValues,
		Suggested: csvimport.SuggestCarrierMappings(rawValues, toSupported(catalog)),
		Catalog:   catalog,
	}, nil
}

// Process runs the pipeline with the confirmed mappings, imports the
// valid bucket, and records the job. Rejected rows are cached for the
// correction-file download.
func (s *ImportService) Process(ctx context.Context, sessionID string, cols csvimport.ColumnMapping, carrierMap csvimport.CarrierMapping) (*ImportOutcome, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	text, err := s.fileText(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := csvimport.ProcessCSVToContacts(text, cols, carrierMap)
	if err != nil {
		return nil, err
	}

	imported, err := s.contacts.BulkImport(ctx, toDomainContacts(result.Valid))
	if err != nil {
		return nil, fmt.Errorf("bulk import: %w", err)
	}

	jobID := uuid.New()
	job := &postgres.ImportJob{
		ID:                   jobID,
		Filename:             session.Filename,
		Status:               "completed",
		TotalRows:            result.TotalRows,
		ValidRows:            result.ValidRows,
		ErrorRows:            result.ErrorRows,
		ConvertedCarrierRows: result.ConvertedCarrierRows,
	}
	if err := s.jobs.Record(ctx, job); err != nil {
		log.Printf("[ImportService] Session %s: record job failed: %v", sessionID, err)
	}

	if s.archiver != nil {
		if key, err := s.archiver.ArchiveImport(ctx, session.Filename, text); err != nil {
			log.Printf("[ImportService] Session %s: archive failed: %v", sessionID, err)
		} else {
			log.Printf("[ImportService] Session %s: archived to %s", sessionID, key)
		}
	}

	rejectsJSON, _ := json.Marshal(result.Invalid)
	s.redis.Set(ctx, rejectsKey(sessionID), rejectsJSON, s.ttl)

	log.Printf("[ImportService] Session %s: %d/%d imported, %d rejected, %d carrier conversions",
		sessionID, imported, result.TotalRows, result.ErrorRows, result.ConvertedCarrierRows)

	return &ImportOutcome{
		JobID:    jobID.String(),
		Imported: imported,
		Result:   result,
		Rejected: result.Invalid,
	}, nil
}

// RejectedCSV renders the last processing run's reject list as a
// downloadable email,reason CSV.
func (s *ImportService) RejectedCSV(ctx context.Context, sessionID string) (string, error) {
	data, err := s.redis.Get(ctx, rejectsKey(sessionID)).Bytes()
	if err == redis.Nil {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", err
	}

	var rejected []csvimport.RejectedRow
	if err := json.Unmarshal(data, &rejected); err != nil {
		return "", err
	}
	return csvimport.WriteRejectedCSV(rejected), nil
}

func (s *ImportService) fileText(ctx context.Context, sessionID string) (string, error) {
	text, err := s.redis.Get(ctx, fileKey(sessionID)).Result()
	if err == redis.Nil {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

func toSupported(catalog []domain.Carrier) []csvimport.SupportedCarrier {
	out := make([]csvimport.SupportedCarrier, len(catalog))
	for i, c := range catalog {
		out[i] = csvimport.SupportedCarrier{Name: c.Name, Aliases: c.Aliases}
	}
	return out
}

func toDomainContacts(valid []csvimport.ProcessedContact) []domain.Contact {
	out := make([]domain.Contact, len(valid))
	for i, p := range valid {
		out[i] = domain.Contact{
			FirstName:      p.FirstName,
			LastName:       p.LastName,
			Email:          p.Email,
			PhoneNumber:    p.PhoneNumber,
			CurrentCarrier: p.CurrentCarrier,
			PlanType:       p.PlanType,
			EffectiveDate:  p.EffectiveDate,
			BirthDate:      p.BirthDate,
			TobaccoUser:    p.TobaccoUser,
			Gender:         p.Gender,
			ZipCode:        p.ZipCode,
		}
	}
	return out
}

func sessionKey(id string) string { return "import:session:" + id }
func fileKey(id string) string    { return "import:file:" + id }
func rejectsKey(id string) string { return "import:rejects:" + id }
