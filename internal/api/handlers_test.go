package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/agency-crm/internal/repository/postgres"
	"github.com/ignite/agency-crm/internal/worker"
	"github.com/ignite/agency-crm/internal/zipdata"
)

var contactCols = []string{
	"id", "first_name", "last_name", "email",
	"phone_number", "current_carrier", "plan_type",
	"effective_date", "birth_date", "tobacco_user",
	"gender", "state", "zip_code",
	"agent_id", "last_emailed_date", "created_at", "updated_at",
}

func contactRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(contactCols).AddRow(
		int64(1), "John", "Doe", "john@example.com",
		"5551234567", "Aetna", "G",
		"2026-01-01", "1960-05-02", false,
		"M", "TX", "75001",
		nil, "", now, now,
	)
}

func setupAPITest(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	contacts := postgres.NewContactRepo(db)
	agents := postgres.NewAgentRepo(db)
	carriers := postgres.NewCarrierRepo(db)
	jobs := postgres.NewImportJobRepo(db)
	imports := worker.NewImportService(rdb, contacts, carriers, jobs, nil)

	zipPath := filepath.Join(t.TempDir(), "zips.json")
	zipJSON := `{"75001": {"state": "TX", "counties": ["Dallas"], "cities": ["Addison"]}}`
	require.NoError(t, os.WriteFile(zipPath, []byte(zipJSON), 0644))
	zips, err := zipdata.Load(zipPath)
	require.NoError(t, err)

	h := NewHandlers(db, contacts, agents, carriers, imports, zips)
	return SetupRoutes(h), mock
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	handler, _ := setupAPITest(t)

	rec := doJSON(t, handler, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)
}

func TestListContacts(t *testing.T) {
	handler, mock := setupAPITest(t)

	mock.ExpectQuery("SELECT (.+) FROM contacts").
		WithArgs(100).
		WillReturnRows(contactRows())

	rec := doJSON(t, handler, http.MethodGet, "/api/contacts", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var contacts []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contacts))
	require.Len(t, contacts, 1)
	assert.Equal(t, "john@example.com", contacts[0]["email"])
}

func TestListContactsBadLimit(t *testing.T) {
	handler, _ := setupAPITest(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/contacts?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetContactNotFound(t *testing.T) {
	handler, mock := setupAPITest(t)

	mock.ExpectQuery("SELECT (.+) FROM contacts").
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	rec := doJSON(t, handler, http.MethodGet, "/api/contacts/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateContactRequiresEmail(t *testing.T) {
	handler, _ := setupAPITest(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/contacts", map[string]string{
		"first_name": "John",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestZipLookup(t *testing.T) {
	handler, _ := setupAPITest(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/zip-lookup/75001", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"TX"`)

	rec = doJSON(t, handler, http.MethodGet, "/api/zip-lookup/00000", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCarriers(t *testing.T) {
	handler, mock := setupAPITest(t)

	mock.ExpectQuery("SELECT id, name, COALESCE\\(aliases, '\\{\\}'\\)").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "aliases"}).
			AddRow(1, "Aetna", `{"Aetna Health"}`))

	rec := doJSON(t, handler, http.MethodGet, "/api/settings/carriers", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Aetna"`)
}

func uploadCSV(t *testing.T, handler http.Handler, filename, contents string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestImportWizardFlow(t *testing.T) {
	handler, mock := setupAPITest(t)

	csvText := "First Name,Email,Current Carrier\n" +
		"John,john@example.com,BCBS\n" +
		"Bad,not-an-email,BCBS\n"

	rec := uploadCSV(t, handler, "book.csv", csvText)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var preview worker.SessionPreview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &preview))
	require.NotEmpty(t, preview.SessionID)
	assert.Equal(t, "Email", preview.SuggestedColumns.Email)

	// Carrier step
	mock.ExpectQuery("SELECT id, name, COALESCE\\(aliases, '\\{\\}'\\)").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "aliases"}).
			AddRow(1, "Blue Cross Blue Shield", `{BCBS}`))

	rec = doJSON(t, handler, http.MethodPost, "/api/import/"+preview.SessionID+"/carriers",
		map[string]interface{}{"columns": preview.SuggestedColumns})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var step worker.CarrierPreview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &step))
	assert.Equal(t, []string{"BCBS"}, step.RawValues)
	assert.Equal(t, "Blue Cross Blue Shield", step.Suggested.Lookup("BCBS"))

	// Process step
	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT import_sp").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO contacts").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("RELEASE SAVEPOINT import_sp").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectExec("INSERT INTO import_jobs").WillReturnResult(sqlmock.NewResult(1, 1))

	rec = doJSON(t, handler, http.MethodPost, "/api/import/"+preview.SessionID+"/process",
		map[string]interface{}{
			"columns":  preview.SuggestedColumns,
			"carriers": step.Suggested,
		})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var outcome worker.ImportOutcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.Equal(t, 1, outcome.Imported)
	assert.Equal(t, 1, outcome.Result.ErrorRows)
	assert.Equal(t, 1, outcome.Result.ConvertedCarrierRows)

	// Rejected download
	req := httptest.NewRequest(http.MethodGet, "/api/import/"+preview.SessionID+"/rejected", nil)
	recDl := httptest.NewRecorder()
	handler.ServeHTTP(recDl, req)
	assert.Equal(t, http.StatusOK, recDl.Code)
	assert.Equal(t, "text/csv", recDl.Header().Get("Content-Type"))
	assert.Contains(t, recDl.Body.String(), "not-an-email,invalid email")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportUploadEmptyFile(t *testing.T) {
	handler, _ := setupAPITest(t)

	rec := uploadCSV(t, handler, "empty.csv", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty")
}

func TestImportUploadMissingFile(t *testing.T) {
	handler, _ := setupAPITest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/import/upload", strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportSessionExpired(t *testing.T) {
	handler, _ := setupAPITest(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/import/gone/process",
		map[string]interface{}{"columns": map[string]string{}, "carriers": map[string]interface{}{}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
