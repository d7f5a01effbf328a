package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/agency-crm/internal/csvimport"
	"github.com/ignite/agency-crm/internal/worker"
)

// =============================================================================
// IMPORT WIZARD HANDLERS
// =============================================================================
// HTTP surface of the three-step contact import:
// 1. Upload the CSV, get back headers and suggested column mappings.
// 2. Review carriers: distinct raw values plus suggested catalog matches.
// 3. Process with the confirmed mappings; download the reject file after.

const defaultMaxUploadBytes = 20 << 20

// SetMaxUploadBytes caps the accepted import file size.
func (h *Handlers) SetMaxUploadBytes(n int64) {
	if n > 0 {
		h.maxUploadBytes = n
	}
}

type carrierStepRequest struct {
	Columns csvimport.ColumnMapping `json:"columns"`
}

type processRequest struct {
	Columns  csvimport.ColumnMapping  `json:"columns"`
	Carriers csvimport.CarrierMapping `json:"carriers"`
}

// HandleImportUpload accepts the CSV as a multipart "file" part and
// opens a wizard session.
// POST /api/import/upload
func (h *Handlers) HandleImportUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.maxUploadBytes
	if maxBytes == 0 {
		maxBytes = defaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, "missing file upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, "failed to read upload", http.StatusBadRequest)
		return
	}

	preview, err := h.imports.BeginSession(r.Context(), header.Filename, string(data))
	if err != nil {
		writeImportError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// HandleImportCarrierStep runs carrier extraction for the confirmed
// column mapping.
// POST /api/import/{sessionID}/carriers
func (h *Handlers) HandleImportCarrierStep(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req carrierStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	step, err := h.imports.CarrierStep(r.Context(), sessionID, req.Columns)
	if err != nil {
		writeImportError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, step)
}

// HandleImportProcess runs the pipeline and imports the valid rows.
// POST /api/import/{sessionID}/process
func (h *Handlers) HandleImportProcess(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	outcome, err := h.imports.Process(r.Context(), sessionID, req.Columns, req.Carriers)
	if err != nil {
		writeImportError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// HandleImportRejected downloads the reject list from the last
// processing run as a CSV.
// GET /api/import/{sessionID}/rejected
func (h *Handlers) HandleImportRejected(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	csvText, err := h.imports.RejectedCSV(r.Context(), sessionID)
	if err != nil {
		writeImportError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="rejected_rows.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(csvText))
}

// writeImportError maps pipeline and session errors to HTTP statuses.
// Malformed files and bad mappings are client errors; anything else is
// a server fault.
func writeImportError(w http.ResponseWriter, err error) {
	var parseErr *csvimport.ParseError
	var lookupErr *csvimport.LookupError

	switch {
	case errors.Is(err, worker.ErrSessionNotFound):
		writeError(w, "import session not found or expired", http.StatusNotFound)
	case errors.Is(err, csvimport.ErrEmptyFile),
		errors.Is(err, csvimport.ErrNoHeaders),
		errors.As(err, &parseErr),
		errors.As(err, &lookupErr):
		writeError(w, err.Error(), http.StatusBadRequest)
	default:
		writeError(w, "import failed", http.StatusInternalServerError)
	}
}
