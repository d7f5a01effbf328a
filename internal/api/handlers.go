package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ignite/agency-crm/internal/repository/postgres"
	"github.com/ignite/agency-crm/internal/worker"
	"github.com/ignite/agency-crm/internal/zipdata"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	contacts  *postgres.ContactRepo
	agents    *postgres.AgentRepo
	carriers  *postgres.CarrierRepo
	imports   *worker.ImportService
	zips      *zipdata.Store
	db        *sql.DB
	startTime time.Time

	maxUploadBytes int64
}

// NewHandlers creates a new Handlers instance
func NewHandlers(db *sql.DB, contacts *postgres.ContactRepo, agents *postgres.AgentRepo,
	carriers *postgres.CarrierRepo, imports *worker.ImportService, zips *zipdata.Store) *Handlers {
	return &Handlers{
		contacts:  contacts,
		agents:    agents,
		carriers:  carriers,
		imports:   imports,
		zips:      zips,
		db:        db,
		startTime: time.Now(),
	}
}

// HealthCheck returns service liveness plus a database ping.
// GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	dbStatus := "up"
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			status = "degraded"
			dbStatus = "down"
		}
	} else {
		dbStatus = "not_configured"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   status,
		"database": dbStatus,
		"uptime":   time.Since(h.startTime).Round(time.Second).String(),
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
