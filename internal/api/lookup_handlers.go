package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/agency-crm/internal/domain"
	"github.com/ignite/agency-crm/internal/zipdata"
)

// HandleZipLookup resolves a zip code to state, counties, and cities.
// GET /api/zip-lookup/{zip}
func (h *Handlers) HandleZipLookup(w http.ResponseWriter, r *http.Request) {
	zip := chi.URLParam(r, "zip")

	info, err := h.zips.Lookup(zip)
	if errors.Is(err, zipdata.ErrNotFound) {
		writeError(w, "zip code not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, "zip lookup failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// HandleListCarriers returns the supported-carrier catalog the import
// wizard matches against.
// GET /api/settings/carriers
func (h *Handlers) HandleListCarriers(w http.ResponseWriter, r *http.Request) {
	carriers, err := h.carriers.ListSupported(r.Context())
	if err != nil {
		writeError(w, "failed to list carriers", http.StatusInternalServerError)
		return
	}
	if carriers == nil {
		carriers = []domain.Carrier{}
	}
	writeJSON(w, http.StatusOK, carriers)
}
