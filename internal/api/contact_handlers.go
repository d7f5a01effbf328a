package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/agency-crm/internal/domain"
	"github.com/ignite/agency-crm/internal/repository/postgres"
)

// HandleListContacts returns the agency's book of business.
// GET /api/contacts?limit=N
func (h *Handlers) HandleListContacts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	contacts, err := h.contacts.List(r.Context(), limit)
	if err != nil {
		writeError(w, "failed to list contacts", http.StatusInternalServerError)
		return
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	writeJSON(w, http.StatusOK, contacts)
}

// HandleGetContact returns one contact by id.
// GET /api/contacts/{id}
func (h *Handlers) HandleGetContact(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, "invalid contact id", http.StatusBadRequest)
		return
	}

	contact, err := h.contacts.Get(r.Context(), id)
	if errors.Is(err, postgres.ErrNotFound) {
		writeError(w, "contact not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, "failed to load contact", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

// HandleCreateContact inserts one contact.
// POST /api/contacts
func (h *Handlers) HandleCreateContact(w http.ResponseWriter, r *http.Request) {
	var contact domain.Contact
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if contact.Email == "" {
		writeError(w, "email is required", http.StatusBadRequest)
		return
	}

	created, err := h.contacts.Create(r.Context(), &contact)
	if err != nil {
		writeError(w, "failed to create contact", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleUpdateContact replaces one contact's editable fields.
// PUT /api/contacts/{id}
func (h *Handlers) HandleUpdateContact(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, "invalid contact id", http.StatusBadRequest)
		return
	}

	var contact domain.Contact
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.contacts.Update(r.Context(), id, &contact)
	if errors.Is(err, postgres.ErrNotFound) {
		writeError(w, "contact not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeError(w, "failed to update contact", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
