package api

import (
	"encoding/json"
	"net/http"

	"github.com/ignite/agency-crm/internal/domain"
)

// HandleListAgents returns all licensed agents.
// GET /api/agents
func (h *Handlers) HandleListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.agents.List(r.Context())
	if err != nil {
		writeError(w, "failed to list agents", http.StatusInternalServerError)
		return
	}
	if agents == nil {
		agents = []domain.Agent{}
	}
	writeJSON(w, http.StatusOK, agents)
}

// HandleCreateAgent inserts one agent.
// POST /api/agents
func (h *Handlers) HandleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var agent domain.Agent
	if err := json.NewDecoder(r.Body).Decode(&agent); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if agent.Email == "" {
		writeError(w, "email is required", http.StatusBadRequest)
		return
	}

	created, err := h.agents.Create(r.Context(), &agent)
	if err != nil {
		writeError(w, "failed to create agent", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
