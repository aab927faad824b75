// internal/handler/lead_handler.go
package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/webasthetic/leadmailer-backend/internal/model"
	"github.com/webasthetic/leadmailer-backend/internal/repository"
)

// LeadHandler holds the dependencies for lead-related HTTP handlers
type LeadHandler struct {
	Repo repository.LeadRepositoryInterface
}

// CreateLeadHandler inserts a lead that already has generated content.
// Normally the upstream aggregation step writes these rows; this endpoint
// exists for seeding and manual testing.
func (h *LeadHandler) CreateLeadHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email            string `json:"email"`
		GeneratedSubject string `json:"generated_subject"`
		GeneratedBody    string `json:"generated_body"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if payload.Email == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}

	lead := &model.Lead{
		Email:            payload.Email,
		GeneratedSubject: payload.GeneratedSubject,
		GeneratedBody:    payload.GeneratedBody,
	}

	if err := h.Repo.Create(lead); err != nil {
		http.Error(w, "failed to create lead: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lead)
}

// GetLeadHandler returns a single lead by ID
func (h *LeadHandler) GetLeadHandler(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid lead id", http.StatusBadRequest)
		return
	}

	lead, err := h.Repo.GetByID(id)
	if err != nil {
		log.Println("❌ Error fetching lead:", err)
		http.Error(w, "failed to fetch lead: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lead)
}

// GetLeadStatsHandler returns sent/failed/pending counts for the store
func (h *LeadHandler) GetLeadStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Repo.Stats()
	if err != nil {
		log.Println("❌ Error fetching lead stats:", err)
		http.Error(w, "failed to fetch stats: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"stats": stats})
}
