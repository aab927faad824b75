package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appErrors "github.com/webasthetic/leadmailer-backend/internal/errors"
	"github.com/webasthetic/leadmailer-backend/internal/handler"
	"github.com/webasthetic/leadmailer-backend/internal/model"
)

// --- Mock repository ---

type MockLeadRepo struct {
	leads map[int]*model.Lead
}

func (m *MockLeadRepo) ListPending(limit int) ([]*model.Lead, error) { return nil, nil }
func (m *MockLeadRepo) MarkSent(id int, at time.Time) error          { return nil }
func (m *MockLeadRepo) MarkFailed(id int, reason string, at time.Time) error {
	return nil
}

func (m *MockLeadRepo) GetByID(id int) (*model.Lead, error) {
	l, ok := m.leads[id]
	if !ok {
		return nil, appErrors.NewLeadNotFound(id)
	}
	return l, nil
}

func (m *MockLeadRepo) Create(lead *model.Lead) error {
	lead.ID = len(m.leads) + 1
	m.leads[lead.ID] = lead
	return nil
}

func (m *MockLeadRepo) Stats() (map[string]int, error) {
	return map[string]int{"total": 10, "sent": 6, "failed": 1, "pending": 4}, nil
}

func TestCreateLeadHandler(t *testing.T) {
	repo := &MockLeadRepo{leads: map[int]*model.Lead{}}
	h := &handler.LeadHandler{Repo: repo}

	body, _ := json.Marshal(map[string]string{
		"email":             "founder@acme.example",
		"generated_subject": "Quick question",
		"generated_body":    "Hi there",
	})
	req := httptest.NewRequest("POST", "/leads", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.CreateLeadHandler(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Result().StatusCode)
	}

	var res model.Lead
	if err := json.NewDecoder(w.Result().Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if res.ID == 0 || res.Email != "founder@acme.example" {
		t.Errorf("unexpected lead: %+v", res)
	}
	if res.EmailSent {
		t.Error("new lead must start unsent")
	}
}

func TestCreateLeadHandlerRequiresEmail(t *testing.T) {
	h := &handler.LeadHandler{Repo: &MockLeadRepo{leads: map[int]*model.Lead{}}}

	req := httptest.NewRequest("POST", "/leads", bytes.NewReader([]byte(`{"generated_subject":"x"}`)))
	w := httptest.NewRecorder()
	h.CreateLeadHandler(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 without email, got %d", w.Result().StatusCode)
	}
}

func TestGetLeadStatsHandler(t *testing.T) {
	h := &handler.LeadHandler{Repo: &MockLeadRepo{leads: map[int]*model.Lead{}}}

	req := httptest.NewRequest("GET", "/leads/stats", nil)
	w := httptest.NewRecorder()
	h.GetLeadStatsHandler(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Result().StatusCode)
	}

	var res struct {
		Stats map[string]int `json:"stats"`
	}
	if err := json.NewDecoder(w.Result().Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if res.Stats["sent"] != 6 || res.Stats["pending"] != 4 {
		t.Errorf("unexpected stats: %+v", res.Stats)
	}
}
