package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Jagog2026/Eutymia-crm/internal/repo"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func (h *Handler) ListLeadTasks(w http.ResponseWriter, r *http.Request) {
	leadID, err := uuid.Parse(mux.Vars(r)["leadId"])
	if err != nil {
		http.Error(w, `{"error":"invalid lead_id"}`, http.StatusBadRequest)
		return
	}
	list, err := repo.ListLeadTasks(r.Context(), h.DB, leadID)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{"tasks": list})
}

func (h *Handler) CreateLeadTask(w http.ResponseWriter, r *http.Request) {
	leadID, err := uuid.Parse(mux.Vars(r)["leadId"])
	if err != nil {
		http.Error(w, `{"error":"invalid lead_id"}`, http.StatusBadRequest)
		return
	}
	var req struct {
		Title      string  `json:"title"`
		DueDate    *string `json:"due_date"`
		AssignedTo *string `json:"assigned_to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		http.Error(w, `{"error":"title obligatorio"}`, http.StatusBadRequest)
		return
	}
	t := &repo.LeadTask{LeadID: leadID, Title: req.Title, AssignedTo: req.AssignedTo}
	if req.DueDate != nil && *req.DueDate != "" {
		d, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			http.Error(w, `{"error":"due_date inválida, use YYYY-MM-DD"}`, http.StatusBadRequest)
			return
		}
		t.DueDate = &d
	}
	if err := repo.CreateLeadTask(r.Context(), h.DB, t); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, t)
}

func (h *Handler) UpdateLeadTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["taskId"])
	if err != nil {
		http.Error(w, `{"error":"invalid task_id"}`, http.StatusBadRequest)
		return
	}
	var req struct {
		Title      *string `json:"title"`
		DueDate    *string `json:"due_date"`
		Done       *bool   `json:"done"`
		AssignedTo *string `json:"assigned_to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	var dueDate *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		d, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			http.Error(w, `{"error":"due_date inválida, use YYYY-MM-DD"}`, http.StatusBadRequest)
			return
		}
		dueDate = &d
	}
	if err := repo.UpdateLeadTask(r.Context(), h.DB, id, req.Title, dueDate, req.Done, req.AssignedTo); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": "Tarea actualizada."})
}

func (h *Handler) DeleteLeadTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["taskId"])
	if err != nil {
		http.Error(w, `{"error":"invalid task_id"}`, http.StatusBadRequest)
		return
	}
	if err := repo.DeleteLeadTask(r.Context(), h.DB, id); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": "Tarea eliminada."})
}
