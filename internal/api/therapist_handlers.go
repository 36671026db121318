package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Jagog2026/Eutymia-crm/internal/repo"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func (h *Handler) ListTherapists(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("all") != "true"
	list, err := repo.ListTherapists(r.Context(), h.DB, onlyActive)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{"therapists": list})
}

func (h *Handler) GetTherapist(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["therapistId"])
	if err != nil {
		http.Error(w, `{"error":"invalid therapist_id"}`, http.StatusBadRequest)
		return
	}
	t, err := repo.TherapistByID(r.Context(), h.DB, id)
	if err != nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, t)
}

func (h *Handler) CreateTherapist(w http.ResponseWriter, r *http.Request) {
	var t repo.Therapist
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		http.Error(w, `{"error":"nombre obligatorio"}`, http.StatusBadRequest)
		return
	}
	if t.Color == "" {
		t.Color = "#3b82f6"
	}
	t.Active = true
	if err := repo.CreateTherapist(r.Context(), h.DB, &t); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	h.Cache.DeletePrefix("agenda:")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, &t)
}

func (h *Handler) UpdateTherapist(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["therapistId"])
	if err != nil {
		http.Error(w, `{"error":"invalid therapist_id"}`, http.StatusBadRequest)
		return
	}
	existing, err := repo.TherapistByID(r.Context(), h.DB, id)
	if err != nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	// Decodifica sobre la fila actual para que los campos ausentes no se pierdan.
	if err := json.NewDecoder(r.Body).Decode(existing); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	existing.ID = id
	if strings.TrimSpace(existing.Name) == "" {
		http.Error(w, `{"error":"nombre obligatorio"}`, http.StatusBadRequest)
		return
	}
	if err := repo.UpdateTherapist(r.Context(), h.DB, existing); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	h.Cache.DeletePrefix("agenda:")
	writeJSON(w, existing)
}

func (h *Handler) DeleteTherapist(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["therapistId"])
	if err != nil {
		http.Error(w, `{"error":"invalid therapist_id"}`, http.StatusBadRequest)
		return
	}
	if err := repo.DeleteTherapist(r.Context(), h.DB, id); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	h.Cache.DeletePrefix("agenda:")
	writeJSON(w, map[string]string{"message": "Terapeuta desactivado."})
}
