package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Jagog2026/Eutymia-crm/internal/pdf"
	"github.com/Jagog2026/Eutymia-crm/internal/repo"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func (h *Handler) ListWorkshops(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("all") != "true"
	list, err := repo.ListWorkshops(r.Context(), h.DB, onlyActive)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{"workshops": list})
}

func (h *Handler) GetWorkshop(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["workshopId"])
	if err != nil {
		http.Error(w, `{"error":"invalid workshop_id"}`, http.StatusBadRequest)
		return
	}
	ws, err := repo.WorkshopByID(r.Context(), h.DB, id)
	if err != nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	regs, err := repo.ListWorkshopRegistrations(r.Context(), h.DB, id)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{"workshop": ws, "registrations": regs})
}

func (h *Handler) CreateWorkshop(w http.ResponseWriter, r *http.Request) {
	var ws repo.Workshop
	if err := json.NewDecoder(r.Body).Decode(&ws); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	ws.Title = strings.TrimSpace(ws.Title)
	if ws.Title == "" {
		http.Error(w, `{"error":"title obligatorio"}`, http.StatusBadRequest)
		return
	}
	ws.CurrentAttendees = 0
	ws.Active = true
	if err := repo.CreateWorkshop(r.Context(), h.DB, &ws); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, &ws)
}

func (h *Handler) UpdateWorkshop(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["workshopId"])
	if err != nil {
		http.Error(w, `{"error":"invalid workshop_id"}`, http.StatusBadRequest)
		return
	}
	existing, err := repo.WorkshopByID(r.Context(), h.DB, id)
	if err != nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(existing); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	existing.ID = id
	if strings.TrimSpace(existing.Title) == "" {
		http.Error(w, `{"error":"title obligatorio"}`, http.StatusBadRequest)
		return
	}
	if err := repo.UpdateWorkshop(r.Context(), h.DB, existing); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, existing)
}

func (h *Handler) DeleteWorkshop(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["workshopId"])
	if err != nil {
		http.Error(w, `{"error":"invalid workshop_id"}`, http.StatusBadRequest)
		return
	}
	if err := repo.DeleteWorkshop(r.Context(), h.DB, id); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": "Taller eliminado."})
}

// RegisterToWorkshop inscribe un lead en el taller respetando el cupo.
func (h *Handler) RegisterToWorkshop(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["workshopId"])
	if err != nil {
		http.Error(w, `{"error":"invalid workshop_id"}`, http.StatusBadRequest)
		return
	}
	var req struct {
		LeadID        string  `json:"lead_id"`
		PaymentAmount float64 `json:"payment_amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	leadID, err := uuid.Parse(req.LeadID)
	if err != nil {
		http.Error(w, `{"error":"lead_id inválido"}`, http.StatusBadRequest)
		return
	}
	reg, err := repo.RegisterLeadToWorkshop(r.Context(), h.DB, id, leadID, req.PaymentAmount)
	if err != nil {
		if errors.Is(err, repo.ErrWorkshopFull) {
			http.Error(w, `{"error":"taller sin cupos disponibles"}`, http.StatusConflict)
			return
		}
		http.Error(w, `{"error":"no se pudo registrar"}`, http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, reg)
}

// WorkshopQR devuelve un PNG con el QR de la página pública de inscripción,
// pensado para imprimir en los flyers del taller.
func (h *Handler) WorkshopQR(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["workshopId"])
	if err != nil {
		http.Error(w, `{"error":"invalid workshop_id"}`, http.StatusBadRequest)
		return
	}
	if _, err := repo.WorkshopByID(r.Context(), h.DB, id); err != nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	url := strings.TrimRight(h.Cfg.AppPublicURL, "/") + "/talleres/" + id.String()
	png, err := pdf.WorkshopQR(url, 512)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
