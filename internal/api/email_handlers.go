package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/Jagog2026/Eutymia-crm/internal/repo"
	"github.com/google/uuid"
)

// BulkEmailLeads manda una campaña por SMTP a los leads elegidos. El cuerpo
// admite el marcador {{.FullName}} que se sustituye por lead.
func (h *Handler) BulkEmailLeads(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LeadIDs []string `json:"leadIds"`
		Subject string   `json:"subject"`
		Body    string   `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	if len(req.LeadIDs) == 0 || strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Body) == "" {
		http.Error(w, `{"error":"leadIds, subject y body son obligatorios"}`, http.StatusBadRequest)
		return
	}
	if h.sendCampaignEmail == nil {
		http.Error(w, `{"error":"correo no configurado"}`, http.StatusServiceUnavailable)
		return
	}
	ids := make([]uuid.UUID, 0, len(req.LeadIDs))
	for _, s := range req.LeadIDs {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, `{"error":"leadId inválido: `+s+`"}`, http.StatusBadRequest)
			return
		}
		ids = append(ids, id)
	}
	leads, err := repo.ListLeadsByIDs(r.Context(), h.DB, ids)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	type emailResult struct {
		LeadID string `json:"lead_id"`
		Sent   bool   `json:"sent"`
		Error  string `json:"error,omitempty"`
	}
	results := make([]emailResult, 0, len(leads))
	sent := 0
	for i := range leads {
		l := &leads[i]
		res := emailResult{LeadID: l.ID.String()}
		if l.Email == nil || strings.TrimSpace(*l.Email) == "" {
			res.Error = "sin email"
			results = append(results, res)
			continue
		}
		if err := h.sendCampaignEmail(*l.Email, l.FullName, req.Subject, req.Body); err != nil {
			log.Printf("[email] campaña a %s: %v", *l.Email, err)
			res.Error = "fallo de envío"
			results = append(results, res)
			continue
		}
		res.Sent = true
		sent++
		results = append(results, res)
	}
	writeJSON(w, map[string]interface{}{"sent": sent, "total": len(leads), "results": results})
}
