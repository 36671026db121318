package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/Jagog2026/Eutymia-crm/internal/repo"
	"github.com/google/uuid"
)

type sendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
	LeadID  string `json:"leadId"`
	Type    string `json:"type"` // "text" (default) o "template"
}

// SendWhatsApp manda un mensaje por la Cloud API y guarda la fila saliente
// en el hilo del lead.
func (h *Handler) SendWhatsApp(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	req.To = strings.TrimSpace(req.To)
	if req.To == "" || strings.TrimSpace(req.Message) == "" {
		http.Error(w, `{"error":"to y message son obligatorios"}`, http.StatusBadRequest)
		return
	}
	if h.WhatsApp == nil {
		http.Error(w, `{"error":"WhatsApp no configurado"}`, http.StatusServiceUnavailable)
		return
	}

	var wamid string
	var content string
	var err error
	if req.Type == "template" {
		wamid, err = h.WhatsApp.SendTemplate(req.To, req.Message, "es_MX")
		content = "[Template: " + req.Message + "]"
	} else {
		wamid, err = h.WhatsApp.SendText(req.To, req.Message)
		content = req.Message
	}
	if err != nil {
		log.Printf("[whatsapp] envío a %s: %v", req.To, err)
		http.Error(w, `{"error":"no se pudo enviar el mensaje"}`, http.StatusBadGateway)
		return
	}

	if req.LeadID != "" {
		leadID, perr := uuid.Parse(req.LeadID)
		if perr == nil {
			var waID *string
			if wamid != "" {
				waID = &wamid
			}
			msg := &repo.Message{
				LeadID:     leadID,
				WhatsAppID: waID,
				Direction:  repo.DirectionOutbound,
				Content:    content,
				Status:     "sent",
			}
			if cerr := repo.CreateMessage(r.Context(), h.DB, msg); cerr != nil {
				log.Printf("[whatsapp] no se guardó el mensaje saliente: %v", cerr)
			}
		}
	}

	writeJSON(w, map[string]interface{}{"success": true, "messageId": wamid})
}

// BulkSendWhatsApp manda el mismo texto a varios leads y reporta el resultado
// por lead. Los que no tienen teléfono se saltan.
func (h *Handler) BulkSendWhatsApp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LeadIDs []string `json:"leadIds"`
		Message string   `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	if len(req.LeadIDs) == 0 || strings.TrimSpace(req.Message) == "" {
		http.Error(w, `{"error":"leadIds y message son obligatorios"}`, http.StatusBadRequest)
		return
	}
	if h.WhatsApp == nil {
		http.Error(w, `{"error":"WhatsApp no configurado"}`, http.StatusServiceUnavailable)
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

	type bulkResult struct {
		LeadID  string `json:"lead_id"`
		Sent    bool   `json:"sent"`
		Error   string `json:"error,omitempty"`
	}
	results := make([]bulkResult, 0, len(leads))
	sent := 0
	for i := range leads {
		l := &leads[i]
		res := bulkResult{LeadID: l.ID.String()}
		if l.Phone == nil || strings.TrimSpace(*l.Phone) == "" {
			res.Error = "sin teléfono"
			results = append(results, res)
			continue
		}
		wamid, err := h.WhatsApp.SendText(*l.Phone, req.Message)
		if err != nil {
			log.Printf("[whatsapp] bulk a %s: %v", *l.Phone, err)
			res.Error = "fallo de envío"
			results = append(results, res)
			continue
		}
		var waID *string
		if wamid != "" {
			waID = &wamid
		}
		msg := &repo.Message{
			LeadID:     l.ID,
			WhatsAppID: waID,
			Direction:  repo.DirectionOutbound,
			Content:    req.Message,
			Status:     "sent",
		}
		if cerr := repo.CreateMessage(r.Context(), h.DB, msg); cerr != nil {
			log.Printf("[whatsapp] no se guardó el mensaje saliente: %v", cerr)
		}
		res.Sent = true
		sent++
		results = append(results, res)
	}
	writeJSON(w, map[string]interface{}{"sent": sent, "total": len(leads), "results": results})
}
