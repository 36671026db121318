package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Jagog2026/Eutymia-crm/internal/repo"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// ListLeads es la fuente del kanban: filtra por etapa y texto libre, pagina,
// y devuelve además el conteo por columna para las cabeceras del tablero.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	stage := q.Get("stage")
	if stage != "" && !repo.ValidLeadStage(stage) {
		http.Error(w, `{"error":"etapa inválida"}`, http.StatusBadRequest)
		return
	}
	limit, offset := ParseLimitOffset(r)
	list, err := repo.ListLeads(r.Context(), h.DB, stage, strings.TrimSpace(q.Get("q")), limit, offset)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	counts, err := repo.CountLeadsByStage(r.Context(), h.DB)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{
		"leads":  list,
		"counts": counts,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["leadId"])
	if err != nil {
		http.Error(w, `{"error":"invalid lead_id"}`, http.StatusBadRequest)
		return
	}
	l, err := repo.LeadByID(r.Context(), h.DB, id)
	if err != nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, l)
}

func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var l repo.Lead
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	l.FullName = strings.TrimSpace(l.FullName)
	if l.FullName == "" {
		http.Error(w, `{"error":"full_name obligatorio"}`, http.StatusBadRequest)
		return
	}
	if l.Email != nil && *l.Email != "" && !emailRegex.MatchString(*l.Email) {
		http.Error(w, `{"error":"email inválido"}`, http.StatusBadRequest)
		return
	}
	if l.Source == "" {
		l.Source = "manual"
	}
	if err := repo.CreateLead(r.Context(), h.DB, &l); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, &l)
}

func (h *Handler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["leadId"])
	if err != nil {
		http.Error(w, `{"error":"invalid lead_id"}`, http.StatusBadRequest)
		return
	}
	var p repo.LeadPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	if p.Email != nil && *p.Email != "" && !emailRegex.MatchString(*p.Email) {
		http.Error(w, `{"error":"email inválido"}`, http.StatusBadRequest)
		return
	}
	if err := repo.UpdateLead(r.Context(), h.DB, id, &p); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	l, err := repo.LeadByID(r.Context(), h.DB, id)
	if err != nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, l)
}

// UpdateLeadStage mueve la tarjeta de columna en el kanban.
func (h *Handler) UpdateLeadStage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["leadId"])
	if err != nil {
		http.Error(w, `{"error":"invalid lead_id"}`, http.StatusBadRequest)
		return
	}
	var req struct {
		Status string `json:"status"`
		Stage  string `json:"stage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	// El front histórico manda "status"; se acepta "stage" como alias.
	stage := req.Status
	if stage == "" {
		stage = req.Stage
	}
	if err := repo.UpdateLeadStage(r.Context(), h.DB, id, stage); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]string{"message": "Etapa actualizada."})
}

func (h *Handler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["leadId"])
	if err != nil {
		http.Error(w, `{"error":"invalid lead_id"}`, http.StatusBadRequest)
		return
	}
	if err := repo.DeleteLead(r.Context(), h.DB, id); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": "Lead eliminado."})
}

// MarkLeadRead pone unread_count en cero sin tocar nada más.
func (h *Handler) MarkLeadRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["leadId"])
	if err != nil {
		http.Error(w, `{"error":"invalid lead_id"}`, http.StatusBadRequest)
		return
	}
	if err := repo.ResetLeadUnread(r.Context(), h.DB, id); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": "Conversación marcada como leída."})
}

// ListLeadMessages devuelve el hilo de WhatsApp del lead y marca la
// conversación como leída.
func (h *Handler) ListLeadMessages(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["leadId"])
	if err != nil {
		http.Error(w, `{"error":"invalid lead_id"}`, http.StatusBadRequest)
		return
	}
	limit, offset := ParseLimitOffset(r)
	msgs, err := repo.ListMessagesByLead(r.Context(), h.DB, id, limit, offset)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	_ = repo.ResetLeadUnread(r.Context(), h.DB, id)
	writeJSON(w, map[string]interface{}{"messages": msgs})
}
