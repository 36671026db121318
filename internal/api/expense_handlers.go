package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Jagog2026/Eutymia-crm/internal/repo"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month, _ := strconv.Atoi(q.Get("month"))
	year, _ := strconv.Atoi(q.Get("year"))
	typ := q.Get("type")
	if typ != "" && typ != repo.ExpenseFixed && typ != repo.ExpenseVariable {
		http.Error(w, `{"error":"type debe ser fixed o variable"}`, http.StatusBadRequest)
		return
	}
	list, err := repo.ListExpenses(r.Context(), h.DB, month, year, typ)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{"expenses": list})
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Type        string  `json:"type"`
		Category    *string `json:"category"`
		Branch      *string `json:"branch"`
		DueDate     *string `json:"due_date"`
		Paid        bool    `json:"paid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" || req.Amount <= 0 {
		http.Error(w, `{"error":"description y amount positivo son obligatorios"}`, http.StatusBadRequest)
		return
	}
	if req.Type != repo.ExpenseFixed && req.Type != repo.ExpenseVariable {
		http.Error(w, `{"error":"type debe ser fixed o variable"}`, http.StatusBadRequest)
		return
	}
	e := &repo.Expense{
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
		Category:    req.Category,
		Branch:      req.Branch,
		Paid:        req.Paid,
	}
	if req.DueDate != nil && *req.DueDate != "" {
		d, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			http.Error(w, `{"error":"due_date inválida, use YYYY-MM-DD"}`, http.StatusBadRequest)
			return
		}
		e.DueDate = &d
	}
	if err := repo.CreateExpense(r.Context(), h.DB, e); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	h.Cache.DeletePrefix("dashboard:")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, e)
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["expenseId"])
	if err != nil {
		http.Error(w, `{"error":"invalid expense_id"}`, http.StatusBadRequest)
		return
	}
	var req struct {
		Description *string  `json:"description"`
		Amount      *float64 `json:"amount"`
		Type        *string  `json:"type"`
		Category    *string  `json:"category"`
		Branch      *string  `json:"branch"`
		DueDate     *string  `json:"due_date"`
		Paid        *bool    `json:"paid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	if req.Type != nil && *req.Type != repo.ExpenseFixed && *req.Type != repo.ExpenseVariable {
		http.Error(w, `{"error":"type debe ser fixed o variable"}`, http.StatusBadRequest)
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
	if err := repo.UpdateExpense(r.Context(), h.DB, id, req.Description, req.Amount, req.Type, req.Category, req.Branch, dueDate, req.Paid); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	h.Cache.DeletePrefix("dashboard:")
	writeJSON(w, map[string]string{"message": "Gasto actualizado."})
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["expenseId"])
	if err != nil {
		http.Error(w, `{"error":"invalid expense_id"}`, http.StatusBadRequest)
		return
	}
	if err := repo.DeleteExpense(r.Context(), h.DB, id); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	h.Cache.DeletePrefix("dashboard:")
	writeJSON(w, map[string]string{"message": "Gasto eliminado."})
}
