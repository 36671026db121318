package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/Jagog2026/Eutymia-crm/internal/repo"
)

type activityItem struct {
	Type        string    `json:"type"` // "lead" o "payment"
	Description string    `json:"description"`
	Amount      float64   `json:"amount,omitempty"`
	At          time.Time `json:"at"`
}

// GetDashboard arma los agregados de la pantalla de inicio. La respuesta se
// cachea 60 segundos; cualquier mutación de agenda invalida el prefijo.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	const cacheKey = "dashboard:home"
	if b := h.Cache.Get(cacheKey); b != nil {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
		return
	}

	ctx := r.Context()
	now := time.Now()
	month, year := int(now.Month()), now.Year()
	prevMonth, prevYear := month-1, year
	if prevMonth == 0 {
		prevMonth, prevYear = 12, year-1
	}

	todayCount, err := repo.CountAppointmentsOn(ctx, h.DB, now)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	activePatients, err := repo.CountActivePatients(ctx, h.DB)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	income, err := repo.MonthlyIncome(ctx, h.DB, month, year)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	prevIncome, err := repo.MonthlyIncome(ctx, h.DB, prevMonth, prevYear)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	growth := 0.0
	if prevIncome > 0 {
		growth = (income - prevIncome) / prevIncome * 100
	}
	branches, err := repo.CountAppointmentsByBranch(ctx, h.DB, month, year)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	fixed, variable, err := repo.SumExpensesByType(ctx, h.DB, month, year)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	upcoming, err := repo.ListUpcomingAppointments(ctx, h.DB, now, 3)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	recentLeads, err := repo.ListRecentLeads(ctx, h.DB, 3)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	recentPayments, err := repo.ListRecentPayments(ctx, h.DB, 3)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	activity := make([]activityItem, 0, len(recentLeads)+len(recentPayments))
	for _, l := range recentLeads {
		activity = append(activity, activityItem{
			Type:        "lead",
			Description: "Nuevo lead: " + l.FullName,
			At:          l.CreatedAt,
		})
	}
	for _, p := range recentPayments {
		activity = append(activity, activityItem{
			Type:        "payment",
			Description: "Pago de " + p.PatientName,
			Amount:      p.Price,
			At:          p.PaymentDate,
		})
	}
	sort.Slice(activity, func(i, j int) bool { return activity[i].At.After(activity[j].At) })

	resp := map[string]interface{}{
		"today_appointments": todayCount,
		"active_patients":    activePatients,
		"monthly_income":     income,
		"income_growth_pct":  growth,
		"branches":           branches,
		"fixed_expenses":     fixed,
		"variable_expenses":  variable,
		"upcoming":           upcoming,
		"activity":           activity,
	}
	body, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	h.Cache.Set(cacheKey, body)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}
