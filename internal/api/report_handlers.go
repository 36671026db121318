package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/Jagog2026/Eutymia-crm/internal/pdf"
	"github.com/Jagog2026/Eutymia-crm/internal/repo"
)

// TherapistReport es el desglose mensual de un terapeuta: sesiones válidas,
// facturación y comisión calculada con su tabla por servicio.
type TherapistReport struct {
	TherapistID string  `json:"therapist_id"`
	Name        string  `json:"name"`
	Sessions    int     `json:"sessions"`
	Revenue     float64 `json:"revenue"`
	Commission  float64 `json:"commission"`
}

type ServiceReport struct {
	Service  string  `json:"service"`
	Sessions int     `json:"sessions"`
	Revenue  float64 `json:"revenue"`
}

// RedNumber es una sesión atendida y no cobrada: el dinero que la clínica
// tiene pendiente de entrar.
type RedNumber struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Responsible string  `json:"responsible"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
}

type MonthlyReport struct {
	Month          int               `json:"month"`
	Year           int               `json:"year"`
	TotalIncome    float64           `json:"total_income"`
	PaidIncome     float64           `json:"paid_income"`
	PendingIncome  float64           `json:"pending_income"`
	WorkshopIncome float64           `json:"workshop_income"`
	FixedExpenses  float64           `json:"fixed_expenses"`
	VarExpenses    float64           `json:"variable_expenses"`
	NetIncome      float64           `json:"net_income"`
	Therapists     []TherapistReport `json:"therapists"`
	Services       []ServiceReport   `json:"services"`
	RedNumbers     []RedNumber       `json:"red_numbers"`
}

// BuildMonthlyReport agrega las sesiones del mes en el reporte mensual. Es
// función pura sobre filas ya cargadas; los estados atendidos y pagados se
// deciden con los predicados de repo.
func BuildMonthlyReport(month, year int, sessions []repo.MonthSession, therapists []repo.Therapist, workshopIncome, fixedExpenses, varExpenses float64) *MonthlyReport {
	byID := make(map[string]*repo.Therapist, len(therapists))
	for i := range therapists {
		byID[therapists[i].ID.String()] = &therapists[i]
	}

	rep := &MonthlyReport{
		Month:          month,
		Year:           year,
		WorkshopIncome: workshopIncome,
		FixedExpenses:  fixedExpenses,
		VarExpenses:    varExpenses,
	}
	perTherapist := map[string]*TherapistReport{}
	perService := map[string]*ServiceReport{}

	for i := range sessions {
		s := &sessions[i]
		if !repo.IsAttendedStatus(s.Status) {
			continue
		}
		rep.TotalIncome += s.Price
		if repo.IsPaidStatus(s.PaymentStatus) {
			rep.PaidIncome += s.Price
		} else {
			rep.PendingIncome += s.Price
			responsible := s.TherapistName
			if responsible == "" {
				responsible = "Sin asignar"
			}
			rep.RedNumbers = append(rep.RedNumbers, RedNumber{
				Type:        "Pendiente Pago",
				Description: s.Service + " - " + s.PatientName,
				Responsible: responsible,
				Date:        s.Date.Format("2006-01-02"),
				Amount:      s.Price,
			})
		}

		if s.TherapistID != nil {
			key := s.TherapistID.String()
			tr, ok := perTherapist[key]
			if !ok {
				tr = &TherapistReport{TherapistID: key, Name: s.TherapistName}
				perTherapist[key] = tr
			}
			tr.Sessions++
			tr.Revenue += s.Price
			if t, ok := byID[key]; ok {
				tr.Commission += s.Price * t.CommissionFor(s.Service) / 100
			}
		}

		sr, ok := perService[s.Service]
		if !ok {
			sr = &ServiceReport{Service: s.Service}
			perService[s.Service] = sr
		}
		sr.Sessions++
		sr.Revenue += s.Price
	}

	for _, tr := range perTherapist {
		rep.Therapists = append(rep.Therapists, *tr)
	}
	sort.Slice(rep.Therapists, func(i, j int) bool { return rep.Therapists[i].Name < rep.Therapists[j].Name })
	for _, sr := range perService {
		rep.Services = append(rep.Services, *sr)
	}
	sort.Slice(rep.Services, func(i, j int) bool { return rep.Services[i].Service < rep.Services[j].Service })

	rep.NetIncome = rep.PaidIncome + rep.WorkshopIncome - rep.FixedExpenses - rep.VarExpenses
	return rep
}

func monthYearParams(r *http.Request) (int, int, error) {
	now := time.Now()
	month, year := int(now.Month()), now.Year()
	if s := r.URL.Query().Get("month"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 12 {
			return 0, 0, fmt.Errorf("mes inválido: %s", s)
		}
		month = n
	}
	if s := r.URL.Query().Get("year"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 2000 || n > 2100 {
			return 0, 0, fmt.Errorf("año inválido: %s", s)
		}
		year = n
	}
	return month, year, nil
}

func (h *Handler) loadMonthlyReport(r *http.Request, month, year int) (*MonthlyReport, error) {
	sessions, err := repo.ListMonthSessions(r.Context(), h.DB, month, year)
	if err != nil {
		return nil, err
	}
	therapists, err := repo.ListTherapists(r.Context(), h.DB, false)
	if err != nil {
		return nil, err
	}
	workshopIncome, err := repo.SumWorkshopIncome(r.Context(), h.DB, month, year)
	if err != nil {
		return nil, err
	}
	fixed, variable, err := repo.SumExpensesByType(r.Context(), h.DB, month, year)
	if err != nil {
		return nil, err
	}
	return BuildMonthlyReport(month, year, sessions, therapists, workshopIncome, fixed, variable), nil
}

// GetReport devuelve el reporte mensual agregado (ingresos, comisiones,
// números rojos).
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	month, year, err := monthYearParams(r)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	rep, err := h.loadMonthlyReport(r, month, year)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, rep)
}

var monthNames = [...]string{"", "Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre"}

// GetReportPDF descarga el mismo reporte como PDF.
func (h *Handler) GetReportPDF(w http.ResponseWriter, r *http.Request) {
	month, year, err := monthYearParams(r)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	rep, err := h.loadMonthlyReport(r, month, year)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	body, err := monthlyReportPDF(rep)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, reportFilename(month, year)))
	_, _ = w.Write(body)
}

// monthlyReportPDF arma el documento fpdf a partir del reporte agregado.
func monthlyReportPDF(rep *MonthlyReport) ([]byte, error) {
	doc := pdf.MonthlyReport{
		Title:          "Reporte mensual Eutymia",
		Period:         fmt.Sprintf("%s %d", monthNames[rep.Month], rep.Year),
		TotalIncome:    rep.TotalIncome,
		PaidIncome:     rep.PaidIncome,
		PendingIncome:  rep.PendingIncome,
		WorkshopIncome: rep.WorkshopIncome,
		FixedExpenses:  rep.FixedExpenses,
		VarExpenses:    rep.VarExpenses,
	}
	for _, t := range rep.Therapists {
		doc.Therapists = append(doc.Therapists, pdf.TherapistLine{
			Name: t.Name, Sessions: t.Sessions, Revenue: t.Revenue, Commission: t.Commission,
		})
	}
	for _, rn := range rep.RedNumbers {
		doc.RedNumbers = append(doc.RedNumbers, pdf.RedNumberLine{
			Description: rn.Description, Responsible: rn.Responsible, Date: formatDateDMY(rn.Date), Amount: rn.Amount,
		})
	}
	return pdf.BuildMonthlyReportPDF(doc)
}

func reportFilename(month, year int) string {
	return fmt.Sprintf("reporte_%d_%02d.pdf", year, month)
}

// EmailMonthlyReport envía el reporte mensual en PDF por correo, p. ej. a la
// contadora a fin de mes.
func (h *Handler) EmailMonthlyReport(w http.ResponseWriter, r *http.Request) {
	if h.sendReportEmail == nil {
		http.Error(w, `{"error":"envío de correo no configurado"}`, http.StatusServiceUnavailable)
		return
	}
	var req struct {
		To string `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	if !emailRegex.MatchString(req.To) {
		http.Error(w, `{"error":"email inválido"}`, http.StatusBadRequest)
		return
	}
	month, year, err := monthYearParams(r)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	rep, err := h.loadMonthlyReport(r, month, year)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	body, err := monthlyReportPDF(rep)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	subject := fmt.Sprintf("Reporte mensual Eutymia - %s %d", monthNames[month], year)
	text := fmt.Sprintf("Adjunto el reporte mensual de %s %d.", monthNames[month], year)
	if err := h.sendReportEmail(req.To, subject, text, reportFilename(month, year), body); err != nil {
		http.Error(w, `{"error":"no se pudo enviar el correo"}`, http.StatusBadGateway)
		return
	}
	writeJSON(w, map[string]string{"message": "Reporte enviado a " + req.To + "."})
}
