package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Jagog2026/Eutymia-crm/internal/agenda"
	"github.com/Jagog2026/Eutymia-crm/internal/auth"
	"github.com/Jagog2026/Eutymia-crm/internal/repo"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// AgendaEntry es una cita lista para pintar en la grilla: trae su celda
// (fecha y hora de inicio), la posición dentro de la celda y el estilo
// según estado.
type AgendaEntry struct {
	repo.Appointment
	Hour   int     `json:"hour"`
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
	Label  string  `json:"label"`
	Color  string  `json:"color"`
}

type agendaResponse struct {
	View       string           `json:"view"`
	Date       string           `json:"date"`
	Days       []string         `json:"days"`
	Hours      []int            `json:"hours"`
	Therapists []repo.Therapist `json:"therapists"`
	Entries    []AgendaEntry    `json:"entries"`
}

// GetAgenda arma la grilla de día o semana: filas de 8:00 a 22:00, columnas
// por día (vista semana) o por terapeuta (vista día). Un terapeuta con sesión
// de usuario restringida solo ve su propia columna.
func (h *Handler) GetAgenda(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view := agenda.ParseView(q.Get("view"))
	ref := time.Now()
	if s := q.Get("date"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			http.Error(w, `{"error":"fecha inválida, use YYYY-MM-DD"}`, http.StatusBadRequest)
			return
		}
		ref = d
	}

	var therapistIDs []uuid.UUID
	if tid := auth.TherapistIDFrom(r.Context()); tid != nil && auth.RoleFrom(r.Context()) == auth.RoleTherapist {
		id, err := uuid.Parse(*tid)
		if err == nil {
			therapistIDs = append(therapistIDs, id)
		}
	} else {
		raw := q.Get("therapists")
		if raw == "" {
			raw = q.Get("therapist_id")
		}
		for _, s := range strings.Split(raw, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			id, err := uuid.Parse(s)
			if err != nil {
				http.Error(w, `{"error":"therapists inválido"}`, http.StatusBadRequest)
				return
			}
			therapistIDs = append(therapistIDs, id)
		}
	}

	cacheKey := "agenda:" + string(view) + ":" + ref.Format("2006-01-02") + ":" + joinIDs(therapistIDs)
	if b := h.Cache.Get(cacheKey); b != nil {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
		return
	}

	from, to := agenda.ViewRange(ref, view)
	appts, err := repo.ListAppointmentsByDateRange(r.Context(), h.DB, from, to, therapistIDs)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	therapists, err := repo.ListTherapists(r.Context(), h.DB, true)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	entries := make([]AgendaEntry, 0, len(appts))
	for i := range appts {
		a := &appts[i]
		top, height := agenda.Layout(agendaEntryOf(a))
		style := agenda.StatusStyle(a.Status)
		entries = append(entries, AgendaEntry{
			Appointment: *a,
			Hour:        agenda.HourOf(repo.TimeToHHMM(a.Time)),
			Top:         top,
			Height:      height,
			Label:       style.Label,
			Color:       style.Color,
		})
	}

	days := agenda.Days(ref, view)
	dayStrs := make([]string, len(days))
	for i, d := range days {
		dayStrs[i] = d.Format("2006-01-02")
	}
	resp := agendaResponse{
		View:       string(view),
		Date:       ref.Format("2006-01-02"),
		Days:       dayStrs,
		Hours:      agenda.Hours(),
		Therapists: therapists,
		Entries:    entries,
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

// agendaEntryOf proyecta una cita al tipo que entiende el motor de la grilla.
func agendaEntryOf(a *repo.Appointment) agenda.Entry {
	return agenda.Entry{
		Date:        a.Date,
		Time:        repo.TimeToHHMM(a.Time),
		TherapistID: a.TherapistID,
		StartTS:     a.StartTS,
		EndTS:       a.EndTS,
	}
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}

type appointmentRequest struct {
	LeadID      *string  `json:"lead_id"`
	PatientName string   `json:"patient_name"`
	Service     string   `json:"service"`
	TherapistID *string  `json:"therapist_id"`
	Branch      *string  `json:"branch"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	EndTime     string   `json:"end_time"`
	Status      string   `json:"status"`
	Price       float64  `json:"price"`
	Notes       *string  `json:"notes"`
}

// toAppointment valida la petición y arma la fila. Una cita nueva queda sin
// estado de pago hasta que se cobra.
func (req *appointmentRequest) toAppointment() (*repo.Appointment, error) {
	req.PatientName = strings.TrimSpace(req.PatientName)
	if req.PatientName == "" {
		return nil, errors.New("patient_name obligatorio")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, errors.New("fecha inválida, use YYYY-MM-DD")
	}
	if agenda.HourOf(repo.TimeToHHMM(req.Time)) < 0 {
		return nil, errors.New("hora fuera del horario de agenda")
	}
	a := &repo.Appointment{
		PatientName: req.PatientName,
		Service:     req.Service,
		Branch:      req.Branch,
		Date:        date,
		Time:        repo.TimeToHHMM(req.Time),
		EndTime:     repo.TimeToHHMM(req.EndTime),
		Status:      req.Status,
		Price:       req.Price,
		Notes:       req.Notes,
	}
	if req.LeadID != nil && *req.LeadID != "" {
		id, err := uuid.Parse(*req.LeadID)
		if err != nil {
			return nil, errors.New("lead_id inválido")
		}
		a.LeadID = &id
	}
	if req.TherapistID != nil && *req.TherapistID != "" {
		id, err := uuid.Parse(*req.TherapistID)
		if err != nil {
			return nil, errors.New("therapist_id inválido")
		}
		a.TherapistID = &id
	}
	return a, nil
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	a, err := req.toAppointment()
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	if err := repo.CreateAppointment(r.Context(), h.DB, a); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	h.invalidateAgenda()
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, a)
}

func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["appointmentId"])
	if err != nil {
		http.Error(w, `{"error":"invalid appointment_id"}`, http.StatusBadRequest)
		return
	}
	var p repo.AppointmentPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	if err := repo.UpdateAppointment(r.Context(), h.DB, id, &p); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	h.invalidateAgenda()
	a, err := repo.AppointmentByID(r.Context(), h.DB, id)
	if err != nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, a)
}

// MoveAppointment es el endpoint del drag-and-drop: recibe la celda destino
// y reubica la cita sin tocar el resto de sus campos.
func (h *Handler) MoveAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["appointmentId"])
	if err != nil {
		http.Error(w, `{"error":"invalid appointment_id"}`, http.StatusBadRequest)
		return
	}
	var req struct {
		Date        string  `json:"date"`
		Time        string  `json:"time"`
		TherapistID *string `json:"therapist_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		http.Error(w, `{"error":"fecha inválida, use YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	}
	if agenda.HourOf(repo.TimeToHHMM(req.Time)) < 0 {
		http.Error(w, `{"error":"hora fuera del horario de agenda"}`, http.StatusBadRequest)
		return
	}
	var therapistID *uuid.UUID
	if req.TherapistID != nil && *req.TherapistID != "" {
		tid, err := uuid.Parse(*req.TherapistID)
		if err != nil {
			http.Error(w, `{"error":"therapist_id inválido"}`, http.StatusBadRequest)
			return
		}
		therapistID = &tid
	}
	a, err := repo.MoveAppointment(r.Context(), h.DB, id, req.Date, req.Time, therapistID)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	h.invalidateAgenda()
	writeJSON(w, a)
}

// PayAppointment marca la sesión como cobrada con fecha de pago de hoy.
func (h *Handler) PayAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["appointmentId"])
	if err != nil {
		http.Error(w, `{"error":"invalid appointment_id"}`, http.StatusBadRequest)
		return
	}
	if err := repo.MarkAppointmentPaid(r.Context(), h.DB, id); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	h.invalidateAgenda()
	writeJSON(w, map[string]string{"message": "Pago registrado."})
}

func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["appointmentId"])
	if err != nil {
		http.Error(w, `{"error":"invalid appointment_id"}`, http.StatusBadRequest)
		return
	}
	if err := repo.DeleteAppointment(r.Context(), h.DB, id); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	h.invalidateAgenda()
	writeJSON(w, map[string]string{"message": "Cita eliminada."})
}

// CreateBlock bloquea una celda de la agenda (vacaciones, juntas, etc.).
func (h *Handler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date        string  `json:"date"`
		Time        string  `json:"time"`
		EndTime     string  `json:"end_time"`
		TherapistID *string `json:"therapist_id"`
		Branch      *string `json:"branch"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	if agenda.HourOf(repo.TimeToHHMM(req.Time)) < 0 {
		http.Error(w, `{"error":"hora fuera del horario de agenda"}`, http.StatusBadRequest)
		return
	}
	var therapistID *uuid.UUID
	if req.TherapistID != nil && *req.TherapistID != "" {
		tid, err := uuid.Parse(*req.TherapistID)
		if err != nil {
			http.Error(w, `{"error":"therapist_id inválido"}`, http.StatusBadRequest)
			return
		}
		therapistID = &tid
	}
	a, err := repo.CreateBlock(r.Context(), h.DB, req.Date, req.Time, req.EndTime, therapistID, req.Branch)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	h.invalidateAgenda()
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, a)
}

func (h *Handler) invalidateAgenda() {
	h.Cache.DeletePrefix("agenda:")
	h.Cache.DeletePrefix("dashboard:")
}
