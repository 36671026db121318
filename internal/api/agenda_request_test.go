package api

import (
	"testing"
	"time"

	"github.com/Jagog2026/Eutymia-crm/internal/repo"
	"github.com/google/uuid"
)

func TestAgendaEntryOf(t *testing.T) {
	tid := uuid.New()
	start := time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)
	a := &repo.Appointment{
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Time:        "10:30:00",
		TherapistID: &tid,
		StartTS:     &start,
	}
	e := agendaEntryOf(a)
	if e.Time != "10:30" {
		t.Errorf("time = %q, want 10:30", e.Time)
	}
	if e.TherapistID == nil || *e.TherapistID != tid {
		t.Errorf("therapist_id no se propagó: %v", e.TherapistID)
	}
	if e.StartTS == nil || !e.StartTS.Equal(start) {
		t.Errorf("start_ts no se propagó: %v", e.StartTS)
	}

	// Sin terapeuta asignado el puntero queda nil, no uuid.Nil.
	e = agendaEntryOf(&repo.Appointment{Date: a.Date, Time: "09:00"})
	if e.TherapistID != nil {
		t.Errorf("therapist_id debe quedar nil, got %v", e.TherapistID)
	}
}

func TestAppointmentRequestToAppointment(t *testing.T) {
	tid := uuid.New().String()
	req := appointmentRequest{
		PatientName: "  Laura Jiménez ",
		Service:     "Terapia individual",
		TherapistID: &tid,
		Date:        "2026-03-10",
		Time:        "11:00",
		Price:       800,
	}
	a, err := req.toAppointment()
	if err != nil {
		t.Fatalf("toAppointment: %v", err)
	}
	if a.PatientName != "Laura Jiménez" {
		t.Errorf("patient_name = %q", a.PatientName)
	}
	if a.PaymentStatus != "" {
		t.Errorf("una cita nueva no debe nacer con estado de pago, got %q", a.PaymentStatus)
	}
	if a.TherapistID == nil || a.TherapistID.String() != tid {
		t.Errorf("therapist_id = %v", a.TherapistID)
	}

	cases := []struct {
		name string
		req  appointmentRequest
	}{
		{"sin nombre", appointmentRequest{Date: "2026-03-10", Time: "11:00"}},
		{"fecha inválida", appointmentRequest{PatientName: "Ana", Date: "10/03/2026", Time: "11:00"}},
		{"hora ilegible", appointmentRequest{PatientName: "Ana", Date: "2026-03-10", Time: "once"}},
		{"lead_id inválido", appointmentRequest{PatientName: "Ana", Date: "2026-03-10", Time: "11:00", LeadID: strPtr("no-uuid")}},
	}
	for _, c := range cases {
		if _, err := c.req.toAppointment(); err == nil {
			t.Errorf("%s: esperaba error", c.name)
		}
	}
}

func strPtr(s string) *string { return &s }
