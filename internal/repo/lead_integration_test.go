//go:build integration

package repo

import (
	"context"
	"testing"
	"time"

	"github.com/Jagog2026/Eutymia-crm/internal/testutil"
	"github.com/google/uuid"
)

func TestIntegration_LeadPipelineAndAgendaMove(t *testing.T) {
	ctx := context.Background()
	db, _ := testutil.OpenDB(ctx)
	if db == nil {
		t.Skip("DATABASE_URL no configurada para tests de integración")
		return
	}
	if err := testutil.MustMigrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	phone := "+52 55 9876 5432"
	lead := &Lead{FullName: "Prueba Integración", Phone: &phone, Source: "manual"}
	if err := CreateLead(ctx, db, lead); err != nil {
		t.Fatalf("CreateLead: %v", err)
	}
	defer func() { _ = DeleteLead(ctx, db, lead.ID) }()

	if lead.Status != StageNew {
		t.Fatalf("status=%q, esperaba new", lead.Status)
	}
	if err := UpdateLeadStage(ctx, db, lead.ID, StageScheduled); err != nil {
		t.Fatalf("UpdateLeadStage: %v", err)
	}
	if err := UpdateLeadStage(ctx, db, lead.ID, "inexistente"); err == nil {
		t.Fatal("etapa inválida debe fallar")
	}

	// Matching por últimos 10 dígitos, formato distinto al guardado.
	found, err := FindLeadByPhone(ctx, db, "525598765432")
	if err != nil {
		t.Fatalf("FindLeadByPhone: %v", err)
	}
	if found.ID != lead.ID {
		t.Fatalf("encontró %s, esperaba %s", found.ID, lead.ID)
	}

	date := time.Date(2026, 4, 7, 0, 0, 0, 0, time.UTC)
	appt := &Appointment{
		LeadID:        &lead.ID,
		PatientName:   lead.FullName,
		Service:       "Terapia individual",
		Date:          date,
		Time:          "10:00",
		PaymentStatus: "pending",
		Price:         950,
	}
	if err := CreateAppointment(ctx, db, appt); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	defer func() { _ = DeleteAppointment(ctx, db, appt.ID) }()

	if appt.EndTime != "11:00" {
		t.Fatalf("end_time=%q, esperaba 11:00", appt.EndTime)
	}

	// Mover la cita cambia solo fecha, hora y terapeuta.
	moved, err := MoveAppointment(ctx, db, appt.ID, "2026-04-09", "16:00", nil)
	if err != nil {
		t.Fatalf("MoveAppointment: %v", err)
	}
	if moved.Date.Format("2006-01-02") != "2026-04-09" || TimeToHHMM(moved.Time) != "16:00" {
		t.Fatalf("celda destino inesperada: %s %s", moved.Date, moved.Time)
	}
	if moved.PatientName != appt.PatientName || moved.Price != appt.Price || moved.Status != appt.Status {
		t.Fatal("mover no debe tocar los demás campos")
	}
	if moved.StartTS != nil || moved.EndTS != nil {
		t.Fatal("mover debe anular start_ts/end_ts")
	}

	if err := MarkAppointmentPaid(ctx, db, appt.ID); err != nil {
		t.Fatalf("MarkAppointmentPaid: %v", err)
	}
	paid, err := AppointmentByID(ctx, db, appt.ID)
	if err != nil {
		t.Fatalf("AppointmentByID: %v", err)
	}
	if !IsPaidStatus(paid.PaymentStatus) || paid.PaymentDate == nil {
		t.Fatalf("pago no registrado: %+v", paid)
	}
}
