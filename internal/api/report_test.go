package api

import (
	"testing"
	"time"

	"github.com/Jagog2026/Eutymia-crm/internal/repo"
	"github.com/google/uuid"
)

func TestBuildMonthlyReport(t *testing.T) {
	anaID := uuid.New()
	jorgeID := uuid.New()
	therapists := []repo.Therapist{
		{ID: anaID, Name: "Ana", CommissionPercentage: 40, Commissions: map[string]float64{"Pareja": 50}},
		{ID: jorgeID, Name: "Jorge", CommissionPercentage: 30},
	}
	march := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	sessions := []repo.MonthSession{
		// Atendida y cobrada por Ana, servicio con comisión por defecto.
		{PatientName: "Luisa", Service: "Individual", TherapistID: &anaID, TherapistName: "Ana", Date: march, Status: "asiste", PaymentStatus: "paid", Price: 1000},
		// Atendida y cobrada por Ana, servicio con comisión especial (50%).
		{PatientName: "Pedro y Sofía", Service: "Pareja", TherapistID: &anaID, TherapistName: "Ana", Date: march, Status: "confirmada", PaymentStatus: "pagado", Price: 1500},
		// Atendida, sin cobrar: número rojo de Jorge.
		{PatientName: "Raúl", Service: "Individual", TherapistID: &jorgeID, TherapistName: "Jorge", Date: march, Status: "asiste", PaymentStatus: "pending", Price: 800},
		// Atendida, sin cobrar y sin terapeuta asignado.
		{PatientName: "Carmen", Service: "Individual", Date: march, Status: "completed", PaymentStatus: "pending", Price: 600},
		// Cancelada: no cuenta para nada.
		{PatientName: "Nadie", Service: "Individual", TherapistID: &anaID, TherapistName: "Ana", Date: march, Status: "cancelado", PaymentStatus: "pending", Price: 999},
	}

	rep := BuildMonthlyReport(3, 2026, sessions, therapists, 2000, 500, 300)

	if rep.TotalIncome != 3900 {
		t.Fatalf("TotalIncome=%v, esperaba 3900", rep.TotalIncome)
	}
	if rep.PaidIncome != 2500 {
		t.Fatalf("PaidIncome=%v, esperaba 2500", rep.PaidIncome)
	}
	if rep.PendingIncome != 1400 {
		t.Fatalf("PendingIncome=%v, esperaba 1400", rep.PendingIncome)
	}
	// 2500 cobrado + 2000 talleres - 500 fijos - 300 variables
	if rep.NetIncome != 3700 {
		t.Fatalf("NetIncome=%v, esperaba 3700", rep.NetIncome)
	}

	if len(rep.Therapists) != 2 {
		t.Fatalf("terapeutas=%d, esperaba 2", len(rep.Therapists))
	}
	ana := rep.Therapists[0]
	if ana.Name != "Ana" || ana.Sessions != 2 || ana.Revenue != 2500 {
		t.Fatalf("línea de Ana inesperada: %+v", ana)
	}
	// 1000*40% + 1500*50%
	if ana.Commission != 1150 {
		t.Fatalf("comisión de Ana=%v, esperaba 1150", ana.Commission)
	}
	jorge := rep.Therapists[1]
	if jorge.Sessions != 1 || jorge.Commission != 240 {
		t.Fatalf("línea de Jorge inesperada: %+v", jorge)
	}

	if len(rep.RedNumbers) != 2 {
		t.Fatalf("números rojos=%d, esperaba 2", len(rep.RedNumbers))
	}
	for _, rn := range rep.RedNumbers {
		if rn.Type != "Pendiente Pago" {
			t.Fatalf("tipo=%q, esperaba Pendiente Pago", rn.Type)
		}
	}
	if rep.RedNumbers[0].Description != "Individual - Raúl" || rep.RedNumbers[0].Responsible != "Jorge" {
		t.Fatalf("primer número rojo inesperado: %+v", rep.RedNumbers[0])
	}
	if rep.RedNumbers[1].Responsible != "Sin asignar" {
		t.Fatalf("sin terapeuta debe responder Sin asignar, fue %q", rep.RedNumbers[1].Responsible)
	}

	if len(rep.Services) != 2 {
		t.Fatalf("servicios=%d, esperaba 2", len(rep.Services))
	}
	if rep.Services[0].Service != "Individual" || rep.Services[0].Sessions != 3 || rep.Services[0].Revenue != 2400 {
		t.Fatalf("línea Individual inesperada: %+v", rep.Services[0])
	}
}

func TestBuildMonthlyReportVacio(t *testing.T) {
	rep := BuildMonthlyReport(1, 2026, nil, nil, 0, 0, 0)
	if rep.TotalIncome != 0 || rep.NetIncome != 0 || len(rep.RedNumbers) != 0 {
		t.Fatalf("reporte vacío inesperado: %+v", rep)
	}
}

func TestFormatDateDMY(t *testing.T) {
	if got := formatDateDMY("2026-03-05"); got != "05/03/2026" {
		t.Fatalf("got %q", got)
	}
	if got := formatDateDMY(""); got != "" {
		t.Fatalf("vacío debe dar vacío, fue %q", got)
	}
	if got := formatDateDMY("05-03-2026"); got != "" {
		t.Fatalf("formato inválido debe dar vacío, fue %q", got)
	}
}
