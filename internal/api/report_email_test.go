package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMonthlyReportPDF_GeneraDocumento(t *testing.T) {
	rep := &MonthlyReport{
		Month:       3,
		Year:        2026,
		TotalIncome: 3900,
		PaidIncome:  2500,
		Therapists:  []TherapistReport{{Name: "Ana", Sessions: 2, Revenue: 2500, Commission: 1150}},
		RedNumbers:  []RedNumber{{Type: "Pendiente Pago", Description: "Terapia individual - Raúl", Responsible: "Jorge", Date: "2026-03-12", Amount: 900}},
	}
	raw, err := monthlyReportPDF(rep)
	if err != nil {
		t.Fatalf("monthlyReportPDF: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("%PDF-")) {
		t.Fatalf("el resultado no parece un PDF (%d bytes)", len(raw))
	}
}

func TestReportFilename(t *testing.T) {
	if got := reportFilename(3, 2026); got != "reporte_2026_03.pdf" {
		t.Errorf("reportFilename = %q", got)
	}
}

func TestEmailMonthlyReport_SinSMTP(t *testing.T) {
	h := &Handler{}
	r := httptest.NewRequest(http.MethodPost, "/api/reports/email", strings.NewReader(`{"to":"conta@eutymia.mx"}`))
	w := httptest.NewRecorder()
	h.EmailMonthlyReport(w, r)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 cuando no hay SMTP", w.Code)
	}
}

func TestEmailMonthlyReport_EmailInvalido(t *testing.T) {
	h := &Handler{}
	h.SetSendReportEmail(func(to, subject, body, attachmentName string, pdf []byte) error { return nil })
	r := httptest.NewRequest(http.MethodPost, "/api/reports/email", strings.NewReader(`{"to":"no-es-un-correo"}`))
	w := httptest.NewRecorder()
	h.EmailMonthlyReport(w, r)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 con destinatario inválido", w.Code)
	}
}
