package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Jagog2026/Eutymia-crm/internal/repo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type mockLister struct {
	rows []repo.AppointmentReminderRow
	err  error
}

func (m *mockLister) ListAppointmentsForReminder(_ context.Context, _ *gorm.DB, _ time.Time) ([]repo.AppointmentReminderRow, error) {
	return m.rows, m.err
}

type mockSender struct {
	calls     []string
	failIndex int // -1 para nunca fallar
}

func (m *mockSender) SendReminder(phone, patientName, dateStr, timeStr string) error {
	idx := len(m.calls)
	m.calls = append(m.calls, phone)
	if m.failIndex >= 0 && idx == m.failIndex {
		return errors.New("fallo simulado")
	}
	return nil
}

func sampleRows() []repo.AppointmentReminderRow {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return []repo.AppointmentReminderRow{
		{AppointmentID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), LeadID: uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"), PatientName: "María Fernanda López", Date: day, Time: "10:00", Phone: "5215512345678"},
		{AppointmentID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), LeadID: uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"), PatientName: "Carlos Reyes", Date: day, Time: "16:00:00", Phone: "5215587654321"},
	}
}

func TestSendAppointmentReminders(t *testing.T) {
	lister := &mockLister{rows: sampleRows()}
	sender := &mockSender{failIndex: -1}
	sent, skipped := SendAppointmentRemindersWithLister(context.Background(), nil, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), sender, lister)
	if sent != 2 || skipped != 0 {
		t.Fatalf("sent=%d skipped=%d, esperaba 2/0", sent, skipped)
	}
	if len(sender.calls) != 2 || sender.calls[0] != "5215512345678" {
		t.Fatalf("calls inesperadas: %v", sender.calls)
	}
}

func TestSendAppointmentRemindersPartialFailure(t *testing.T) {
	lister := &mockLister{rows: sampleRows()}
	sender := &mockSender{failIndex: 0}
	sent, skipped := SendAppointmentRemindersWithLister(context.Background(), nil, time.Now(), sender, lister)
	if sent != 1 || skipped != 1 {
		t.Fatalf("sent=%d skipped=%d, esperaba 1/1", sent, skipped)
	}
	if len(sender.calls) != 2 {
		t.Fatalf("debe intentar todas las citas, calls=%d", len(sender.calls))
	}
}

func TestSendAppointmentRemindersNoSender(t *testing.T) {
	lister := &mockLister{rows: sampleRows()}
	sent, skipped := SendAppointmentRemindersWithLister(context.Background(), nil, time.Now(), nil, lister)
	if sent != 0 || skipped != 2 {
		t.Fatalf("sent=%d skipped=%d, esperaba 0/2", sent, skipped)
	}
}

func TestSendAppointmentRemindersListerError(t *testing.T) {
	lister := &mockLister{err: errors.New("db caída")}
	sender := &mockSender{failIndex: -1}
	sent, skipped := SendAppointmentRemindersWithLister(context.Background(), nil, time.Now(), sender, lister)
	if sent != 0 || skipped != 0 {
		t.Fatalf("sent=%d skipped=%d, esperaba 0/0", sent, skipped)
	}
	if len(sender.calls) != 0 {
		t.Fatalf("no debe enviar nada si falla el listado")
	}
}

func TestDefaultWhatsAppSenderUnconfigured(t *testing.T) {
	if s := DefaultWhatsAppSender("", "", "", "recordatorio_cita"); s != nil {
		t.Fatal("sin token debe devolver nil")
	}
	if s := DefaultWhatsAppSender("tok", "", "", "recordatorio_cita"); s != nil {
		t.Fatal("sin phone number id debe devolver nil")
	}
	if s := DefaultWhatsAppSender("tok", "12345", "", "recordatorio_cita"); s == nil {
		t.Fatal("configurado debe devolver un sender")
	}
}
