package reminder

import (
	"context"
	"log"
	"time"

	"github.com/Jagog2026/Eutymia-crm/internal/repo"
	"github.com/Jagog2026/Eutymia-crm/internal/whatsapp"
	"gorm.io/gorm"
)

// WhatsAppSender sends a reminder to a phone number.
type WhatsAppSender interface {
	SendReminder(phone, patientName, dateStr, timeStr string) error
}

// AppointmentLister returns appointments for reminder on a given date. Used in
// tests with a mock; in production pass nil to use repo.
type AppointmentLister interface {
	ListAppointmentsForReminder(ctx context.Context, db *gorm.DB, date time.Time) ([]repo.AppointmentReminderRow, error)
}

// SendAppointmentReminders carga las citas de la fecha (mañana en la práctica)
// y envía un WhatsApp por cita con teléfono. Las fallas por destinatario se
// loguean sin cortar el resto.
func SendAppointmentReminders(ctx context.Context, db *gorm.DB, date time.Time, sender WhatsAppSender) (sent int, skipped int) {
	return SendAppointmentRemindersWithLister(ctx, db, date, sender, nil)
}

// SendAppointmentRemindersWithLister acepta un lister opcional para tests. Con
// lister nil se usa repo (y db debe ser no-nil).
func SendAppointmentRemindersWithLister(ctx context.Context, db *gorm.DB, date time.Time, sender WhatsAppSender, lister AppointmentLister) (sent int, skipped int) {
	if db == nil && lister == nil {
		log.Printf("[reminder] db is nil and no lister, skipping")
		return 0, 0
	}
	var rows []repo.AppointmentReminderRow
	var err error
	if lister != nil {
		rows, err = lister.ListAppointmentsForReminder(ctx, db, date)
	} else {
		rows, err = repo.ListAppointmentsForReminder(ctx, db, date)
	}
	if err != nil {
		log.Printf("[reminder] ListAppointmentsForReminder: %v", err)
		return 0, 0
	}
	if sender == nil {
		log.Printf("[reminder] WhatsApp not configured, would send %d reminders", len(rows))
		return 0, len(rows)
	}
	dateStr := date.Format("02/01/2006")
	for _, r := range rows {
		timeStr := repo.TimeToHHMM(r.Time)
		if err := sender.SendReminder(r.Phone, r.PatientName, dateStr, timeStr); err != nil {
			log.Printf("[reminder] send failed appointment=%s lead=%s phone=%s: %v", r.AppointmentID, r.LeadID, r.Phone, err)
			skipped++
			continue
		}
		sent++
		log.Printf("[reminder] sent appointment=%s to %s", r.AppointmentID, r.Phone)
	}
	return sent, skipped
}

// DefaultWhatsAppSender returns a whatsapp.Client from the given config, or
// nil if not configured. templateName es el template aprobado del recordatorio.
func DefaultWhatsAppSender(accessToken, phoneNumberID, apiBase, templateName string) WhatsAppSender {
	if accessToken == "" || phoneNumberID == "" {
		return nil
	}
	return whatsapp.NewClient(whatsapp.Config{
		AccessToken:      accessToken,
		PhoneNumberID:    phoneNumberID,
		APIBase:          apiBase,
		ReminderTemplate: templateName,
	})
}
