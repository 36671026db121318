package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Estados de una cita en la agenda.
const (
	StatusPendiente  = "pendiente"
	StatusConfirmada = "confirmada"
	StatusAsiste     = "asiste"
	StatusNoAsistio  = "no_asistio"
	StatusCancelado  = "cancelado"
	StatusBlocked    = "blocked"
	StatusPagado     = "pagado"
)

var appointmentStatuses = map[string]bool{
	StatusPendiente:  true,
	StatusConfirmada: true,
	StatusAsiste:     true,
	StatusNoAsistio:  true,
	StatusCancelado:  true,
	StatusBlocked:    true,
	StatusPagado:     true,
}

func ValidAppointmentStatus(s string) bool { return appointmentStatuses[s] }

// Estados de pago. Datos históricos usan "paid" y "pagado" indistintamente;
// los agregados aceptan ambos.
const (
	PaymentPaid   = "paid"
	PaymentPagado = "pagado"
	PaymentNA     = "na"
)

func IsPaidStatus(s string) bool { return s == PaymentPaid || s == PaymentPagado }

// IsAttendedStatus marca una sesión como válida para reportes. Datos migrados
// del sistema anterior conservan "completed"/"confirmed".
func IsAttendedStatus(s string) bool {
	switch s {
	case "completed", "confirmed", StatusAsiste, StatusConfirmada:
		return true
	}
	return false
}

// Appointment es una cita. Date es el día (civil) y Time la hora "HH:MM" de la
// celda; StartTS/EndTS llevan la precisión sub-hora cuando existe.
type Appointment struct {
	ID            uuid.UUID  `json:"id"`
	LeadID        *uuid.UUID `json:"lead_id"`
	PatientName   string     `json:"patient_name"`
	Service       string     `json:"service"`
	TherapistID   *uuid.UUID `json:"therapist_id"`
	Branch        *string    `json:"branch"`
	Date          time.Time  `json:"date"`
	Time          string     `json:"time"`
	EndTime       string     `json:"end_time"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"payment_status"`
	PaymentDate   *time.Time `json:"payment_date"`
	Price         float64    `json:"price"`
	Notes         *string    `json:"notes"`
	StartTS       *time.Time `json:"start_ts" gorm:"column:start_ts"`
	EndTS         *time.Time `json:"end_ts" gorm:"column:end_ts"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Appointment) TableName() string { return "appointments" }

// TimeToHHMM normaliza una hora de la base ("HH:MM:SS" o "HH:MM") a "HH:MM".
func TimeToHHMM(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}

// AddHour devuelve "HH:MM" una hora después. Es el fin por defecto de una
// cita nueva; 23:00 satura en 23:59.
func AddHour(hhmm string) string {
	t, err := time.Parse("15:04", TimeToHHMM(hhmm))
	if err != nil {
		return hhmm
	}
	if t.Hour() >= 23 {
		return "23:59"
	}
	return t.Add(time.Hour).Format("15:04")
}

func CreateAppointment(ctx context.Context, db *gorm.DB, a *Appointment) error {
	if a.Status == "" {
		a.Status = StatusPendiente
	}
	if !ValidAppointmentStatus(a.Status) {
		return fmt.Errorf("estado inválido: %s", a.Status)
	}
	if a.EndTime == "" {
		a.EndTime = AddHour(a.Time)
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return db.WithContext(ctx).Create(a).Error
}

func AppointmentByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Appointment, error) {
	var a Appointment
	err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAppointmentsByDateRange devuelve las citas en [from, to] (fechas civiles,
// inclusive). therapistIDs vacío = todos los terapeutas.
func ListAppointmentsByDateRange(ctx context.Context, db *gorm.DB, from, to time.Time, therapistIDs []uuid.UUID) ([]Appointment, error) {
	var list []Appointment
	q := db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("date, time")
	if len(therapistIDs) > 0 {
		q = q.Where("therapist_id IN ?", therapistIDs)
	}
	err := q.Find(&list).Error
	return list, err
}

type AppointmentPatch struct {
	PatientName   *string    `json:"patient_name"`
	Service       *string    `json:"service"`
	TherapistID   *uuid.UUID `json:"therapist_id"`
	Branch        *string    `json:"branch"`
	Date          *string    `json:"date"`
	Time          *string    `json:"time"`
	EndTime       *string    `json:"end_time"`
	Status        *string    `json:"status"`
	PaymentStatus *string    `json:"payment_status"`
	Price         *float64   `json:"price"`
	Notes         *string    `json:"notes"`
}

func UpdateAppointment(ctx context.Context, db *gorm.DB, id uuid.UUID, p *AppointmentPatch) error {
	updates := map[string]interface{}{"updated_at": gorm.Expr("now()")}
	if p.PatientName != nil {
		updates["patient_name"] = *p.PatientName
	}
	if p.Service != nil {
		updates["service"] = *p.Service
	}
	if p.TherapistID != nil {
		updates["therapist_id"] = *p.TherapistID
	}
	if p.Branch != nil {
		updates["branch"] = *p.Branch
	}
	if p.Date != nil {
		updates["date"] = *p.Date
	}
	if p.Time != nil {
		updates["time"] = TimeToHHMM(*p.Time)
	}
	if p.EndTime != nil {
		updates["end_time"] = TimeToHHMM(*p.EndTime)
	}
	if p.Status != nil {
		if !ValidAppointmentStatus(*p.Status) {
			return fmt.Errorf("estado inválido: %s", *p.Status)
		}
		updates["status"] = *p.Status
	}
	if p.PaymentStatus != nil {
		updates["payment_status"] = *p.PaymentStatus
	}
	if p.Price != nil {
		updates["price"] = *p.Price
	}
	if p.Notes != nil {
		updates["notes"] = *p.Notes
	}
	return db.WithContext(ctx).Table("appointments").Where("id = ?", id).Updates(updates).Error
}

// MoveAppointment es el drop de arrastrar una cita a otra celda: cambia solo
// fecha, hora y terapeuta. No valida solapamientos; la última escritura gana.
func MoveAppointment(ctx context.Context, db *gorm.DB, id uuid.UUID, date, timeStr string, therapistID *uuid.UUID) (*Appointment, error) {
	err := db.WithContext(ctx).Exec(`
		UPDATE appointments SET date = ?, time = ?, therapist_id = ?, start_ts = NULL, end_ts = NULL, updated_at = now()
		WHERE id = ?
	`, date, TimeToHHMM(timeStr), therapistID, id).Error
	if err != nil {
		return nil, err
	}
	return AppointmentByID(ctx, db, id)
}

// MarkAppointmentPaid registra el cobro de la sesión.
func MarkAppointmentPaid(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Exec(`
		UPDATE appointments SET payment_status = ?, payment_date = now(), updated_at = now() WHERE id = ?
	`, PaymentPaid, id).Error
}

func DeleteAppointment(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Exec("DELETE FROM appointments WHERE id = ?", id).Error
}

// CreateBlock crea un bloqueo de agenda: una cita sin paciente real que ocupa
// la celda y no entra en reportes.
func CreateBlock(ctx context.Context, db *gorm.DB, date, timeStr, endTime string, therapistID *uuid.UUID, branch *string) (*Appointment, error) {
	a := &Appointment{
		PatientName:   "BLOQUEO",
		Service:       "Bloqueo de Agenda",
		TherapistID:   therapistID,
		Branch:        branch,
		Time:          TimeToHHMM(timeStr),
		EndTime:       TimeToHHMM(endTime),
		Status:        StatusBlocked,
		PaymentStatus: PaymentNA,
	}
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("fecha inválida: %s", date)
	}
	a.Date = d
	if a.EndTime == "" {
		a.EndTime = AddHour(a.Time)
	}
	if err := CreateAppointment(ctx, db, a); err != nil {
		return nil, err
	}
	return a, nil
}

// AppointmentReminderRow es una cita de mañana con el teléfono del lead para
// el recordatorio por WhatsApp.
type AppointmentReminderRow struct {
	AppointmentID uuid.UUID
	LeadID        uuid.UUID
	PatientName   string
	Date          time.Time
	Time          string
	Phone         string
}

// ListAppointmentsForReminder devuelve las citas de la fecha dada con lead y
// teléfono, solo estados pendiente y confirmada.
func ListAppointmentsForReminder(ctx context.Context, db *gorm.DB, date time.Time) ([]AppointmentReminderRow, error) {
	dateStr := date.Format("2006-01-02")
	var list []AppointmentReminderRow
	err := db.WithContext(ctx).Raw(`
		SELECT a.id AS appointment_id, l.id AS lead_id, a.patient_name, a.date, a.time, TRIM(l.phone) AS phone
		FROM appointments a
		JOIN leads l ON l.id = a.lead_id
		WHERE a.date = ?::date
		  AND a.status IN (?, ?)
		  AND l.phone IS NOT NULL AND TRIM(l.phone) != ''
		ORDER BY a.time
	`, dateStr, StatusPendiente, StatusConfirmada).Scan(&list).Error
	return list, err
}
