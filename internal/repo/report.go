package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MonthSession es una cita del mes con el nombre del terapeuta, la fila base
// de los reportes mensuales.
type MonthSession struct {
	ID            uuid.UUID  `json:"id"`
	PatientName   string     `json:"patient_name"`
	Service       string     `json:"service"`
	TherapistID   *uuid.UUID `json:"therapist_id"`
	TherapistName string     `json:"therapist_name"`
	Branch        *string    `json:"branch"`
	Date          time.Time  `json:"date"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"payment_status"`
	PaymentDate   *time.Time `json:"payment_date"`
	Price         float64    `json:"price"`
}

// ListMonthSessions devuelve todas las citas del mes (salvo bloqueos) con el
// nombre del terapeuta. El filtrado por estado lo hace el agregador.
func ListMonthSessions(ctx context.Context, db *gorm.DB, month, year int) ([]MonthSession, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	var list []MonthSession
	err := db.WithContext(ctx).Raw(`
		SELECT a.id, a.patient_name, a.service, a.therapist_id, COALESCE(t.name, '') AS therapist_name,
		       a.branch, a.date, a.status, a.payment_status, a.payment_date, a.price
		FROM appointments a
		LEFT JOIN therapists t ON t.id = a.therapist_id
		WHERE a.date >= ? AND a.date < ? AND a.status != ?
		ORDER BY a.date, a.time
	`, from.Format("2006-01-02"), to.Format("2006-01-02"), StatusBlocked).Scan(&list).Error
	return list, err
}

// MonthlyIncome suma las sesiones cobradas en el mes (por payment_date).
func MonthlyIncome(ctx context.Context, db *gorm.DB, month, year int) (float64, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	var total float64
	err := db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(price), 0)
		FROM appointments
		WHERE payment_status IN (?, ?) AND payment_date >= ? AND payment_date < ?
	`, PaymentPaid, PaymentPagado, from, to).Scan(&total).Error
	return total, err
}
