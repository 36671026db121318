package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CountAppointmentsOn cuenta las citas del día, sin canceladas ni bloqueos.
func CountAppointmentsOn(ctx context.Context, db *gorm.DB, date time.Time) (int, error) {
	var n int
	err := db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM appointments
		WHERE date = ?::date AND status NOT IN (?, ?)
	`, date.Format("2006-01-02"), StatusCancelado, StatusBlocked).Scan(&n).Error
	return n, err
}

// CountActivePatients cuenta leads activos: todo lo que no está perdido.
// "closed" queda por datos importados del sistema anterior.
func CountActivePatients(ctx context.Context, db *gorm.DB) (int, error) {
	var n int
	err := db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM leads WHERE status NOT IN (?, 'closed')
	`, StageLost).Scan(&n).Error
	return n, err
}

// BranchCount es el número de citas del mes por sucursal.
type BranchCount struct {
	Branch string `json:"branch"`
	N      int    `json:"n"`
}

func CountAppointmentsByBranch(ctx context.Context, db *gorm.DB, month, year int) ([]BranchCount, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	var list []BranchCount
	err := db.WithContext(ctx).Raw(`
		SELECT COALESCE(branch, 'Sin sucursal') AS branch, COUNT(*) AS n
		FROM appointments
		WHERE date >= ? AND date < ? AND status NOT IN (?, ?)
		GROUP BY COALESCE(branch, 'Sin sucursal')
		ORDER BY n DESC
	`, from.Format("2006-01-02"), to.Format("2006-01-02"), StatusCancelado, StatusBlocked).Scan(&list).Error
	return list, err
}

// ListUpcomingAppointments devuelve las próximas n citas desde now: días
// futuros completos y, para hoy, solo horarios que aún no pasaron.
func ListUpcomingAppointments(ctx context.Context, db *gorm.DB, now time.Time, limit int) ([]Appointment, error) {
	today := now.Format("2006-01-02")
	hhmm := now.Format("15:04")
	var list []Appointment
	err := db.WithContext(ctx).Raw(`
		SELECT * FROM appointments
		WHERE status NOT IN (?, ?)
		  AND (date > ?::date OR (date = ?::date AND time > ?))
		ORDER BY date, time
		LIMIT ?
	`, StatusCancelado, StatusBlocked, today, today, hhmm, limit).Scan(&list).Error
	return list, err
}

func ListRecentLeads(ctx context.Context, db *gorm.DB, limit int) ([]Lead, error) {
	var list []Lead
	err := db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

// PaymentRow es un cobro reciente para la actividad del dashboard.
type PaymentRow struct {
	ID          uuid.UUID `json:"id"`
	PatientName string    `json:"patient_name"`
	Service     string    `json:"service"`
	Price       float64   `json:"price"`
	PaymentDate time.Time `json:"payment_date"`
}

func ListRecentPayments(ctx context.Context, db *gorm.DB, limit int) ([]PaymentRow, error) {
	var list []PaymentRow
	err := db.WithContext(ctx).Raw(`
		SELECT id, patient_name, service, price, payment_date
		FROM appointments
		WHERE payment_status IN (?, ?) AND payment_date IS NOT NULL
		ORDER BY payment_date DESC
		LIMIT ?
	`, PaymentPaid, PaymentPagado, limit).Scan(&list).Error
	return list, err
}
