package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrWorkshopFull = errors.New("taller sin cupos disponibles")

type Workshop struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	Description      *string    `json:"description"`
	Date             *time.Time `json:"date"`
	Price            float64    `json:"price"`
	DurationMinutes  int        `json:"duration_minutes"`
	MaxAttendees     int        `json:"max_attendees"`
	CurrentAttendees int        `json:"current_attendees"`
	ImageURL         *string    `json:"image_url"`
	Active           bool       `json:"active"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (Workshop) TableName() string { return "workshops" }

type WorkshopRegistration struct {
	ID            uuid.UUID `json:"id"`
	WorkshopID    uuid.UUID `json:"workshop_id"`
	LeadID        uuid.UUID `json:"lead_id"`
	PaymentAmount float64   `json:"payment_amount"`
	Attended      bool      `json:"attended"`
	CreatedAt     time.Time `json:"created_at"`
}

func (WorkshopRegistration) TableName() string { return "workshop_registrations" }

func ListWorkshops(ctx context.Context, db *gorm.DB, onlyActive bool) ([]Workshop, error) {
	var list []Workshop
	q := db.WithContext(ctx).Order("date DESC NULLS LAST, created_at DESC")
	if onlyActive {
		q = q.Where("active = true")
	}
	err := q.Find(&list).Error
	return list, err
}

func WorkshopByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Workshop, error) {
	var w Workshop
	err := db.WithContext(ctx).Where("id = ?", id).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func CreateWorkshop(ctx context.Context, db *gorm.DB, w *Workshop) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.DurationMinutes <= 0 {
		w.DurationMinutes = 60
	}
	return db.WithContext(ctx).Create(w).Error
}

func UpdateWorkshop(ctx context.Context, db *gorm.DB, w *Workshop) error {
	w.UpdatedAt = time.Now()
	return db.WithContext(ctx).Where("id = ?", w.ID).Save(w).Error
}

func DeleteWorkshop(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Exec("DELETE FROM workshops WHERE id = ?", id).Error
}

// RegisterLeadToWorkshop inscribe un lead validando el cupo dentro de la
// transacción. max_attendees 0 significa sin límite.
func RegisterLeadToWorkshop(ctx context.Context, db *gorm.DB, workshopID, leadID uuid.UUID, paymentAmount float64) (*WorkshopRegistration, error) {
	reg := &WorkshopRegistration{ID: uuid.New(), WorkshopID: workshopID, LeadID: leadID, PaymentAmount: paymentAmount}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var w Workshop
		if err := tx.Raw("SELECT * FROM workshops WHERE id = ? FOR UPDATE", workshopID).Scan(&w).Error; err != nil {
			return err
		}
		if w.ID == uuid.Nil {
			return gorm.ErrRecordNotFound
		}
		if w.MaxAttendees > 0 && w.CurrentAttendees >= w.MaxAttendees {
			return ErrWorkshopFull
		}
		if err := tx.Create(reg).Error; err != nil {
			return err
		}
		return tx.Exec("UPDATE workshops SET current_attendees = current_attendees + 1, updated_at = now() WHERE id = ?", workshopID).Error
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func ListWorkshopRegistrations(ctx context.Context, db *gorm.DB, workshopID uuid.UUID) ([]WorkshopRegistration, error) {
	var list []WorkshopRegistration
	err := db.WithContext(ctx).Where("workshop_id = ?", workshopID).Order("created_at").Find(&list).Error
	return list, err
}

// SumWorkshopIncome devuelve el ingreso estimado de talleres del mes:
// precio por asistentes actuales de cada taller con fecha en el mes.
func SumWorkshopIncome(ctx context.Context, db *gorm.DB, month, year int) (float64, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	var total float64
	err := db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(price * current_attendees), 0)
		FROM workshops
		WHERE date >= ? AND date < ?
	`, from, to).Scan(&total).Error
	return total, err
}
