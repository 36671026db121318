package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DaySchedule es la configuración de un día de la semana del terapeuta
// (claves "monday".."sunday" en Therapist.Schedule).
type DaySchedule struct {
	Active bool   `json:"active"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

type Therapist struct {
	ID                   uuid.UUID              `json:"id"`
	Name                 string                 `json:"name"`
	Email                *string                `json:"email"`
	Phone                *string                `json:"phone"`
	Color                string                 `json:"color"`
	Branch               *string                `json:"branch"`
	CommissionPercentage float64                `json:"commission_percentage"`
	Schedule             map[string]DaySchedule `json:"schedule" gorm:"type:jsonb;serializer:json"`
	Services             []string               `json:"services" gorm:"type:jsonb;serializer:json"`
	Commissions          map[string]float64     `json:"commissions" gorm:"type:jsonb;serializer:json"`
	Active               bool                   `json:"active"`
	CreatedAt            time.Time              `json:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
}

func (Therapist) TableName() string { return "therapists" }

func ListTherapists(ctx context.Context, db *gorm.DB, onlyActive bool) ([]Therapist, error) {
	var list []Therapist
	q := db.WithContext(ctx).Order("name")
	if onlyActive {
		q = q.Where("active = true")
	}
	err := q.Find(&list).Error
	return list, err
}

func TherapistByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Therapist, error) {
	var t Therapist
	err := db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func CreateTherapist(ctx context.Context, db *gorm.DB, t *Therapist) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Schedule == nil {
		t.Schedule = map[string]DaySchedule{}
	}
	if t.Services == nil {
		t.Services = []string{}
	}
	if t.Commissions == nil {
		t.Commissions = map[string]float64{}
	}
	return db.WithContext(ctx).Create(t).Error
}

func UpdateTherapist(ctx context.Context, db *gorm.DB, t *Therapist) error {
	t.UpdatedAt = time.Now()
	return db.WithContext(ctx).Where("id = ?", t.ID).Save(t).Error
}

// DeleteTherapist desactiva la ficha; las citas históricas conservan el therapist_id.
func DeleteTherapist(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Exec("UPDATE therapists SET active = false, updated_at = now() WHERE id = ?", id).Error
}

// CommissionFor devuelve el porcentaje de comisión para un servicio:
// el mapa por servicio tiene prioridad, si no existe se usa el porcentaje general.
func (t *Therapist) CommissionFor(service string) float64 {
	if pct, ok := t.Commissions[service]; ok {
		return pct
	}
	return t.CommissionPercentage
}
