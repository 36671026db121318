package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Etapas del pipeline de leads (columnas del kanban).
const (
	StageNew         = "new"
	StageScheduled   = "scheduled"
	StagePaid        = "paid"
	StageLost        = "lost"
	StagePartners    = "partners"
	StagePxAgpro     = "px_agpro"
	StageGeneralBase = "general_base"
)

var leadStages = map[string]bool{
	StageNew:         true,
	StageScheduled:   true,
	StagePaid:        true,
	StageLost:        true,
	StagePartners:    true,
	StagePxAgpro:     true,
	StageGeneralBase: true,
}

func ValidLeadStage(s string) bool { return leadStages[s] }

type Lead struct {
	ID             uuid.UUID  `json:"id"`
	FullName       string     `json:"full_name"`
	Email          *string    `json:"email"`
	Phone          *string    `json:"phone"`
	SecondaryPhone *string    `json:"secondary_phone"`
	DNI            *string    `json:"dni" gorm:"column:dni"`
	ClientNumber   *string    `json:"client_number"`
	Address        *string    `json:"address"`
	Comuna         *string    `json:"comuna"`
	City           *string    `json:"city"`
	Age            *int       `json:"age"`
	Gender         *string    `json:"gender"`
	BirthDate      *time.Time `json:"birth_date"`
	Source         string     `json:"source"`
	Status         string     `json:"status"`
	Notes          *string    `json:"notes"`
	UnreadCount    int        `json:"unread_count"`
	LastMessageAt  *time.Time `json:"last_message_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Lead) TableName() string { return "leads" }

func ListLeads(ctx context.Context, db *gorm.DB, stage, q string, limit, offset int) ([]Lead, error) {
	var list []Lead
	query := db.WithContext(ctx).Order("created_at DESC").Limit(limit).Offset(offset)
	if stage != "" {
		query = query.Where("status = ?", stage)
	}
	if q != "" {
		like := "%" + q + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ? OR phone LIKE ?", like, like, "%"+NormalizePhone(q)+"%")
	}
	err := query.Find(&list).Error
	return list, err
}

func CountLeadsByStage(ctx context.Context, db *gorm.DB) (map[string]int, error) {
	var rows []struct {
		Status string
		N      int
	}
	err := db.WithContext(ctx).Raw("SELECT status, COUNT(*) AS n FROM leads GROUP BY status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}

func LeadByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Lead, error) {
	var l Lead
	err := db.WithContext(ctx).Where("id = ?", id).First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func CreateLead(ctx context.Context, db *gorm.DB, l *Lead) error {
	if l.Status == "" {
		l.Status = StageNew
	}
	if !ValidLeadStage(l.Status) {
		return fmt.Errorf("etapa inválida: %s", l.Status)
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return db.WithContext(ctx).Create(l).Error
}

// CreateLeadsBatch inserta en lotes de batchSize (una query por lote).
func CreateLeadsBatch(ctx context.Context, db *gorm.DB, leads []Lead, batchSize int) error {
	if len(leads) == 0 {
		return nil
	}
	for i := range leads {
		if leads[i].ID == uuid.Nil {
			leads[i].ID = uuid.New()
		}
		if leads[i].Status == "" {
			leads[i].Status = StageNew
		}
		if !ValidLeadStage(leads[i].Status) {
			return fmt.Errorf("etapa inválida: %s", leads[i].Status)
		}
	}
	return db.WithContext(ctx).CreateInBatches(leads, batchSize).Error
}

type LeadPatch struct {
	FullName       *string    `json:"full_name"`
	Email          *string    `json:"email"`
	Phone          *string    `json:"phone"`
	SecondaryPhone *string    `json:"secondary_phone"`
	DNI            *string    `json:"dni"`
	ClientNumber   *string    `json:"client_number"`
	Address        *string    `json:"address"`
	Comuna         *string    `json:"comuna"`
	City           *string    `json:"city"`
	Age            *int       `json:"age"`
	Gender         *string    `json:"gender"`
	BirthDate      *time.Time `json:"birth_date"`
	Source         *string    `json:"source"`
	Status         *string    `json:"status"`
	Notes          *string    `json:"notes"`
}

func UpdateLead(ctx context.Context, db *gorm.DB, id uuid.UUID, p *LeadPatch) error {
	updates := map[string]interface{}{"updated_at": gorm.Expr("now()")}
	if p.FullName != nil {
		updates["full_name"] = *p.FullName
	}
	if p.Email != nil {
		updates["email"] = *p.Email
	}
	if p.Phone != nil {
		updates["phone"] = *p.Phone
	}
	if p.SecondaryPhone != nil {
		updates["secondary_phone"] = *p.SecondaryPhone
	}
	if p.DNI != nil {
		updates["dni"] = *p.DNI
	}
	if p.ClientNumber != nil {
		updates["client_number"] = *p.ClientNumber
	}
	if p.Address != nil {
		updates["address"] = *p.Address
	}
	if p.Comuna != nil {
		updates["comuna"] = *p.Comuna
	}
	if p.City != nil {
		updates["city"] = *p.City
	}
	if p.Age != nil {
		updates["age"] = *p.Age
	}
	if p.Gender != nil {
		updates["gender"] = *p.Gender
	}
	if p.BirthDate != nil {
		updates["birth_date"] = *p.BirthDate
	}
	if p.Source != nil {
		updates["source"] = *p.Source
	}
	if p.Status != nil {
		if !ValidLeadStage(*p.Status) {
			return fmt.Errorf("etapa inválida: %s", *p.Status)
		}
		updates["status"] = *p.Status
	}
	if p.Notes != nil {
		updates["notes"] = *p.Notes
	}
	return db.WithContext(ctx).Table("leads").Where("id = ?", id).Updates(updates).Error
}

func UpdateLeadStage(ctx context.Context, db *gorm.DB, id uuid.UUID, stage string) error {
	if !ValidLeadStage(stage) {
		return fmt.Errorf("etapa inválida: %s", stage)
	}
	return db.WithContext(ctx).Exec("UPDATE leads SET status = ?, updated_at = now() WHERE id = ?", stage, id).Error
}

func DeleteLead(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Exec("DELETE FROM leads WHERE id = ?", id).Error
}

// ResetLeadUnread marca la conversación como leída.
func ResetLeadUnread(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Exec("UPDATE leads SET unread_count = 0, updated_at = now() WHERE id = ?", id).Error
}

// TouchLeadInbound incrementa no-leídos y actualiza last_message_at al recibir un mensaje.
func TouchLeadInbound(ctx context.Context, db *gorm.DB, id uuid.UUID, at time.Time) error {
	return db.WithContext(ctx).Exec("UPDATE leads SET unread_count = unread_count + 1, last_message_at = ?, updated_at = now() WHERE id = ?", at, id).Error
}

// FindLeadByPhone busca un lead cuyo teléfono (o secundario) coincida por
// últimos 10 dígitos. El número llega del webhook con prefijo de país y sin
// formato fijo, así que la comparación se hace en memoria sobre todos los
// leads con teléfono.
func FindLeadByPhone(ctx context.Context, db *gorm.DB, phone string) (*Lead, error) {
	var list []Lead
	err := db.WithContext(ctx).
		Where("phone IS NOT NULL AND phone != '' OR secondary_phone IS NOT NULL AND secondary_phone != ''").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Phone != nil && PhonesMatch(*list[i].Phone, phone) {
			return &list[i], nil
		}
		if list[i].SecondaryPhone != nil && PhonesMatch(*list[i].SecondaryPhone, phone) {
			return &list[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ListAllLeads devuelve todos los leads para exportación, más antiguos primero.
func ListAllLeads(ctx context.Context, db *gorm.DB) ([]Lead, error) {
	var list []Lead
	err := db.WithContext(ctx).Order("created_at").Find(&list).Error
	return list, err
}

func ListLeadsByIDs(ctx context.Context, db *gorm.DB, ids []uuid.UUID) ([]Lead, error) {
	var list []Lead
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, err
}
