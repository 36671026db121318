package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeadTask struct {
	ID         uuid.UUID  `json:"id"`
	LeadID     uuid.UUID  `json:"lead_id"`
	Title      string     `json:"title"`
	DueDate    *time.Time `json:"due_date"`
	Done       bool       `json:"done"`
	AssignedTo *string    `json:"assigned_to"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (LeadTask) TableName() string { return "lead_tasks" }

func ListLeadTasks(ctx context.Context, db *gorm.DB, leadID uuid.UUID) ([]LeadTask, error) {
	var list []LeadTask
	err := db.WithContext(ctx).Where("lead_id = ?", leadID).Order("done, due_date NULLS LAST, created_at").Find(&list).Error
	return list, err
}

func CreateLeadTask(ctx context.Context, db *gorm.DB, t *LeadTask) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return db.WithContext(ctx).Create(t).Error
}

func UpdateLeadTask(ctx context.Context, db *gorm.DB, id uuid.UUID, title *string, dueDate *time.Time, done *bool, assignedTo *string) error {
	updates := map[string]interface{}{"updated_at": gorm.Expr("now()")}
	if title != nil {
		updates["title"] = *title
	}
	if dueDate != nil {
		updates["due_date"] = *dueDate
	}
	if done != nil {
		updates["done"] = *done
	}
	if assignedTo != nil {
		updates["assigned_to"] = *assignedTo
	}
	return db.WithContext(ctx).Table("lead_tasks").Where("id = ?", id).Updates(updates).Error
}

func DeleteLeadTask(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Exec("DELETE FROM lead_tasks WHERE id = ?", id).Error
}
