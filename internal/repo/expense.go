package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ExpenseFixed    = "fixed"
	ExpenseVariable = "variable"
)

type Expense struct {
	ID          uuid.UUID  `json:"id"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	Type        string     `json:"type"`
	Category    *string    `json:"category"`
	Branch      *string    `json:"branch"`
	DueDate     *time.Time `json:"due_date"`
	Paid        bool       `json:"paid"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Expense) TableName() string { return "expenses" }

func CreateExpense(ctx context.Context, db *gorm.DB, e *Expense) error {
	if e.Type != ExpenseFixed && e.Type != ExpenseVariable {
		return fmt.Errorf("tipo de gasto inválido: %s", e.Type)
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return db.WithContext(ctx).Create(e).Error
}

// ListExpenses filtra por mes/año de vencimiento y tipo; month/year 0 = todos.
func ListExpenses(ctx context.Context, db *gorm.DB, month, year int, typ string) ([]Expense, error) {
	var list []Expense
	q := db.WithContext(ctx).Order("due_date, created_at")
	if year > 0 && month > 0 {
		from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, 0)
		q = q.Where("due_date >= ? AND due_date < ?", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
	if typ != "" {
		q = q.Where("type = ?", typ)
	}
	err := q.Find(&list).Error
	return list, err
}

func UpdateExpense(ctx context.Context, db *gorm.DB, id uuid.UUID, description *string, amount *float64, typ, category, branch *string, dueDate *time.Time, paid *bool) error {
	updates := map[string]interface{}{"updated_at": gorm.Expr("now()")}
	if description != nil {
		updates["description"] = *description
	}
	if amount != nil {
		updates["amount"] = *amount
	}
	if typ != nil {
		if *typ != ExpenseFixed && *typ != ExpenseVariable {
			return fmt.Errorf("tipo de gasto inválido: %s", *typ)
		}
		updates["type"] = *typ
	}
	if category != nil {
		updates["category"] = *category
	}
	if branch != nil {
		updates["branch"] = *branch
	}
	if dueDate != nil {
		updates["due_date"] = *dueDate
	}
	if paid != nil {
		updates["paid"] = *paid
	}
	return db.WithContext(ctx).Table("expenses").Where("id = ?", id).Updates(updates).Error
}

func DeleteExpense(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Exec("DELETE FROM expenses WHERE id = ?", id).Error
}

// SumExpensesByType devuelve los totales fijos y variables del mes.
func SumExpensesByType(ctx context.Context, db *gorm.DB, month, year int) (fixed, variable float64, err error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	var rows []struct {
		Type  string
		Total float64
	}
	err = db.WithContext(ctx).Raw(`
		SELECT type, COALESCE(SUM(amount), 0) AS total
		FROM expenses
		WHERE due_date >= ? AND due_date < ?
		GROUP BY type
	`, from.Format("2006-01-02"), to.Format("2006-01-02")).Scan(&rows).Error
	for _, r := range rows {
		switch r.Type {
		case ExpenseFixed:
			fixed = r.Total
		case ExpenseVariable:
			variable = r.Total
		}
	}
	return fixed, variable, err
}
