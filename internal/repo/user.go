package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FullName     string     `json:"full_name"`
	Role         string     `json:"role"`
	TherapistID  *uuid.UUID `json:"therapist_id,omitempty"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func UserByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error) {
	var u User
	err := db.WithContext(ctx).Table("users").Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func UserByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*User, error) {
	var u User
	err := db.WithContext(ctx).Table("users").Where("id = ?", id).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func ListUsers(ctx context.Context, db *gorm.DB) ([]User, error) {
	var list []User
	err := db.WithContext(ctx).Table("users").Order("created_at").Find(&list).Error
	return list, err
}

func CreateUser(ctx context.Context, db *gorm.DB, email, passwordHash, fullName, role string, therapistID *uuid.UUID) (uuid.UUID, error) {
	var res struct{ ID uuid.UUID }
	err := db.WithContext(ctx).Raw(`
		INSERT INTO users (email, password_hash, full_name, role, therapist_id)
		VALUES (?, ?, ?, ?, ?) RETURNING id
	`, email, passwordHash, fullName, role, therapistID).Scan(&res).Error
	return res.ID, err
}

// UpdateUser aplica solo los campos no nil.
func UpdateUser(ctx context.Context, db *gorm.DB, id uuid.UUID, fullName, role, passwordHash *string, therapistID *uuid.UUID, active *bool) error {
	updates := map[string]interface{}{"updated_at": gorm.Expr("now()")}
	if fullName != nil {
		updates["full_name"] = *fullName
	}
	if role != nil {
		updates["role"] = *role
	}
	if passwordHash != nil {
		updates["password_hash"] = *passwordHash
	}
	if therapistID != nil {
		updates["therapist_id"] = *therapistID
	}
	if active != nil {
		updates["active"] = *active
	}
	return db.WithContext(ctx).Table("users").Where("id = ?", id).Updates(updates).Error
}

func DeleteUser(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Exec("DELETE FROM users WHERE id = ?", id).Error
}
