package repo

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Setting struct {
	Key       string         `json:"key" gorm:"primaryKey"`
	Value     datatypes.JSON `json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Setting) TableName() string { return "settings" }

func ListSettings(ctx context.Context, db *gorm.DB) ([]Setting, error) {
	var list []Setting
	err := db.WithContext(ctx).Order("key").Find(&list).Error
	return list, err
}

func GetSetting(ctx context.Context, db *gorm.DB, key string) (*Setting, error) {
	var s Setting
	err := db.WithContext(ctx).Where("key = ?", key).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// PutSetting crea o reemplaza el valor de la clave.
func PutSetting(ctx context.Context, db *gorm.DB, key string, value datatypes.JSON) error {
	return db.WithContext(ctx).Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, value).Error
}
