package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/Jagog2026/Eutymia-crm/internal/migrate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OpenDB abre una conexión GORM desde DATABASE_URL y la verifica con un ping.
// Sin la variable definida devuelve nil y el test debe hacer Skip.
func OpenDB(ctx context.Context) (*gorm.DB, string) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, ""
	}
	db, err := gorm.Open(postgres.Open(url), &gorm.Config{})
	if err != nil {
		return nil, url
	}
	sqlDB, err := db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		return nil, url
	}
	return db, url
}

// MustMigrate busca el directorio migrations subiendo desde el working
// directory del test y aplica lo pendiente.
func MustMigrate(ctx context.Context, db *gorm.DB) error {
	dir, err := migrationsDir()
	if err != nil {
		return err
	}
	return migrate.Run(ctx, db, dir)
}

func migrationsDir() (string, error) {
	cur, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(cur, "migrations")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", errors.New("directorio migrations no encontrado")
		}
		cur = parent
	}
}
