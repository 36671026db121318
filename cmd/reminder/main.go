package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/Jagog2026/Eutymia-crm/internal/config"
	"github.com/Jagog2026/Eutymia-crm/internal/migrate"
	"github.com/Jagog2026/Eutymia-crm/internal/reminder"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Binario pensado para correr una vez al día vía cron. Sin argumentos recuerda
// las citas de mañana; con un argumento YYYY-MM-DD recuerda las de esa fecha
// (útil para reintentar un día puntual).
func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	ctx := context.Background()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("db.DB: %v", err)
	}
	defer func() { _ = sqlDB.Close() }()
	if err := sqlDB.PingContext(ctx); err != nil {
		log.Fatalf("ping: %v", err)
	}
	if err := migrate.Run(ctx, db, "migrations"); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	date, err := targetDate(os.Args[1:])
	if err != nil {
		log.Fatalf("fecha inválida, se espera YYYY-MM-DD: %v", err)
	}
	sender := reminder.DefaultWhatsAppSender(cfg.WhatsAppAccessToken, cfg.WhatsAppPhoneNumberID, cfg.WhatsAppAPIBase, cfg.ReminderTemplate)
	sent, skipped := reminder.SendAppointmentReminders(ctx, db, date, sender)
	log.Printf("[reminder] done: sent=%d skipped=%d date=%s", sent, skipped, date.Format("2006-01-02"))
}

func targetDate(args []string) (time.Time, error) {
	loc := clinicLocation()
	if len(args) > 0 && args[0] != "" {
		return time.ParseInLocation("2006-01-02", args[0], loc)
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1), nil
}

func clinicLocation() *time.Location {
	tzName := os.Getenv("REMINDER_CRON_TZ")
	if tzName == "" {
		tzName = "America/Mexico_City"
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Printf("REMINDER_CRON_TZ=%s inválida, usando UTC: %v", tzName, err)
		return time.UTC
	}
	return loc
}
