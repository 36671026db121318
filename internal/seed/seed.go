package seed

import (
	"context"
	"log"

	"github.com/Jagog2026/Eutymia-crm/internal/auth"
	"github.com/Jagog2026/Eutymia-crm/internal/repo"
	"gorm.io/gorm"
)

// Run crea los datos mínimos de arranque si la base está vacía: un usuario
// administrador y dos terapeutas de ejemplo. Es idempotente a nivel grueso,
// si ya hay usuarios no hace nada.
func Run(ctx context.Context, db *gorm.DB) error {
	var n int64
	if err := db.WithContext(ctx).Table("users").Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword("eutymia2024")
	if err != nil {
		return err
	}
	adminID, err := repo.CreateUser(ctx, db, "admin@eutymia.mx", hash, "Administrador", auth.RoleAdmin, nil)
	if err != nil {
		return err
	}
	log.Printf("[seed] usuario admin creado id=%s", adminID)

	weekdays := map[string]repo.DaySchedule{
		"monday":    {Active: true, Start: "09:00", End: "18:00"},
		"tuesday":   {Active: true, Start: "09:00", End: "18:00"},
		"wednesday": {Active: true, Start: "09:00", End: "18:00"},
		"thursday":  {Active: true, Start: "09:00", End: "18:00"},
		"friday":    {Active: true, Start: "09:00", End: "15:00"},
		"saturday":  {Active: false},
		"sunday":    {Active: false},
	}
	therapists := []repo.Therapist{
		{
			Name:                 "Dra. Ana Gutiérrez",
			Color:                "#3b82f6",
			CommissionPercentage: 40,
			Schedule:             weekdays,
			Services:             []string{"Terapia individual", "Terapia de pareja"},
			Commissions:          map[string]float64{"Terapia de pareja": 45},
			Active:               true,
		},
		{
			Name:                 "Lic. Jorge Medina",
			Color:                "#22c55e",
			CommissionPercentage: 35,
			Schedule:             weekdays,
			Services:             []string{"Terapia individual", "Terapia infantil"},
			Active:               true,
		},
	}
	for i := range therapists {
		if err := repo.CreateTherapist(ctx, db, &therapists[i]); err != nil {
			return err
		}
	}
	log.Printf("[seed] %d terapeutas de ejemplo creados", len(therapists))
	return nil
}
