package api

import (
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"github.com/Jagog2026/Eutymia-crm/internal/cache"
	"github.com/Jagog2026/Eutymia-crm/internal/config"
	"github.com/Jagog2026/Eutymia-crm/internal/whatsapp"
	"gorm.io/gorm"
)

// Handler agrupa las dependencias de todos los endpoints HTTP. Los campos
// de función son inyectables para tests.
type Handler struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Cache    *cache.TTL
	WhatsApp *whatsapp.Client

	hashPassword      func(string) (string, error)
	sendCampaignEmail func(to, fullName, subject, body string) error
	sendReportEmail   func(to, subject, body, attachmentName string, pdf []byte) error
}

func (h *Handler) SetHashPassword(fn func(string) (string, error)) { h.hashPassword = fn }
func (h *Handler) SetSendCampaignEmail(fn func(to, fullName, subject, body string) error) {
	h.sendCampaignEmail = fn
}
func (h *Handler) SetSendReportEmail(fn func(to, subject, body, attachmentName string, pdf []byte) error) {
	h.sendReportEmail = fn
}

// emailRegex valida formato de e-mail (una @ y dominio con punto).
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// formatDateDMY convierte YYYY-MM-DD en DD/MM/YYYY; devuelve "" si es inválida.
func formatDateDMY(iso string) string {
	if iso == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return ""
	}
	return t.Format("02/01/2006")
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
