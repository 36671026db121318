package repo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

type Message struct {
	ID         uuid.UUID      `json:"id"`
	LeadID     uuid.UUID      `json:"lead_id"`
	WhatsAppID *string        `json:"whatsapp_id" gorm:"column:whatsapp_id"`
	Direction  string         `json:"direction"`
	Content    string         `json:"content"`
	Status     string         `json:"status"`
	Metadata   datatypes.JSON `json:"metadata"`
	Timestamp  time.Time      `json:"timestamp"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (Message) TableName() string { return "messages" }

func CreateMessage(ctx context.Context, db *gorm.DB, m *Message) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	if len(m.Metadata) == 0 {
		m.Metadata = datatypes.JSON([]byte("{}"))
	}
	return db.WithContext(ctx).Create(m).Error
}

// MetadataJSON serializa un mapa a datatypes.JSON para Message.Metadata.
func MetadataJSON(meta map[string]string) datatypes.JSON {
	b, err := json.Marshal(meta)
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(b)
}

func ListMessagesByLead(ctx context.Context, db *gorm.DB, leadID uuid.UUID, limit, offset int) ([]Message, error) {
	var list []Message
	err := db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("timestamp").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// UpdateMessageStatusByWhatsAppID aplica un status report del webhook
// (sent/delivered/read/failed). Devuelve las filas afectadas; 0 significa
// que el mensaje no es nuestro y el evento se ignora.
func UpdateMessageStatusByWhatsAppID(ctx context.Context, db *gorm.DB, whatsappID, status string) (int64, error) {
	result := db.WithContext(ctx).Exec(
		"UPDATE messages SET status = ? WHERE whatsapp_id = ?", status, whatsappID)
	return result.RowsAffected, result.Error
}
