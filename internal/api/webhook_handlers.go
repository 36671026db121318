package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Jagog2026/Eutymia-crm/internal/crypto"
	"github.com/Jagog2026/Eutymia-crm/internal/repo"
)

// Envelope del webhook de WhatsApp Cloud API (Meta Graph). Solo se declaran
// los campos que se leen.
type webhookEnvelope struct {
	Object string `json:"object"`
	Entry  []struct {
		ID      string `json:"id"`
		Changes []struct {
			Field string       `json:"field"`
			Value webhookValue `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type webhookValue struct {
	MessagingProduct string `json:"messaging_product"`
	Contacts         []struct {
		WaID    string `json:"wa_id"`
		Profile struct {
			Name string `json:"name"`
		} `json:"profile"`
	} `json:"contacts"`
	Messages []webhookMessage `json:"messages"`
	Statuses []struct {
		ID        string `json:"id"`
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	} `json:"statuses"`
}

type webhookMessage struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      *struct {
		Body string `json:"body"`
	} `json:"text"`
	Image    *webhookMedia `json:"image"`
	Video    *webhookMedia `json:"video"`
	Document *webhookMedia `json:"document"`
	Location *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
}

type webhookMedia struct {
	ID      string `json:"id"`
	Caption string `json:"caption"`
}

// VerifyWebhook atiende el handshake de suscripción de Meta.
func (h *Handler) VerifyWebhook(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == h.Cfg.WhatsAppVerifyToken && h.Cfg.WhatsAppVerifyToken != "" {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(q.Get("hub.challenge")))
		return
	}
	http.Error(w, "Token incorrecto", http.StatusForbidden)
}

// ReceiveWebhook procesa eventos entrantes de la Cloud API. Siempre responde
// 200 EVENT_RECEIVED una vez leído el cuerpo: Meta reintenta ante cualquier
// otro código y eso duplicaría mensajes.
func (h *Handler) ReceiveWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	if h.Cfg.WhatsAppAppSecret != "" {
		if !crypto.VerifyMetaSignature(h.Cfg.WhatsAppAppSecret, body, r.Header.Get("X-Hub-Signature-256")) {
			log.Printf("[webhook] firma inválida, evento descartado")
			http.Error(w, `{"error":"invalid signature"}`, http.StatusForbidden)
			return
		}
	}

	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Object != "whatsapp_business_account" {
		// Cuerpo ajeno o malformado: 200 igual para cortar reintentos.
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("EVENT_RECEIVED"))
		return
	}

	for _, entry := range env.Entry {
		for _, change := range entry.Changes {
			h.processWebhookValue(r, &change.Value)
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("EVENT_RECEIVED"))
}

func (h *Handler) processWebhookValue(r *http.Request, v *webhookValue) {
	for _, st := range v.Statuses {
		n, err := repo.UpdateMessageStatusByWhatsAppID(r.Context(), h.DB, st.ID, st.Status)
		if err != nil {
			log.Printf("[webhook] status update %s: %v", st.ID, err)
			continue
		}
		if n == 0 {
			log.Printf("[webhook] status para mensaje desconocido %s, ignorado", st.ID)
		}
	}

	contactName := ""
	if len(v.Contacts) > 0 {
		contactName = v.Contacts[0].Profile.Name
	}
	for i := range v.Messages {
		if err := h.ingestInboundMessage(r, &v.Messages[i], contactName); err != nil {
			// Se traga el error: el 200 hacia Meta no se negocia.
			log.Printf("[webhook] inbound %s: %v", v.Messages[i].ID, err)
		}
	}
}

// messageContent mapea el tipo de mensaje a su texto almacenado.
func messageContent(m *webhookMessage) (string, bool) {
	switch m.Type {
	case "text":
		if m.Text != nil {
			return m.Text.Body, true
		}
		return "", true
	case "image":
		if m.Image != nil && m.Image.Caption != "" {
			return m.Image.Caption, true
		}
		return "[Imagen]", true
	case "video":
		if m.Video != nil && m.Video.Caption != "" {
			return m.Video.Caption, true
		}
		return "[Video]", true
	case "document":
		if m.Document != nil && m.Document.Caption != "" {
			return m.Document.Caption, true
		}
		return "[Documento]", true
	case "audio":
		return "[Audio]", true
	case "sticker":
		return "[Sticker]", true
	case "location":
		if m.Location != nil {
			return fmt.Sprintf("[Ubicación: %f, %f]", m.Location.Latitude, m.Location.Longitude), true
		}
		return "[Ubicación]", true
	case "contacts":
		return "[Contacto compartido]", true
	case "reaction":
		// Las reacciones no generan fila de mensaje.
		return "", false
	default:
		return "[" + m.Type + "]", true
	}
}

func (h *Handler) ingestInboundMessage(r *http.Request, m *webhookMessage, contactName string) error {
	content, ok := messageContent(m)
	if !ok {
		return nil
	}

	lead, err := repo.FindLeadByPhone(r.Context(), h.DB, m.From)
	if err != nil {
		// Número desconocido: se crea el lead al vuelo.
		name := contactName
		if name == "" {
			name = "WhatsApp Lead"
		}
		phone := m.From
		lead = &repo.Lead{
			FullName: name,
			Phone:    &phone,
			Source:   "whatsapp",
			Status:   repo.StageNew,
		}
		if err := repo.CreateLead(r.Context(), h.DB, lead); err != nil {
			return err
		}
		log.Printf("[webhook] lead nuevo %s desde %s", lead.ID, m.From)
	}

	ts := time.Now()
	if m.Timestamp != "" {
		if t, err := parseUnix(m.Timestamp); err == nil {
			ts = t
		}
	}
	waID := m.ID
	msg := &repo.Message{
		LeadID:     lead.ID,
		WhatsAppID: &waID,
		Direction:  repo.DirectionInbound,
		Content:    content,
		Status:     "received",
		Metadata:   repo.MetadataJSON(map[string]string{"from": m.From, "contact_name": contactName}),
		Timestamp:  ts,
	}
	if err := repo.CreateMessage(r.Context(), h.DB, msg); err != nil {
		return err
	}
	return repo.TouchLeadInbound(r.Context(), h.DB, lead.ID, ts)
}

func parseUnix(s string) (time.Time, error) {
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, 0), nil
}
