package whatsapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Config holds credentials for the WhatsApp Cloud API (Meta Graph).
// APIBase includes the version, e.g. "https://graph.facebook.com/v21.0".
// ReminderTemplate is the approved template name for appointment reminders;
// fuera de la ventana de 24 horas solo entregan mensajes de template.
type Config struct {
	AccessToken      string
	PhoneNumberID    string
	APIBase          string
	ReminderTemplate string
}

// Client sends WhatsApp messages via the Cloud API.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient returns a WhatsApp client. If AccessToken or PhoneNumberID is
// empty, every send is a no-op and returns an empty message id with nil error.
func NewClient(cfg Config) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = "https://graph.facebook.com/v21.0"
	}
	return &Client{cfg: cfg, client: &http.Client{}}
}

func (c *Client) configured() bool {
	return c.cfg.AccessToken != "" && c.cfg.PhoneNumberID != ""
}

type textPayload struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

type templatePayload struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Template         struct {
		Name     string `json:"name"`
		Language struct {
			Code string `json:"code"`
		} `json:"language"`
		Components []templateComponent `json:"components,omitempty"`
	} `json:"template"`
}

type templateComponent struct {
	Type       string              `json:"type"`
	Parameters []templateParameter `json:"parameters"`
}

type templateParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// SendText sends a free-form text message and returns the wamid.
func (c *Client) SendText(to, body string) (string, error) {
	if !c.configured() {
		return "", nil
	}
	p := textPayload{MessagingProduct: "whatsapp", To: normalizeTo(to), Type: "text"}
	p.Text.Body = body
	return c.post(p)
}

// SendTemplate sends an approved template message (needed fuera de la ventana
// de 24 horas). bodyParams fill the {{n}} placeholders in order.
func (c *Client) SendTemplate(to, name, langCode string, bodyParams ...string) (string, error) {
	if !c.configured() {
		return "", nil
	}
	if langCode == "" {
		langCode = "es_MX"
	}
	p := templatePayload{MessagingProduct: "whatsapp", To: normalizeTo(to), Type: "template"}
	p.Template.Name = name
	p.Template.Language.Code = langCode
	if len(bodyParams) > 0 {
		comp := templateComponent{Type: "body"}
		for _, v := range bodyParams {
			comp.Parameters = append(comp.Parameters, templateParameter{Type: "text", Text: v})
		}
		p.Template.Components = []templateComponent{comp}
	}
	return c.post(p)
}

// SendReminder sends the appointment reminder for tomorrow. With a template
// configured it goes as template message (params: nombre, fecha, hora); sin
// template cae a texto libre, que solo entrega dentro de la ventana de 24 h.
func (c *Client) SendReminder(phone, patientName, dateStr, timeStr string) error {
	if !c.configured() {
		return nil
	}
	if c.cfg.ReminderTemplate != "" {
		_, err := c.SendTemplate(phone, c.cfg.ReminderTemplate, "es_MX", patientName, dateStr, timeStr)
		return err
	}
	body := fmt.Sprintf("Hola %s, te recordamos tu cita de mañana (%s) a las %s. Por favor confirma tu asistencia.", patientName, dateStr, timeStr)
	_, err := c.SendText(phone, body)
	return err
}

func (c *Client) post(payload interface{}) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	reqURL := fmt.Sprintf("%s/%s/messages", strings.TrimRight(c.cfg.APIBase, "/"), c.cfg.PhoneNumberID)
	req, err := http.NewRequest(http.MethodPost, reqURL, bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	slurp, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("whatsapp: %s: read body: %w", resp.Status, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("whatsapp: %s: %s", resp.Status, string(slurp))
	}
	var out sendResponse
	if err := json.Unmarshal(slurp, &out); err != nil {
		return "", fmt.Errorf("whatsapp: respuesta ilegible: %w", err)
	}
	if len(out.Messages) == 0 {
		return "", nil
	}
	return out.Messages[0].ID, nil
}

// normalizeTo deja el número en dígitos con prefijo de país, como lo espera la API.
func normalizeTo(to string) string {
	to = strings.TrimSpace(to)
	to = strings.TrimPrefix(to, "whatsapp:")
	to = strings.TrimPrefix(to, "+")
	var b strings.Builder
	for _, r := range to {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
