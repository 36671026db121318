package whatsapp

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendText_NotConfigured_NoOp(t *testing.T) {
	// Cliente sin credenciales no envía y devuelve id vacío con nil.
	c := NewClient(Config{})
	id, err := c.SendText("+5213312345678", "hola")
	if err != nil || id != "" {
		t.Errorf("SendText sin config debe ser no-op, got id=%q err=%v", id, err)
	}
}

func TestSendTemplate_NotConfigured_NoOp(t *testing.T) {
	c := NewClient(Config{AccessToken: "token"})
	id, err := c.SendTemplate("+5213312345678", "recordatorio_cita", "es_MX", "María", "14:30")
	if err != nil || id != "" {
		t.Errorf("SendTemplate sin PhoneNumberID debe ser no-op, got id=%q err=%v", id, err)
	}
}

func TestSendReminder_NotConfigured_ReturnsNil(t *testing.T) {
	c := NewClient(Config{PhoneNumberID: "12345"})
	if err := c.SendReminder("+5213312345678", "María", "12/02/2025", "14:30"); err != nil {
		t.Errorf("SendReminder sin AccessToken debe retornar nil, got %v", err)
	}
}

func TestSendReminder_UsaTemplate(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.TEST"}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{
		AccessToken:      "tok",
		PhoneNumberID:    "12345",
		APIBase:          srv.URL,
		ReminderTemplate: "recordatorio_cita",
	})
	if err := c.SendReminder("+5213312345678", "María", "12/02/2025", "14:30"); err != nil {
		t.Fatalf("SendReminder: %v", err)
	}
	if got["type"] != "template" {
		t.Fatalf("type = %v, el recordatorio debe ir como template", got["type"])
	}
	tpl, _ := got["template"].(map[string]interface{})
	if tpl == nil || tpl["name"] != "recordatorio_cita" {
		t.Errorf("template = %v, want recordatorio_cita", tpl)
	}

	// Sin template configurado cae a texto libre.
	c = NewClient(Config{AccessToken: "tok", PhoneNumberID: "12345", APIBase: srv.URL})
	if err := c.SendReminder("+5213312345678", "María", "12/02/2025", "14:30"); err != nil {
		t.Fatalf("SendReminder texto: %v", err)
	}
	if got["type"] != "text" {
		t.Errorf("type = %v, sin template debe ir como texto", got["type"])
	}
}

func TestNormalizeTo(t *testing.T) {
	cases := []struct{ in, want string }{
		{"+52 33 1234 5678", "523312345678"},
		{"whatsapp:+5213312345678", "5213312345678"},
		{"(33) 1234-5678", "3312345678"},
	}
	for _, c := range cases {
		if got := normalizeTo(c.in); got != c.want {
			t.Errorf("normalizeTo(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNewClient_DefaultAPIBase(t *testing.T) {
	c := NewClient(Config{AccessToken: "t", PhoneNumberID: "1"})
	if c.cfg.APIBase == "" {
		t.Fatal("APIBase debe tener default")
	}
}
