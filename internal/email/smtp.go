package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log"
	"net/smtp"
	"strconv"
	"strings"
	"text/template"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Pass     string
	FromName string
	FromAddr string
}

func (c *Config) Send(to, subject, body string, html bool) error {
	if to == "" {
		log.Printf("[email] error de config: destinatario (to) vacío")
		return fmt.Errorf("destinatario de e-mail vacío")
	}
	if c.Host == "" {
		log.Printf("[email] error de config: SMTP host vacío (destinatario=%s)", to)
		return fmt.Errorf("SMTP host no configurado")
	}
	if c.FromAddr == "" {
		log.Printf("[email] error de config: SMTP FromAddr vacío (destinatario=%s)", to)
		return fmt.Errorf("SMTP remitente (From) no configurado")
	}
	port := c.Port
	if port == 0 {
		port = 25
	}
	addr := fmt.Sprintf("%s:%d", c.Host, port)
	from := c.FromAddr
	if c.FromName != "" {
		from = fmt.Sprintf("%s <%s>", c.FromName, c.FromAddr)
	}
	headers := map[string]string{
		"From":         from,
		"To":           to,
		"Subject":      subject,
		"Content-Type": "text/plain; charset=UTF-8",
	}
	if html {
		headers["Content-Type"] = "text/html; charset=UTF-8"
	}
	var buf bytes.Buffer
	for k, v := range headers {
		buf.WriteString(k + ": " + v + "\r\n")
	}
	buf.WriteString("\r\n")
	buf.WriteString(body)
	err := smtp.SendMail(addr, c.authForSend(), c.FromAddr, []string{to}, buf.Bytes())
	if err != nil {
		log.Printf("[email] falla al enviar a %s asunto=%q: %v", to, subject, err)
		return err
	}
	log.Printf("[email] enviado a %s asunto=%q", to, subject)
	return nil
}

// authForSend returns nil when User is empty (e.g. MailHog), so no AUTH is sent.
func (c *Config) authForSend() smtp.Auth {
	if c.User != "" {
		return smtp.PlainAuth("", c.User, c.Pass, c.Host)
	}
	return nil
}

// SendCampaign envía el cuerpo de una campaña a un lead, reemplazando
// {{.FullName}} si aparece en el texto.
func (c *Config) SendCampaign(to, fullName, subject, body string) error {
	if !strings.Contains(body, "{{") {
		return c.Send(to, subject, body, false)
	}
	t, err := template.New("").Parse(body)
	if err != nil {
		// cuerpo con llaves pero no es template válido: se envía literal
		return c.Send(to, subject, body, false)
	}
	var b bytes.Buffer
	if err := t.Execute(&b, map[string]string{"FullName": fullName}); err != nil {
		return c.Send(to, subject, body, false)
	}
	return c.Send(to, subject, b.String(), false)
}

// SendWithAttachment envía un correo con un PDF adjunto (reporte mensual).
func (c *Config) SendWithAttachment(to, subject, body, attachmentName string, attachmentPDF []byte) error {
	if to == "" {
		return fmt.Errorf("destinatario de e-mail vacío")
	}
	if c.Host == "" || c.FromAddr == "" {
		return fmt.Errorf("SMTP host o remitente no configurado")
	}
	port := c.Port
	if port == 0 {
		port = 25
	}
	addr := fmt.Sprintf("%s:%d", c.Host, port)
	from := c.FromAddr
	if c.FromName != "" {
		from = fmt.Sprintf("%s <%s>", c.FromName, c.FromAddr)
	}
	boundary := "boundary-eutymia-pdf"
	var buf bytes.Buffer
	buf.WriteString("From: " + from + "\r\n")
	buf.WriteString("To: " + to + "\r\n")
	buf.WriteString("Subject: " + subject + "\r\n")
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: multipart/mixed; boundary=" + boundary + "\r\n\r\n")
	buf.WriteString("--" + boundary + "\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	buf.WriteString(body)
	buf.WriteString("\r\n--" + boundary + "\r\n")
	buf.WriteString("Content-Type: application/pdf; name=\"" + attachmentName + "\"\r\n")
	buf.WriteString("Content-Transfer-Encoding: base64\r\n")
	buf.WriteString("Content-Disposition: attachment; filename=\"" + attachmentName + "\"\r\n\r\n")
	// RFC 2045: base64 en MIME con líneas de máximo 76 caracteres
	encoded := base64.StdEncoding.EncodeToString(attachmentPDF)
	const lineLen = 76
	for i := 0; i < len(encoded); i += lineLen {
		end := i + lineLen
		if end > len(encoded) {
			end = len(encoded)
		}
		buf.WriteString(encoded[i:end] + "\r\n")
	}
	buf.WriteString("\r\n--" + boundary + "--\r\n")
	err := smtp.SendMail(addr, c.authForSend(), c.FromAddr, []string{to}, buf.Bytes())
	if err != nil {
		log.Printf("[email] falla al enviar adjunto a %s asunto=%q: %v", to, subject, err)
		return err
	}
	log.Printf("[email] enviado con adjunto a %s asunto=%q", to, subject)
	return nil
}

// LogConfigSummary loguea un resumen de la config SMTP (sin contraseña).
func (c *Config) LogConfigSummary() {
	auth := "no"
	if c.User != "" {
		auth = "sí (user=" + c.User + ")"
	}
	log.Printf("[email] config SMTP: host=%s port=%d from=%q auth=%s", c.Host, c.Port, c.FromAddr, auth)
	if c.Host == "" || c.FromAddr == "" {
		log.Printf("[email] aviso: host o from vacío; los envíos pueden fallar")
	}
}

func PortFromString(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
