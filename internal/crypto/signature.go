package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignBody devuelve la firma HMAC-SHA256 del cuerpo en hex, como la calcula
// Meta para el header X-Hub-Signature-256.
func SignBody(appSecret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyMetaSignature valida el header X-Hub-Signature-256 ("sha256=<hex>")
// contra el cuerpo crudo del webhook. Comparación en tiempo constante.
func VerifyMetaSignature(appSecret string, body []byte, header string) bool {
	if appSecret == "" || header == "" {
		return false
	}
	got, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}
	want := SignBody(appSecret, body)
	return hmac.Equal([]byte(strings.ToLower(got)), []byte(want))
}
