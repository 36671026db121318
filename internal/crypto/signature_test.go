package crypto

import "testing"

func TestVerifyMetaSignature(t *testing.T) {
	secret := "app-secret"
	body := []byte(`{"object":"whatsapp_business_account"}`)
	header := "sha256=" + SignBody(secret, body)

	if !VerifyMetaSignature(secret, body, header) {
		t.Fatal("firma correcta debe validar")
	}
	if VerifyMetaSignature(secret, []byte(`{"object":"otro"}`), header) {
		t.Fatal("cuerpo alterado no debe validar")
	}
	if VerifyMetaSignature("otro-secret", body, header) {
		t.Fatal("secret distinto no debe validar")
	}
	if VerifyMetaSignature(secret, body, "") {
		t.Fatal("header vacío no debe validar")
	}
	if VerifyMetaSignature(secret, body, SignBody(secret, body)) {
		t.Fatal("header sin prefijo sha256= no debe validar")
	}
	if VerifyMetaSignature("", body, header) {
		t.Fatal("sin secret configurado no debe validar")
	}
}
