package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	plain := "eutymia2024!"
	hash, err := HashPassword(plain)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == plain {
		t.Fatal("el hash no puede ser igual al texto plano")
	}
	if !CheckPassword(hash, plain) {
		t.Fatal("CheckPassword debería aceptar la contraseña correcta")
	}
	if CheckPassword(hash, "otra-clave") {
		t.Fatal("CheckPassword debería rechazar una contraseña incorrecta")
	}
	if CheckPassword("no-es-un-hash", plain) {
		t.Fatal("CheckPassword debería rechazar un hash malformado")
	}
}
