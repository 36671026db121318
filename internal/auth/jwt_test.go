package auth

import (
	"testing"
	"time"
)

func TestBuildAndParseJWT(t *testing.T) {
	secret := []byte("test-secret-min-32-chars!!")
	userID := "user-123"
	tid := "ther-456"
	tok, err := BuildJWT(secret, userID, RoleTherapist, "Paula Rojas", &tid, time.Hour)
	if err != nil {
		t.Fatalf("BuildJWT: %v", err)
	}
	claims, err := ParseJWT(secret, tok)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != userID || claims.Role != RoleTherapist || claims.FullName != "Paula Rojas" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.TherapistID == nil || *claims.TherapistID != tid {
		t.Fatalf("therapist_id mismatch: %+v", claims.TherapistID)
	}
}

func TestParseJWT_WrongSecret(t *testing.T) {
	tok, err := BuildJWT([]byte("secret-a-min-32-chars-padpadpad!!"), "u1", RoleAdmin, "Admin", nil, time.Hour)
	if err != nil {
		t.Fatalf("BuildJWT: %v", err)
	}
	if _, err := ParseJWT([]byte("secret-b-min-32-chars-padpadpad!!"), tok); err == nil {
		t.Fatal("ParseJWT should fail with wrong secret")
	}
}

func TestParseJWT_Expired(t *testing.T) {
	secret := []byte("test-secret-min-32-chars!!")
	tok, err := BuildJWT(secret, "u1", RoleAdmin, "Admin", nil, -time.Minute)
	if err != nil {
		t.Fatalf("BuildJWT: %v", err)
	}
	if _, err := ParseJWT(secret, tok); err == nil {
		t.Fatal("ParseJWT should reject an expired token")
	}
}
