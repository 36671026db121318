package cache

import (
	"testing"
	"time"
)

func TestTTLSetGetDelete(t *testing.T) {
	c := New(time.Minute)
	if got := c.Get("k"); got != nil {
		t.Fatalf("Get en cache vacío debe ser nil, got %q", got)
	}
	c.Set("k", []byte("v"))
	if got := string(c.Get("k")); got != "v" {
		t.Fatalf("Get = %q, want v", got)
	}
	c.Delete("k")
	if got := c.Get("k"); got != nil {
		t.Fatalf("Get después de Delete debe ser nil, got %q", got)
	}
}

func TestTTLExpiry(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.Set("k", []byte("v"))
	time.Sleep(20 * time.Millisecond)
	if got := c.Get("k"); got != nil {
		t.Fatalf("entrada vencida debe devolver nil, got %q", got)
	}
}

func TestTTLDeletePrefix(t *testing.T) {
	c := New(time.Minute)
	c.Set("dashboard:main", []byte("a"))
	c.Set("dashboard:branch", []byte("b"))
	c.Set("reports:2025-01", []byte("c"))
	c.DeletePrefix("dashboard:")
	if c.Get("dashboard:main") != nil || c.Get("dashboard:branch") != nil {
		t.Fatal("DeletePrefix debe borrar todas las claves con el prefijo")
	}
	if c.Get("reports:2025-01") == nil {
		t.Fatal("DeletePrefix no debe borrar otras claves")
	}
}
