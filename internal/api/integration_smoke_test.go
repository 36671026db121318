//go:build integration

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Jagog2026/Eutymia-crm/internal/cache"
	"github.com/Jagog2026/Eutymia-crm/internal/config"
	"github.com/Jagog2026/Eutymia-crm/internal/testutil"
	"github.com/gorilla/mux"
)

// Smoke: levanta un router mínimo y verifica que /health responde. Las suites
// de integración reales usan DATABASE_URL para migrar antes de correr.
func TestIntegration_Health(t *testing.T) {
	ctx := context.Background()
	db, url := testutil.OpenDB(ctx)
	if db == nil {
		t.Skip("DATABASE_URL no configurada para tests de integración")
		return
	}
	if err := testutil.MustMigrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	_ = url
	_ = &Handler{DB: db, Cfg: config.Load(), Cache: cache.New(time.Minute)}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
