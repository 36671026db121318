package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
)

// Recover convierte panics en 500 con un JSON estable. El stack va solo al log.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				rid := RequestIDFromContext(r.Context())
				log.Printf("[panic] request_id=%s %s %s err=%v\n%s", rid, r.Method, r.URL.Path, rec, debug.Stack())
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprintf(w, `{"error":"internal","request_id":%q}`, rid)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
