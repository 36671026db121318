package middleware

import (
	"compress/gzip"
	"net/http"
	"strings"
)

type gzipResponse struct {
	http.ResponseWriter
	gz     *gzip.Writer
	status bool
}

func (g *gzipResponse) WriteHeader(code int) {
	if g.status {
		return
	}
	g.status = true
	h := g.ResponseWriter.Header()
	// Respuestas ya comprimidas (PNG del QR, XLSX) salen sin recodificar.
	if h.Get("Content-Encoding") == "" && compressible(h.Get("Content-Type")) {
		h.Set("Content-Encoding", "gzip")
		h.Del("Content-Length")
		g.gz = gzip.NewWriter(g.ResponseWriter)
	}
	g.ResponseWriter.WriteHeader(code)
}

func (g *gzipResponse) Write(p []byte) (int, error) {
	if !g.status {
		g.WriteHeader(http.StatusOK)
	}
	if g.gz == nil {
		return g.ResponseWriter.Write(p)
	}
	return g.gz.Write(p)
}

func (g *gzipResponse) Close() error {
	if g.gz == nil {
		return nil
	}
	return g.gz.Close()
}

func compressible(contentType string) bool {
	switch {
	case contentType == "",
		strings.HasPrefix(contentType, "application/json"),
		strings.HasPrefix(contentType, "text/"),
		strings.HasPrefix(contentType, "application/pdf"):
		return true
	}
	return false
}

// Gzip comprime cuando el cliente acepta gzip. Los handlers no deben fijar
// Content-Length en respuestas comprimibles.
func Gzip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Vary", "Accept-Encoding")
		gw := &gzipResponse{ResponseWriter: w}
		defer gw.Close()
		next.ServeHTTP(gw, r)
	})
}
