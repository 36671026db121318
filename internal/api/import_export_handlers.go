package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/Jagog2026/Eutymia-crm/internal/repo"
	"github.com/Jagog2026/Eutymia-crm/internal/xlsx"
)

const importBatchSize = 50

// ImportLeads recibe un archivo .xlsx o .csv (multipart, campo "file") con el
// contrato de encabezados en español y crea los leads en lotes.
func (h *Handler) ImportLeads(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		http.Error(w, `{"error":"archivo inválido"}`, http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `{"error":"falta el campo file"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	var result *xlsx.ParseResult
	name := strings.ToLower(header.Filename)
	switch {
	case strings.HasSuffix(name, ".csv"):
		result, err = xlsx.ParseCSV(file)
	case strings.HasSuffix(name, ".xlsx"):
		result, err = xlsx.ParseWorkbook(file)
	default:
		http.Error(w, `{"error":"formato no soportado, use .xlsx o .csv"}`, http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Printf("[import] %s: %v", header.Filename, err)
		http.Error(w, `{"error":"no se pudo leer el archivo"}`, http.StatusBadRequest)
		return
	}

	if err := repo.CreateLeadsBatch(r.Context(), h.DB, result.Leads, importBatchSize); err != nil {
		log.Printf("[import] insert: %v", err)
		http.Error(w, `{"error":"no se pudieron guardar los leads"}`, http.StatusInternalServerError)
		return
	}
	log.Printf("[import] %s: %d importados, %d saltados", header.Filename, len(result.Leads), result.Skipped)
	writeJSON(w, map[string]int{"imported": len(result.Leads), "skipped": result.Skipped})
}

// ExportLeads descarga todos los leads con los mismos encabezados del import,
// en xlsx (default) o csv.
func (h *Handler) ExportLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := repo.ListAllLeads(r.Context(), h.DB)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	if r.URL.Query().Get("format") == "csv" {
		body, err := xlsx.BuildCSV(leads)
		if err != nil {
			http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="leads.csv"`)
		_, _ = w.Write(body)
		return
	}
	body, err := xlsx.BuildWorkbook(leads)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.xlsx"`)
	_, _ = w.Write(body)
}

// ImportTemplate descarga una planilla vacía con los encabezados esperados.
func (h *Handler) ImportTemplate(w http.ResponseWriter, r *http.Request) {
	body, err := xlsx.BuildTemplate()
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="plantilla_leads.xlsx"`)
	_, _ = w.Write(body)
}
