package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/Jagog2026/Eutymia-crm/internal/repo"
	"github.com/gorilla/mux"
	"gorm.io/datatypes"
)

func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	list, err := repo.ListSettings(r.Context(), h.DB)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	out := make(map[string]json.RawMessage, len(list))
	for _, s := range list {
		out[s.Key] = json.RawMessage(s.Value)
	}
	writeJSON(w, map[string]interface{}{"settings": out})
}

func (h *Handler) GetSetting(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	s, err := repo.GetSetting(r.Context(), h.DB, key)
	if err != nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, s)
}

// PutSetting guarda el valor tal cual llega; el cuerpo debe ser JSON válido.
func (h *Handler) PutSetting(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" || len(key) > 100 {
		http.Error(w, `{"error":"clave inválida"}`, http.StatusBadRequest)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	if err != nil || !json.Valid(body) {
		http.Error(w, `{"error":"el valor debe ser JSON válido"}`, http.StatusBadRequest)
		return
	}
	if err := repo.PutSetting(r.Context(), h.DB, key, datatypes.JSON(body)); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": "Configuración guardada."})
}
