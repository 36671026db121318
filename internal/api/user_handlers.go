package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Jagog2026/Eutymia-crm/internal/auth"
	"github.com/Jagog2026/Eutymia-crm/internal/repo"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// ListUsers devuelve todos los usuarios del sistema. Solo admin.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := repo.ListUsers(r.Context(), h.DB)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]interface{}{"users": list})
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string  `json:"email"`
		Password    string  `json:"password"`
		FullName    string  `json:"full_name"`
		Role        string  `json:"role"`
		TherapistID *string `json:"therapist_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !emailRegex.MatchString(req.Email) {
		http.Error(w, `{"error":"email inválido"}`, http.StatusBadRequest)
		return
	}
	if len(req.Password) < 8 {
		http.Error(w, `{"error":"la contraseña debe tener al menos 8 caracteres"}`, http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = auth.RoleUser
	}
	if req.Role != auth.RoleAdmin && req.Role != auth.RoleTherapist && req.Role != auth.RoleUser {
		http.Error(w, `{"error":"rol inválido"}`, http.StatusBadRequest)
		return
	}
	var therapistID *uuid.UUID
	if req.TherapistID != nil && *req.TherapistID != "" {
		tid, err := uuid.Parse(*req.TherapistID)
		if err != nil {
			http.Error(w, `{"error":"therapist_id inválido"}`, http.StatusBadRequest)
			return
		}
		therapistID = &tid
	}
	hashFn := h.hashPassword
	if hashFn == nil {
		hashFn = auth.HashPassword
	}
	hash, err := hashFn(req.Password)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	id, err := repo.CreateUser(r.Context(), h.DB, req.Email, hash, strings.TrimSpace(req.FullName), req.Role, therapistID)
	if err != nil {
		// El índice único de email es la causa habitual.
		http.Error(w, `{"error":"no se pudo crear el usuario"}`, http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]string{"id": id.String()})
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["userId"])
	if err != nil {
		http.Error(w, `{"error":"invalid user_id"}`, http.StatusBadRequest)
		return
	}
	var req struct {
		FullName    *string `json:"full_name"`
		Role        *string `json:"role"`
		Password    *string `json:"password"`
		TherapistID *string `json:"therapist_id"`
		Active      *bool   `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	if req.Role != nil && *req.Role != auth.RoleAdmin && *req.Role != auth.RoleTherapist && *req.Role != auth.RoleUser {
		http.Error(w, `{"error":"rol inválido"}`, http.StatusBadRequest)
		return
	}
	var passwordHash *string
	if req.Password != nil {
		if len(*req.Password) < 8 {
			http.Error(w, `{"error":"la contraseña debe tener al menos 8 caracteres"}`, http.StatusBadRequest)
			return
		}
		hashFn := h.hashPassword
		if hashFn == nil {
			hashFn = auth.HashPassword
		}
		hash, err := hashFn(*req.Password)
		if err != nil {
			http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
			return
		}
		passwordHash = &hash
	}
	var therapistID *uuid.UUID
	if req.TherapistID != nil && *req.TherapistID != "" {
		tid, err := uuid.Parse(*req.TherapistID)
		if err != nil {
			http.Error(w, `{"error":"therapist_id inválido"}`, http.StatusBadRequest)
			return
		}
		therapistID = &tid
	}
	if err := repo.UpdateUser(r.Context(), h.DB, id, req.FullName, req.Role, passwordHash, therapistID, req.Active); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": "Usuario actualizado."})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["userId"])
	if err != nil {
		http.Error(w, `{"error":"invalid user_id"}`, http.StatusBadRequest)
		return
	}
	// Un admin no puede borrarse a sí mismo.
	if auth.UserIDFrom(r.Context()) == id.String() {
		http.Error(w, `{"error":"no puedes eliminar tu propio usuario"}`, http.StatusBadRequest)
		return
	}
	if err := repo.DeleteUser(r.Context(), h.DB, id); err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": "Usuario eliminado."})
}
