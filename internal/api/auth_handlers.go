package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Jagog2026/Eutymia-crm/internal/auth"
	"github.com/Jagog2026/Eutymia-crm/internal/repo"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

type UserInfo struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	FullName    string  `json:"full_name"`
	Role        string  `json:"role"`
	TherapistID *string `json:"therapist_id,omitempty"`
}

// Login autentica contra la tabla users y emite un JWT con vencimiento.
// La respuesta de error no distingue usuario inexistente de clave mala.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		http.Error(w, `{"error":"email and password required"}`, http.StatusBadRequest)
		return
	}
	u, err := repo.UserByEmail(r.Context(), h.DB, req.Email)
	if err != nil {
		genericLoginError(w)
		return
	}
	if !u.Active {
		genericLoginError(w)
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		genericLoginError(w)
		return
	}
	var therapistID *string
	if u.TherapistID != nil {
		s := u.TherapistID.String()
		therapistID = &s
	}
	tok, err := auth.BuildJWT(h.Cfg.JWTSecret, u.ID.String(), u.Role, u.FullName, therapistID, auth.TokenTTL)
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, LoginResponse{
		Token:     tok,
		ExpiresAt: time.Now().Add(auth.TokenTTL),
		User: UserInfo{
			ID:          u.ID.String(),
			Email:       u.Email,
			FullName:    u.FullName,
			Role:        u.Role,
			TherapistID: therapistID,
		},
	})
}

func genericLoginError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"invalid credentials"}`))
}

// Me devuelve la identidad del token vigente.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	c := auth.ClaimsFrom(r.Context())
	if c == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	writeJSON(w, UserInfo{
		ID:          c.UserID,
		FullName:    c.FullName,
		Role:        c.Role,
		TherapistID: c.TherapistID,
	})
}
