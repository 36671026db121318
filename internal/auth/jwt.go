package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RoleAdmin     = "admin"
	RoleTherapist = "therapist"
	RoleUser      = "user"
)

// TokenTTL es la duración de la sesión. El parse rechaza tokens vencidos,
// así que la expiración se valida en cada request.
const TokenTTL = 24 * time.Hour

type Claims struct {
	jwt.RegisteredClaims
	UserID      string  `json:"user_id"`
	Role        string  `json:"role"`
	FullName    string  `json:"full_name"`
	TherapistID *string `json:"therapist_id,omitempty"`
}

func BuildJWT(secret []byte, userID, role, fullName string, therapistID *string, exp time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(exp)),
		},
		UserID:      userID,
		Role:        role,
		FullName:    fullName,
		TherapistID: therapistID,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func ParseJWT(secret []byte, tokenString string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
