package auth

import "golang.org/x/crypto/bcrypt"

const hashCost = 12

// HashPassword genera un hash bcrypt de la contraseña en texto plano.
func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword compara en tiempo constante; cualquier error cuenta como no coincidencia.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
