package repo

import "strings"

// NormalizePhone deja solo los dígitos del número.
func NormalizePhone(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// lastDigits devuelve los últimos n dígitos del número normalizado.
func lastDigits(s string, n int) string {
	d := NormalizePhone(s)
	if len(d) <= n {
		return d
	}
	return d[len(d)-n:]
}

// PhonesMatch compara dos teléfonos por sus últimos 10 dígitos, ignorando
// formato y prefijo de país. Números vacíos nunca coinciden.
func PhonesMatch(a, b string) bool {
	da, db := lastDigits(a, 10), lastDigits(b, 10)
	if da == "" || db == "" {
		return false
	}
	return da == db
}
