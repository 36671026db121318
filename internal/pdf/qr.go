package pdf

import (
	"github.com/skip2/go-qrcode"
)

// WorkshopQR genera el PNG del código QR con el link público de inscripción
// al taller, para imprimir o compartir.
func WorkshopQR(registrationURL string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(registrationURL, qrcode.Medium, size)
}
