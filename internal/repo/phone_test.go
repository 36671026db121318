package repo

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct{ in, want string }{
		{"+52 1 33 1234 5678", "5213312345678"},
		{"(33) 1234-5678", "3312345678"},
		{"whatsapp:+523312345678", "523312345678"},
		{"", ""},
		{"sin número", ""},
	}
	for _, c := range cases {
		if got := NormalizePhone(c.in); got != c.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPhonesMatch(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		// mismo número con y sin prefijo de país
		{"523312345678", "3312345678", true},
		{"+52 33 1234 5678", "33-1234-5678", true},
		// prefijo 521 de WhatsApp México vs línea fija
		{"5213312345678", "3312345678", true},
		{"3312345678", "3387654321", false},
		{"", "3312345678", false},
		{"", "", false},
	}
	for _, c := range cases {
		if got := PhonesMatch(c.a, c.b); got != c.want {
			t.Errorf("PhonesMatch(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}
