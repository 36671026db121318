package api

import "testing"

func TestMessageContent(t *testing.T) {
	tests := []struct {
		name    string
		msg     webhookMessage
		want    string
		wantRow bool
	}{
		{
			name:    "texto plano",
			msg:     webhookMessage{Type: "text", Text: &struct{ Body string `json:"body"` }{Body: "Hola, quiero agendar"}},
			want:    "Hola, quiero agendar",
			wantRow: true,
		},
		{
			name:    "imagen sin caption",
			msg:     webhookMessage{Type: "image", Image: &webhookMedia{ID: "m1"}},
			want:    "[Imagen]",
			wantRow: true,
		},
		{
			name:    "imagen con caption",
			msg:     webhookMessage{Type: "image", Image: &webhookMedia{ID: "m1", Caption: "mi receta"}},
			want:    "mi receta",
			wantRow: true,
		},
		{
			name:    "documento con caption",
			msg:     webhookMessage{Type: "document", Document: &webhookMedia{Caption: "orden médica"}},
			want:    "orden médica",
			wantRow: true,
		},
		{
			name:    "audio",
			msg:     webhookMessage{Type: "audio"},
			want:    "[Audio]",
			wantRow: true,
		},
		{
			name:    "sticker",
			msg:     webhookMessage{Type: "sticker"},
			want:    "[Sticker]",
			wantRow: true,
		},
		{
			name: "ubicación",
			msg: webhookMessage{Type: "location", Location: &struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			}{Latitude: 19.4326, Longitude: -99.1332}},
			want:    "[Ubicación: 19.432600, -99.133200]",
			wantRow: true,
		},
		{
			name:    "contacto compartido",
			msg:     webhookMessage{Type: "contacts"},
			want:    "[Contacto compartido]",
			wantRow: true,
		},
		{
			name:    "reacción no genera fila",
			msg:     webhookMessage{Type: "reaction"},
			wantRow: false,
		},
		{
			name:    "tipo desconocido",
			msg:     webhookMessage{Type: "order"},
			want:    "[order]",
			wantRow: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := messageContent(&tt.msg)
			if ok != tt.wantRow {
				t.Fatalf("ok=%v, esperaba %v", ok, tt.wantRow)
			}
			if ok && got != tt.want {
				t.Fatalf("content=%q, esperaba %q", got, tt.want)
			}
		})
	}
}
