// Package agenda implementa el motor de la grilla de citas: rangos de vista,
// pertenencia de una cita a una celda y posición sub-hora. Todo es puro; los
// handlers solo arman la respuesta con estas funciones.
package agenda

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// La grilla va de 08:00 a 22:00 inclusive: 15 filas de una hora.
const (
	FirstHour = 8
	LastHour  = 22
)

type View string

const (
	ViewDay  View = "day"
	ViewWeek View = "week"
)

// ParseView normaliza el parámetro de vista; cualquier valor desconocido cae a día.
func ParseView(s string) View {
	if View(strings.ToLower(strings.TrimSpace(s))) == ViewWeek {
		return ViewWeek
	}
	return ViewDay
}

// Hours devuelve las filas de la grilla en orden.
func Hours() []int {
	hs := make([]int, 0, LastHour-FirstHour+1)
	for h := FirstHour; h <= LastHour; h++ {
		hs = append(hs, h)
	}
	return hs
}

// WeekStart devuelve el lunes de la semana de ref. El domingo pertenece a la
// semana que termina, no a la que empieza.
func WeekStart(ref time.Time) time.Time {
	d := civil(ref)
	wd := int(d.Weekday())
	diff := 1 - wd
	if wd == 0 {
		diff = -6
	}
	return d.AddDate(0, 0, diff)
}

// ViewRange devuelve [from, to] en fechas civiles inclusivas para la vista.
func ViewRange(ref time.Time, v View) (from, to time.Time) {
	if v == ViewWeek {
		from = WeekStart(ref)
		return from, from.AddDate(0, 0, 6)
	}
	d := civil(ref)
	return d, d
}

// Days lista los días de la vista en orden.
func Days(ref time.Time, v View) []time.Time {
	from, to := ViewRange(ref, v)
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Entry es lo que el motor necesita saber de una cita para ubicarla.
type Entry struct {
	Date        time.Time
	Time        string // "HH:MM"
	TherapistID *uuid.UUID
	StartTS     *time.Time
	EndTS       *time.Time
}

// Cell identifica una celda de la grilla. TherapistID uuid.Nil acepta
// cualquier terapeuta (vista semanal ya filtrada).
type Cell struct {
	Date        time.Time
	Hour        int
	TherapistID uuid.UUID
}

// HourOf devuelve la hora entera de un "HH:MM"; -1 si no parsea.
func HourOf(hhmm string) int {
	hhmm = strings.TrimSpace(hhmm)
	i := strings.IndexByte(hhmm, ':')
	if i < 0 {
		return -1
	}
	h, err := strconv.Atoi(hhmm[:i])
	if err != nil || h < 0 || h > 23 {
		return -1
	}
	return h
}

// InCell decide si la cita pertenece a la celda: mismo día civil, la hora de
// inicio cae dentro de la hora de la celda y coincide el terapeuta. Una cita
// de más de una hora sigue anclada a su celda de inicio.
func InCell(e Entry, c Cell) bool {
	if !sameDate(e.Date, c.Date) {
		return false
	}
	if HourOf(e.Time) != c.Hour {
		return false
	}
	if c.TherapistID == uuid.Nil {
		return true
	}
	return e.TherapistID != nil && *e.TherapistID == c.TherapistID
}

// Layout devuelve la posición vertical dentro de la celda como fracciones:
// top = minutos de inicio / 60, height = duración / 60. Sin timestamps la cita
// ocupa la celda completa. Una duración mayor a 60 min da height > 1 y la
// cita desborda visualmente su fila.
func Layout(e Entry) (top, height float64) {
	if e.StartTS == nil {
		return 0, 1
	}
	top = float64(e.StartTS.Minute()) / 60
	if e.EndTS == nil || !e.EndTS.After(*e.StartTS) {
		return top, 1
	}
	height = e.EndTS.Sub(*e.StartTS).Minutes() / 60
	return top, height
}

// Style es la presentación de un estado en la grilla.
type Style struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var statusStyles = map[string]Style{
	"pendiente":  {Label: "Pendiente", Color: "#f59e0b"},
	"confirmada": {Label: "Confirmada", Color: "#3b82f6"},
	"asiste":     {Label: "Asiste", Color: "#22c55e"},
	"no_asistio": {Label: "No asistió", Color: "#ef4444"},
	"cancelado":  {Label: "Cancelado", Color: "#9ca3af"},
	"blocked":    {Label: "Bloqueado", Color: "#374151"},
	"pagado":     {Label: "Pagado", Color: "#10b981"},
}

// StatusStyle devuelve la presentación del estado; desconocidos salen grises
// con el estado crudo como etiqueta.
func StatusStyle(status string) Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return Style{Label: status, Color: "#9ca3af"}
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
