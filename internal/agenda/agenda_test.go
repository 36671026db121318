package agenda

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		name string
		ref  time.Time
		want time.Time
	}{
		{"lunes se queda", date(2025, 1, 6), date(2025, 1, 6)},
		{"miércoles retrocede al lunes", date(2025, 1, 8), date(2025, 1, 6)},
		{"sábado retrocede al lunes", date(2025, 1, 11), date(2025, 1, 6)},
		{"domingo pertenece a la semana que termina", date(2025, 1, 12), date(2025, 1, 6)},
		{"lunes siguiente abre semana nueva", date(2025, 1, 13), date(2025, 1, 13)},
	}
	for _, c := range cases {
		if got := WeekStart(c.ref); !got.Equal(c.want) {
			t.Errorf("%s: WeekStart(%s) = %s, want %s", c.name, c.ref.Format("2006-01-02"), got.Format("2006-01-02"), c.want.Format("2006-01-02"))
		}
	}
}

func TestViewRange(t *testing.T) {
	from, to := ViewRange(date(2025, 1, 8), ViewDay)
	if !from.Equal(date(2025, 1, 8)) || !to.Equal(date(2025, 1, 8)) {
		t.Errorf("day range = [%s, %s]", from, to)
	}
	from, to = ViewRange(date(2025, 1, 8), ViewWeek)
	if !from.Equal(date(2025, 1, 6)) || !to.Equal(date(2025, 1, 12)) {
		t.Errorf("week range = [%s, %s], want lunes a domingo", from, to)
	}
}

func TestDays(t *testing.T) {
	if n := len(Days(date(2025, 1, 8), ViewDay)); n != 1 {
		t.Errorf("day view: %d días, want 1", n)
	}
	days := Days(date(2025, 1, 8), ViewWeek)
	if len(days) != 7 {
		t.Fatalf("week view: %d días, want 7", len(days))
	}
	if days[0].Weekday() != time.Monday || days[6].Weekday() != time.Sunday {
		t.Errorf("semana debe ir de lunes a domingo: %v .. %v", days[0].Weekday(), days[6].Weekday())
	}
}

func TestHours(t *testing.T) {
	hs := Hours()
	if len(hs) != 15 {
		t.Fatalf("grilla de %d filas, want 15", len(hs))
	}
	if hs[0] != 8 || hs[len(hs)-1] != 22 {
		t.Errorf("filas de %d a %d, want 8 a 22", hs[0], hs[len(hs)-1])
	}
}

func TestHourOf(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"08:00", 8},
		{"8:30", 8},
		{"22:15", 22},
		{"14:00:00", 14},
		{"", -1},
		{"mediodía", -1},
		{"25:00", -1},
	}
	for _, c := range cases {
		if got := HourOf(c.in); got != c.want {
			t.Errorf("HourOf(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestInCell(t *testing.T) {
	tid := uuid.New()
	other := uuid.New()
	day := date(2025, 3, 10)
	cases := []struct {
		name string
		e    Entry
		c    Cell
		want bool
	}{
		{
			"coincide día, hora y terapeuta",
			Entry{Date: day, Time: "10:00", TherapistID: &tid},
			Cell{Date: day, Hour: 10, TherapistID: tid},
			true,
		},
		{
			"minutos dentro de la misma hora cuentan",
			Entry{Date: day, Time: "10:45", TherapistID: &tid},
			Cell{Date: day, Hour: 10, TherapistID: tid},
			true,
		},
		{
			"otra hora no pertenece",
			Entry{Date: day, Time: "11:00", TherapistID: &tid},
			Cell{Date: day, Hour: 10, TherapistID: tid},
			false,
		},
		{
			"otro día no pertenece",
			Entry{Date: day.AddDate(0, 0, 1), Time: "10:00", TherapistID: &tid},
			Cell{Date: day, Hour: 10, TherapistID: tid},
			false,
		},
		{
			"otro terapeuta no pertenece",
			Entry{Date: day, Time: "10:00", TherapistID: &other},
			Cell{Date: day, Hour: 10, TherapistID: tid},
			false,
		},
		{
			"celda sin terapeuta acepta cualquiera",
			Entry{Date: day, Time: "10:00", TherapistID: &other},
			Cell{Date: day, Hour: 10},
			true,
		},
		{
			"cita sin terapeuta no entra en celda con terapeuta",
			Entry{Date: day, Time: "10:00"},
			Cell{Date: day, Hour: 10, TherapistID: tid},
			false,
		},
		{
			"hora ilegible no pertenece a ninguna fila",
			Entry{Date: day, Time: "??", TherapistID: &tid},
			Cell{Date: day, Hour: 10, TherapistID: tid},
			false,
		},
	}
	for _, c := range cases {
		if got := InCell(c.e, c.c); got != c.want {
			t.Errorf("%s: InCell = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestLayout(t *testing.T) {
	ts := func(h, m int) *time.Time {
		t := time.Date(2025, 3, 10, h, m, 0, 0, time.UTC)
		return &t
	}
	cases := []struct {
		name        string
		e           Entry
		top, height float64
	}{
		{"sin timestamps ocupa la celda", Entry{}, 0, 1},
		{"inicio en punto, 30 minutos", Entry{StartTS: ts(10, 0), EndTS: ts(10, 30)}, 0, 0.5},
		{"inicio a y cuarto, 45 minutos", Entry{StartTS: ts(10, 15), EndTS: ts(11, 0)}, 0.25, 0.75},
		{"solo inicio: alto completo", Entry{StartTS: ts(10, 30)}, 0.5, 1},
		{"fin antes del inicio: alto completo", Entry{StartTS: ts(10, 30), EndTS: ts(10, 0)}, 0.5, 1},
		{"90 minutos desborda la fila", Entry{StartTS: ts(10, 0), EndTS: ts(11, 30)}, 0, 1.5},
	}
	for _, c := range cases {
		top, height := Layout(c.e)
		if top != c.top || height != c.height {
			t.Errorf("%s: Layout = (%v, %v), want (%v, %v)", c.name, top, height, c.top, c.height)
		}
	}
}

func TestStatusStyle(t *testing.T) {
	if s := StatusStyle("pendiente"); s.Label != "Pendiente" {
		t.Errorf("pendiente: %+v", s)
	}
	if s := StatusStyle("no_asistio"); s.Label != "No asistió" {
		t.Errorf("no_asistio: %+v", s)
	}
	if s := StatusStyle("estado_raro"); s.Label != "estado_raro" || s.Color != "#9ca3af" {
		t.Errorf("desconocido debe salir gris con el estado crudo: %+v", s)
	}
}

func TestParseView(t *testing.T) {
	if ParseView("week") != ViewWeek || ParseView("WEEK ") != ViewWeek {
		t.Error("week debe parsear a vista semanal")
	}
	if ParseView("day") != ViewDay || ParseView("") != ViewDay || ParseView("mes") != ViewDay {
		t.Error("cualquier otro valor cae a vista diaria")
	}
}
