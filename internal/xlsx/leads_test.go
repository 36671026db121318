package xlsx

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/Jagog2026/Eutymia-crm/internal/repo"
)

func strp(s string) *string { return &s }

// csvHeader arma la fila de encabezados con encoding/csv: el encabezado de
// género trae comas y debe ir entre comillas.
func csvHeader(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Headers()); err != nil {
		t.Fatalf("escribir encabezados: %v", err)
	}
	w.Flush()
	return buf.String()
}

func TestParseCSV_MapeoBasico(t *testing.T) {
	csvData := csvHeader(t) +
		"maria@test.cl,María,Pérez Soto,12.345.678-9,C-001,+56 9 8765 4321,,Av. Siempre Viva 123,Providencia,Santiago,34,1,15,3,1990,2024-06-01\n"
	res, err := ParseCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(res.Leads) != 1 || res.Skipped != 0 {
		t.Fatalf("leads=%d skipped=%d, want 1/0", len(res.Leads), res.Skipped)
	}
	l := res.Leads[0]
	if l.FullName != "María Pérez Soto" {
		t.Errorf("full_name = %q", l.FullName)
	}
	if l.Email == nil || *l.Email != "maria@test.cl" {
		t.Errorf("email = %v", l.Email)
	}
	if l.Gender == nil || *l.Gender != "Femenino" {
		t.Errorf("gender = %v, want Femenino (código 1)", l.Gender)
	}
	if l.Age == nil || *l.Age != 34 {
		t.Errorf("age = %v", l.Age)
	}
	if l.BirthDate == nil || !l.BirthDate.Equal(time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("birth_date = %v, want 1990-03-15", l.BirthDate)
	}
	if l.Source != "import" || l.Status != repo.StageNew {
		t.Errorf("source=%q status=%q", l.Source, l.Status)
	}
	if l.Comuna == nil || *l.Comuna != "Providencia" {
		t.Errorf("comuna = %v", l.Comuna)
	}
}

func TestParseCSV_FilasVacias(t *testing.T) {
	csvData := csvHeader(t) +
		",,,,,,,,,,,,,,,\n" + // sin nombre, email ni teléfono: se descarta
		",,,,,+52 33 1111 2222,,,,,,,,,,\n" // solo teléfono: se conserva
	res, err := ParseCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if res.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", res.Skipped)
	}
	if len(res.Leads) != 1 {
		t.Fatalf("leads = %d, want 1", len(res.Leads))
	}
	if res.Leads[0].FullName != "Sin nombre" {
		t.Errorf("lead sin nombre debe quedar %q, got %q", "Sin nombre", res.Leads[0].FullName)
	}
}

func TestParseCSV_FechaInvalidaSeDescarta(t *testing.T) {
	csvData := csvHeader(t) +
		"x@y.cl,Ana,,,,,,,,,,2,31,2,1990,\n" // 31 de febrero no existe
	res, err := ParseCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(res.Leads) != 1 {
		t.Fatalf("leads = %d", len(res.Leads))
	}
	if res.Leads[0].BirthDate != nil {
		t.Errorf("fecha imposible debe quedar nil, got %v", res.Leads[0].BirthDate)
	}
	if res.Leads[0].Gender == nil || *res.Leads[0].Gender != "Masculino" {
		t.Errorf("gender = %v, want Masculino (código 2)", res.Leads[0].Gender)
	}
}

func TestRoundTripXLSX(t *testing.T) {
	bd := time.Date(1985, 11, 2, 0, 0, 0, 0, time.UTC)
	age := 40
	in := []repo.Lead{
		{
			FullName:  "Carlos Mendoza Ruiz",
			Email:     strp("carlos@test.mx"),
			Phone:     strp("3312345678"),
			DNI:       strp("MERC850211"),
			City:      strp("Guadalajara"),
			Age:       &age,
			Gender:    strp("Masculino"),
			BirthDate: &bd,
			Source:    "manual",
			Status:    repo.StagePaid,
			CreatedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		},
	}
	raw, err := BuildWorkbook(in)
	if err != nil {
		t.Fatalf("BuildWorkbook: %v", err)
	}
	res, err := ParseWorkbook(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if len(res.Leads) != 1 {
		t.Fatalf("leads = %d, want 1", len(res.Leads))
	}
	out := res.Leads[0]
	if out.FullName != in[0].FullName {
		t.Errorf("full_name: %q != %q", out.FullName, in[0].FullName)
	}
	if out.Gender == nil || *out.Gender != "Masculino" {
		t.Errorf("gender no sobrevivió el round-trip: %v", out.Gender)
	}
	if out.BirthDate == nil || !out.BirthDate.Equal(bd) {
		t.Errorf("birth_date no sobrevivió el round-trip: %v", out.BirthDate)
	}
	if out.Phone == nil || *out.Phone != "3312345678" {
		t.Errorf("phone = %v", out.Phone)
	}
}

func TestBuildTemplate_SoloEncabezados(t *testing.T) {
	raw, err := BuildTemplate()
	if err != nil {
		t.Fatalf("BuildTemplate: %v", err)
	}
	res, err := ParseWorkbook(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if len(res.Leads) != 0 || res.Skipped != 0 {
		t.Errorf("template debe estar vacío: leads=%d skipped=%d", len(res.Leads), res.Skipped)
	}
}

func TestSplitName(t *testing.T) {
	cases := []struct{ in, first, last string }{
		{"María Pérez Soto", "María", "Pérez Soto"},
		{"Ana", "Ana", ""},
		{"", "", ""},
	}
	for _, c := range cases {
		f, l := splitName(c.in)
		if f != c.first || l != c.last {
			t.Errorf("splitName(%q) = (%q, %q), want (%q, %q)", c.in, f, l, c.first, c.last)
		}
	}
}
