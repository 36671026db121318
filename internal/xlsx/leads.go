// Package xlsx codifica y decodifica la base de leads en planillas (XLSX y
// CSV) con el contrato de columnas en español que usan las campañas.
package xlsx

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Jagog2026/Eutymia-crm/internal/repo"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Leads"

// Headers es el contrato de columnas. El orden y el texto exacto importan:
// los archivos vienen de planillas históricas con estos encabezados.
func Headers() []string {
	return []string{
		"Email",
		"Nombres",
		"Apellidos",
		"DNI o RFC",
		"Número de cliente",
		"Teléfono",
		"Teléfono secundario del cliente",
		"Dirección",
		"comuna",
		"Ciudad",
		"Edad",
		"Género. 1 = Femenino, 2 = Masculino",
		"Día del nacimiento",
		"Mes del nacimiento",
		"Año de nacimiento.",
		"Fecha de creación.",
	}
}

const (
	colEmail = iota
	colFirstName
	colLastName
	colDNI
	colClientNumber
	colPhone
	colSecondaryPhone
	colAddress
	colComuna
	colCity
	colAge
	colGender
	colBirthDay
	colBirthMonth
	colBirthYear
	colCreatedAt
)

// ParseResult es el resultado de decodificar una planilla.
type ParseResult struct {
	Leads   []repo.Lead
	Skipped int
}

// ParseWorkbook lee un XLSX y devuelve los leads de la primera hoja.
func ParseWorkbook(r io.Reader) (*ParseResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir xlsx: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("el archivo no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer filas: %w", err)
	}
	return parseRows(rows)
}

// ParseCSV lee la misma estructura desde un CSV separado por comas.
func ParseCSV(r io.Reader) (*ParseResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	return parseRows(rows)
}

func parseRows(rows [][]string) (*ParseResult, error) {
	if len(rows) == 0 {
		return &ParseResult{}, nil
	}
	idx := headerIndex(rows[0])
	res := &ParseResult{}
	for _, row := range rows[1:] {
		lead, ok := rowToLead(idx, row)
		if !ok {
			res.Skipped++
			continue
		}
		res.Leads = append(res.Leads, lead)
	}
	return res, nil
}

// headerIndex mapea cada columna conocida a su posición real en el archivo.
// La comparación ignora mayúsculas y espacios alrededor; columnas que no
// aparecen quedan en -1.
func headerIndex(header []string) map[int]int {
	want := Headers()
	idx := make(map[int]int, len(want))
	for k := range want {
		idx[k] = -1
	}
	for pos, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for k, w := range want {
			if h == strings.ToLower(w) {
				idx[k] = pos
				break
			}
		}
	}
	return idx
}

func cell(idx map[int]int, row []string, col int) string {
	p, ok := idx[col]
	if !ok || p < 0 || p >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[p])
}

// rowToLead arma un lead desde una fila. La fila se conserva solo si tiene
// nombre, email o teléfono; sin nombre queda "Sin nombre".
func rowToLead(idx map[int]int, row []string) (repo.Lead, bool) {
	email := cell(idx, row, colEmail)
	first := cell(idx, row, colFirstName)
	last := cell(idx, row, colLastName)
	phone := cell(idx, row, colPhone)

	fullName := strings.TrimSpace(first + " " + last)
	if fullName == "" && email == "" && phone == "" {
		return repo.Lead{}, false
	}
	if fullName == "" {
		fullName = "Sin nombre"
	}

	l := repo.Lead{
		FullName: fullName,
		Source:   "import",
		Status:   repo.StageNew,
	}
	setIf := func(dst **string, v string) {
		if v != "" {
			*dst = &v
		}
	}
	setIf(&l.Email, email)
	setIf(&l.Phone, phone)
	setIf(&l.SecondaryPhone, cell(idx, row, colSecondaryPhone))
	setIf(&l.DNI, cell(idx, row, colDNI))
	setIf(&l.ClientNumber, cell(idx, row, colClientNumber))
	setIf(&l.Address, cell(idx, row, colAddress))
	setIf(&l.Comuna, cell(idx, row, colComuna))
	setIf(&l.City, cell(idx, row, colCity))

	if age, err := strconv.Atoi(cell(idx, row, colAge)); err == nil && age > 0 {
		l.Age = &age
	}
	if g := genderFromCode(cell(idx, row, colGender)); g != "" {
		l.Gender = &g
	}
	if bd := birthDate(cell(idx, row, colBirthDay), cell(idx, row, colBirthMonth), cell(idx, row, colBirthYear)); bd != nil {
		l.BirthDate = bd
	}
	if created := cell(idx, row, colCreatedAt); created != "" {
		for _, layout := range []string{"2006-01-02", "02/01/2006", "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, created); err == nil {
				l.CreatedAt = t
				break
			}
		}
	}
	return l, true
}

func genderFromCode(code string) string {
	switch code {
	case "1":
		return "Femenino"
	case "2":
		return "Masculino"
	}
	return ""
}

func genderToCode(g *string) string {
	if g == nil {
		return ""
	}
	switch *g {
	case "Femenino":
		return "1"
	case "Masculino":
		return "2"
	}
	return ""
}

// birthDate arma la fecha desde las tres columnas día/mes/año; cualquier
// pieza inválida descarta la fecha completa.
func birthDate(day, month, year string) *time.Time {
	d, err1 := strconv.Atoi(day)
	m, err2 := strconv.Atoi(month)
	y, err3 := strconv.Atoi(year)
	if err1 != nil || err2 != nil || err3 != nil {
		return nil
	}
	if d < 1 || d > 31 || m < 1 || m > 12 || y < 1900 || y > 2200 {
		return nil
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// rechaza fechas que normalizaron (ej. 31/02)
	if t.Day() != d || int(t.Month()) != m {
		return nil
	}
	return &t
}

func leadToRow(l *repo.Lead) []string {
	str := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	first, last := splitName(l.FullName)
	age := ""
	if l.Age != nil {
		age = strconv.Itoa(*l.Age)
	}
	day, month, year := "", "", ""
	if l.BirthDate != nil {
		day = strconv.Itoa(l.BirthDate.Day())
		month = strconv.Itoa(int(l.BirthDate.Month()))
		year = strconv.Itoa(l.BirthDate.Year())
	}
	created := ""
	if !l.CreatedAt.IsZero() {
		created = l.CreatedAt.Format("2006-01-02")
	}
	return []string{
		str(l.Email),
		first,
		last,
		str(l.DNI),
		str(l.ClientNumber),
		str(l.Phone),
		str(l.SecondaryPhone),
		str(l.Address),
		str(l.Comuna),
		str(l.City),
		age,
		genderToCode(l.Gender),
		day,
		month,
		year,
		created,
	}
}

// splitName separa nombre y apellidos: la primera palabra va a Nombres y el
// resto a Apellidos, el reverso de la concatenación del import.
func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// BuildWorkbook genera el XLSX de exportación con todos los leads.
func BuildWorkbook(leads []repo.Lead) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	idx, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")
	for col, h := range Headers() {
		cellName, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(SheetName, cellName, h); err != nil {
			return nil, err
		}
	}
	for i := range leads {
		row := leadToRow(&leads[i])
		for col, v := range row {
			cellName, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(SheetName, cellName, v); err != nil {
				return nil, err
			}
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildTemplate genera una planilla vacía con solo los encabezados.
func BuildTemplate() ([]byte, error) {
	return BuildWorkbook(nil)
}

// BuildCSV genera la misma exportación en CSV.
func BuildCSV(leads []repo.Lead) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Headers()); err != nil {
		return nil, err
	}
	for i := range leads {
		if err := w.Write(leadToRow(&leads[i])); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
