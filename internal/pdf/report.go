package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// MonthlyReport son los datos ya agregados que van al PDF del cierre mensual.
type MonthlyReport struct {
	Title          string
	Period         string // ej. "Marzo 2025"
	TotalIncome    float64
	PaidIncome     float64
	PendingIncome  float64
	WorkshopIncome float64
	FixedExpenses  float64
	VarExpenses    float64
	Therapists     []TherapistLine
	RedNumbers     []RedNumberLine
}

type TherapistLine struct {
	Name       string
	Sessions   int
	Revenue    float64
	Commission float64
}

type RedNumberLine struct {
	Description string
	Responsible string
	Date        string
	Amount      float64
}

func money(v float64) string { return fmt.Sprintf("$%.2f", v) }

// BuildMonthlyReportPDF genera el PDF del reporte mensual.
func BuildMonthlyReportPDF(r MonthlyReport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, r.Title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, "Periodo: "+r.Period, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Resumen", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Ingresos totales: "+money(r.TotalIncome), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Cobrado: "+money(r.PaidIncome), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Pendiente de pago: "+money(r.PendingIncome), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Talleres: "+money(r.WorkshopIncome), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Gastos fijos: "+money(r.FixedExpenses), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Gastos variables: "+money(r.VarExpenses), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if len(r.Therapists) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Por terapeuta", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(70, 6, "Terapeuta", "B", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, "Sesiones", "B", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, "Ingresos", "B", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, "Comisión", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, t := range r.Therapists {
			pdf.CellFormat(70, 6, t.Name, "", 0, "L", false, 0, "")
			pdf.CellFormat(25, 6, fmt.Sprintf("%d", t.Sessions), "", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, money(t.Revenue), "", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, money(t.Commission), "", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	if len(r.RedNumbers) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Números rojos (pendiente de pago)", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(75, 6, "Sesión", "B", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, "Responsable", "B", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, "Fecha", "B", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, "Monto", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, n := range r.RedNumbers {
			pdf.CellFormat(75, 6, n.Description, "", 0, "L", false, 0, "")
			pdf.CellFormat(45, 6, n.Responsible, "", 0, "L", false, 0, "")
			pdf.CellFormat(25, 6, n.Date, "", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, money(n.Amount), "", 1, "R", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
