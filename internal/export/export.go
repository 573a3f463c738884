// Package export renders calculation records as spreadsheets and printable reports.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/lankasolar/solarcalc/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"

	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

var historyHeader = []string{
	"ID", "Created", "Province", "District", "City", "Panel", "Area (m2)",
	"Annual PVOUT (kWh/m2)", "Monthly energy (kWh)", "Annual energy (kWh)",
	"Monthly earnings (LKR)", "Annual earnings (LKR)", "Rate mode",
}

// BuildCalculationsXLSX renders calculation history with one row per record
// and a second sheet listing the model inputs of each record.
func BuildCalculationsXLSX(calculations []*domain.Calculation) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	historySheet := "calculations"
	inputsSheet := "inputs"
	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(inputsSheet); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(historySheet, "A1", &historyHeader); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(inputsSheet, "A1", &[]string{"Calculation ID", "Variable", "Value", "Coefficient"}); err != nil {
		return nil, err
	}

	inputRow := 2
	for i, c := range calculations {
		row := []interface{}{
			c.ID.String(),
			c.CreatedAt.Format(time.RFC3339),
			c.Province,
			c.District,
			c.City,
			c.PanelName,
			c.Area,
			c.Result.PVOUT.Annual,
			c.Result.Energy.Monthly,
			c.Result.Energy.Annual,
			c.Result.Earnings.Monthly,
			c.Result.Earnings.Annual,
			c.Result.RateMode,
		}
		if err := f.SetSheetRow(historySheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}

		values := c.Inputs.Map()
		for _, term := range c.Coefficients.Terms {
			err := f.SetSheetRow(inputsSheet, fmt.Sprintf("A%d", inputRow), &[]interface{}{
				c.ID.String(), termName(term), values[term.VariableID], term.Coefficient,
			})
			if err != nil {
				return nil, err
			}
			inputRow++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildCalculationPDF renders a one-page report for a calculation.
func BuildCalculationPDF(c *domain.Calculation) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, "Solar PV Estimate")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Reference: %s", c.ID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Location: %s, %s, %s", c.City, c.District, c.Province))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Panel: %s", c.PanelName))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Installation area (m2): %.2f", c.Area))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Rate mode: %s", c.Result.RateMode))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", c.CreatedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 6, "Period", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "PVOUT (kWh/m2)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Energy (kWh)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Earnings (LKR)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	periods := []struct {
		name                    string
		pvout, energy, earnings float64
	}{
		{"Daily", c.Result.PVOUT.Daily, c.Result.Energy.Daily, c.Result.Earnings.Daily},
		{"Monthly", c.Result.PVOUT.Monthly, c.Result.Energy.Monthly, c.Result.Earnings.Monthly},
		{"Annual", c.Result.PVOUT.Annual, c.Result.Energy.Annual, c.Result.Earnings.Annual},
	}
	for _, p := range periods {
		pdf.CellFormat(40, 6, p.name, "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 6, fmt.Sprintf("%.3f", p.pvout), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 6, fmt.Sprintf("%.3f", p.energy), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 6, fmt.Sprintf("%.2f", p.earnings), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "Model")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Coefficient set: %d  Intercept: %g  Epsilon: %g",
		c.Coefficients.SetID, c.Coefficients.Intercept, c.Coefficients.Epsilon))
	pdf.Ln(7)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(80, 6, "Variable", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Value", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Coefficient", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	values := c.Inputs.Map()
	for _, term := range c.Coefficients.Terms {
		pdf.CellFormat(80, 6, termName(term), "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, fmt.Sprintf("%g", values[term.VariableID]), "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 6, fmt.Sprintf("%g", term.Coefficient), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func termName(t domain.Term) string {
	if t.VariableName != "" {
		return t.VariableName
	}
	return fmt.Sprintf("variable #%d", t.VariableID)
}
