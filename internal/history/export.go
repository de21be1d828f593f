package history

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"ISQM/internal/i18n"

	"github.com/phpdave11/gofpdf"
	"github.com/xuri/excelize/v2"
)

const sheetName = "History"

var exportHeader = []string{"Date", "Type", "Label", "Result", "Unit", "Inputs", "Outputs"}

func formatInputs(m map[string]float64) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%g", k, m[k]))
	}
	return strings.Join(parts, ", ")
}

func formatOutputs(e Entry, tr i18n.Translator) string {
	items := OutputItems(e, tr)
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, strings.TrimSpace(fmt.Sprintf("%s %s %s", it.Label, it.Value, it.Unit)))
	}
	return strings.Join(parts, "; ")
}

// WriteXLSX writes entries as one spreadsheet row each.
func WriteXLSX(w io.Writer, entries []Entry, tr i18n.Translator) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, "A1", &exportHeader); err != nil {
		return err
	}
	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			e.CreatedAt.Format(time.RFC3339),
			TypeLabel(e.Type, tr),
			e.Label,
			e.Result,
			e.Unit,
			formatInputs(e.Inputs),
			formatOutputs(e, tr),
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheetName, "A", "A", 22); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "F", "G", 60); err != nil {
		return err
	}
	return f.Write(w)
}

// WritePDF renders entries as an A4 listing.
func WritePDF(w io.Writer, entries []Entry, tr i18n.Translator, now time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	enc := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, enc(tr.T(i18n.ReportHistory, nil)))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, enc(fmt.Sprintf("%s: %s", tr.T(i18n.ReportDate, nil), now.Format(dateLayout))))
	pdf.Ln(10)

	for _, e := range entries {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 6, enc(fmt.Sprintf("%s | %s | %s",
			e.CreatedAt.Format("2006-01-02 15:04"), TypeLabel(e.Type, tr), e.Label)))
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 5, enc(fmt.Sprintf("%s %s", FormatResult(e), e.Unit)))
		pdf.Ln(5)
		if out := formatOutputs(e, tr); out != "" {
			pdf.MultiCell(0, 5, enc(out), "", "L", false)
		}
		pdf.MultiCell(0, 5, enc(formatInputs(e.Inputs)), "", "L", false)
		pdf.Ln(3)
	}
	return pdf.Output(w)
}
