package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"ISQM/internal/calc/flow"
	"ISQM/internal/calc/num"
	"ISQM/internal/form"
	"ISQM/internal/i18n"

	"github.com/phpdave11/gofpdf"
)

type Input struct {
	Project string      `json:"project"`
	Author  string      `json:"author"`
	Title   string      `json:"title"`
	Notes   string      `json:"notes"`
	Type    string      `json:"type"`
	Values  flow.Values `json:"values"`
}

// Sheet is everything printed on one calculation sheet.
type Sheet struct {
	Title   string
	Project string
	Author  string
	Notes   string
	Label   string
	Date    time.Time
	Fields  []string
	Outcome flow.Outcome
}

// Build validates the input against c and prepares the sheet. The report is
// returned with errors when any field fails.
func Build(c flow.Calculator, tr i18n.Translator, in Input, now time.Time) (Sheet, form.Report, bool) {
	rep, out := flow.Run(c, tr, in.Values, form.Interaction{Submitted: true})
	if out == nil {
		return Sheet{}, rep, false
	}
	title := in.Title
	if title == "" {
		title = tr.T(i18n.ReportTitle, nil)
	}
	return Sheet{
		Title:   title,
		Project: in.Project,
		Author:  in.Author,
		Notes:   in.Notes,
		Label:   c.Label(tr),
		Date:    now,
		Fields:  form.Names(c.Fields(tr)),
		Outcome: *out,
	}, rep, true
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func table(pdf *gofpdf.Fpdf, enc func(string) string, heading string, m map[string]float64) {
	if len(m) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, enc(heading))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for _, k := range sortedKeys(m) {
		v := m[k]
		pdf.CellFormat(80, 6, enc(k), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, num.Format(&v, 3), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

// Write renders s as an A4 PDF.
func Write(w io.Writer, s Sheet, tr i18n.Translator) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	enc := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, enc(s.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, enc(fmt.Sprintf("%s: %s", tr.T(i18n.ReportProject, nil), s.Project)))
	pdf.Ln(6)
	pdf.Cell(0, 6, enc(fmt.Sprintf("%s: %s", tr.T(i18n.ReportAuthor, nil), s.Author)))
	pdf.Ln(6)
	pdf.Cell(0, 6, enc(fmt.Sprintf("%s: %s", tr.T(i18n.ReportDate, nil), s.Date.Format("2006-01-02"))))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	result := s.Outcome.Result
	pdf.Cell(0, 8, enc(fmt.Sprintf("%s: %s %s", s.Label, num.Format(&result, 3), s.Outcome.Unit)))
	pdf.Ln(10)

	table(pdf, enc, tr.T(i18n.ReportInputs, nil), s.Outcome.Inputs)
	table(pdf, enc, tr.T(i18n.ReportOutputs, nil), s.Outcome.Outputs)

	if s.Notes != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, enc(s.Notes), "", "L", false)
	}
	return pdf.Output(w)
}
