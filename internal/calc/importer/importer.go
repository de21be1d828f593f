package importer

import (
	"errors"
	"io"
	"strings"

	"ISQM/internal/calc/flow"
	"ISQM/internal/form"
	"ISQM/internal/i18n"

	"github.com/xuri/excelize/v2"
)

var ErrEmptySheet = errors.New("empty sheet")

// RowResult is one data row; Row is the 1-based spreadsheet row number.
type RowResult struct {
	Row    int               `json:"row"`
	Result *flow.Outcome     `json:"result,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

type Result struct {
	Type    string      `json:"type"`
	Count   int         `json:"count"`
	Failed  int         `json:"failed"`
	Columns []string    `json:"columns"`
	Rows    []RowResult `json:"rows"`
}

// Import reads the first sheet of an xlsx workbook. The first row is a
// header; each later cell maps positionally onto the calculator's fields.
// Blank rows are skipped.
func Import(c flow.Calculator, tr i18n.Translator, r io.Reader) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return Result{}, err
	}
	if len(rows) < 2 {
		return Result{}, ErrEmptySheet
	}

	fields := c.Fields(tr)
	out := Result{Type: c.Name(), Columns: form.Names(fields)}
	for i := 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		values := make(map[string]string, len(fields))
		for j, f := range fields {
			if j < len(rows[i]) && strings.TrimSpace(rows[i][j]) != "" {
				values[f.Name] = rows[i][j]
			}
		}
		res := RowResult{Row: i + 1}
		rep, outcome := flow.Run(c, tr, values, form.Interaction{Submitted: true})
		if outcome == nil {
			res.Errors = rep.Errors()
			if flow.OutOfRange(rep, outcome) {
				res.Errors = map[string]string{"values": tr.T(i18n.CalcOutOfRange, nil)}
			}
			out.Failed++
		} else {
			res.Result = outcome
			out.Count++
		}
		out.Rows = append(out.Rows, res)
	}
	return out, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
