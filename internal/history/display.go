package history

import (
	"math"
	"sort"

	"ISQM/internal/calc/num"
	"ISQM/internal/i18n"
)

type outputMeta struct {
	unit     string
	decimals int
}

var outputMetas = map[string]outputMeta{
	"concrete_m3":     {"m3", 3},
	"formwork_m2":     {"m2", 3},
	"soffit_m2":       {"m2", 3},
	"form_to_side_m2": {"m2", 3},
	"steel_kg":        {"kg", 2},
	"steel_main_kg":   {"kg", 2},
	"steel_links_kg":  {"kg", 2},
	"steel_total_kg":  {"kg", 2},
	"bars_qty":        {"", 2},
	"links_qty":       {"", 2},
}

var outputOrder = map[Type][]string{
	TypeBeam:   {"concrete_m3", "formwork_m2", "steel_kg"},
	TypeSlab:   {"concrete_m3", "formwork_m2", "soffit_m2", "form_to_side_m2", "steel_kg", "bars_qty"},
	TypeColumn: {"concrete_m3", "formwork_m2", "steel_main_kg", "steel_links_kg", "steel_total_kg", "links_qty"},
}

// OutputItem is one formatted output line of a saved entry.
type OutputItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// OutputItems lists the entry's outputs in display order. Keys absent from
// the entry or holding non-finite values are skipped.
func OutputItems(e Entry, tr i18n.Translator) []OutputItem {
	if len(e.Outputs) == 0 {
		return nil
	}
	order, ok := outputOrder[Type(e.Type)]
	if !ok {
		for k := range e.Outputs {
			order = append(order, k)
		}
		sort.Strings(order)
	}
	var items []OutputItem
	for _, key := range order {
		v, ok := e.Outputs[key]
		if !ok {
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		meta, known := outputMetas[key]
		if !known {
			meta.decimals = 2
		}
		label := tr.T(i18n.HistoryOutput(key), nil)
		if label == string(i18n.HistoryOutput(key)) {
			label = key
		}
		items = append(items, OutputItem{
			Key:   key,
			Label: label,
			Value: num.Format(&v, meta.decimals),
			Unit:  meta.unit,
		})
	}
	return items
}

func ResultDecimals(e Entry) int {
	switch Type(e.Type) {
	case TypeRebar:
		return 0
	case TypeConcrete:
		return 3
	case TypeFormwork:
		return 2
	case TypeSlab:
		if e.Unit == "m2" {
			return 3
		}
	}
	return 2
}

func FormatResult(e Entry) string {
	v := e.Result
	return num.Format(&v, ResultDecimals(e))
}

// TypeLabel is the localized name of t, or t itself when uncatalogued.
func TypeLabel(t string, tr i18n.Translator) string {
	label := tr.T(i18n.HistoryType(t), nil)
	if label == string(i18n.HistoryType(t)) {
		return t
	}
	return label
}
