package batch

import (
	"errors"
	"fmt"

	"ISQM/internal/calc/flow"
	"ISQM/internal/form"
	"ISQM/internal/i18n"
)

// MaxItems bounds one batch request.
const MaxItems = 200

var (
	ErrEmpty    = errors.New("no items")
	ErrTooLarge = fmt.Errorf("more than %d items", MaxItems)
)

type Item struct {
	Type   string      `json:"type"`
	Values flow.Values `json:"values"`
}

type Input struct {
	Items []Item `json:"items"`
}

// ItemResult holds either the outcome or the failing fields of one item.
type ItemResult struct {
	Index   int               `json:"index"`
	Type    string            `json:"type"`
	Result  *flow.Outcome     `json:"result,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	CanSave bool              `json:"can_save"`
}

type Result struct {
	Count   int          `json:"count"`
	Failed  int          `json:"failed"`
	Results []ItemResult `json:"results"`
}

// Calculate evaluates every item in order. Items of an unknown type or with
// invalid fields are reported in place and do not stop the batch.
func Calculate(reg *flow.Registry, tr i18n.Translator, in Input) (Result, error) {
	if len(in.Items) == 0 {
		return Result{}, ErrEmpty
	}
	if len(in.Items) > MaxItems {
		return Result{}, ErrTooLarge
	}
	out := Result{Results: make([]ItemResult, 0, len(in.Items))}
	for i, item := range in.Items {
		res := ItemResult{Index: i, Type: item.Type}
		c, ok := reg.Lookup(item.Type)
		if !ok {
			res.Errors = map[string]string{"type": tr.T(i18n.CalcUnknownCalculator, nil)}
		} else {
			rep, outcome := flow.Run(c, tr, item.Values, form.Interaction{Submitted: true})
			switch {
			case flow.OutOfRange(rep, outcome):
				res.Errors = map[string]string{"values": tr.T(i18n.CalcOutOfRange, nil)}
			case outcome == nil:
				res.Errors = rep.Errors()
			default:
				res.Result = outcome
				res.CanSave = flow.CanSave(c, *outcome)
			}
		}
		if res.Result == nil {
			out.Failed++
		}
		out.Results = append(out.Results, res)
	}
	out.Count = len(out.Results)
	return out, nil
}
