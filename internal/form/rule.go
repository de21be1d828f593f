package form

import "slices"

// RuleKind tags the applicability variants.
type RuleKind int

const (
	RuleAlways RuleKind = iota
	RuleNever
	RuleWhenEquals
	RuleWhenIn
)

// Rule decides whether a field's validator runs for the current form values,
// e.g. institution is only checked when the user type is "student".
type Rule struct {
	Kind   RuleKind
	Field  string
	Values []string
}

var (
	Always = Rule{Kind: RuleAlways}
	Never  = Rule{Kind: RuleNever}
)

func WhenEquals(field, value string) Rule {
	return Rule{Kind: RuleWhenEquals, Field: field, Values: []string{value}}
}

func WhenIn(field string, values ...string) Rule {
	return Rule{Kind: RuleWhenIn, Field: field, Values: values}
}

// Applies evaluates the rule against the submitted values.
func (r Rule) Applies(values map[string]string) bool {
	switch r.Kind {
	case RuleNever:
		return false
	case RuleWhenEquals, RuleWhenIn:
		return slices.Contains(r.Values, values[r.Field])
	default:
		return true
	}
}

// Gate wraps v so it only runs while the rule applies.
func Gate(rule Rule, values map[string]string, v Validator) Validator {
	if v == nil || !rule.Applies(values) {
		return NoOp
	}
	return v
}
