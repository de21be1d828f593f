package form

// Field binds a form field name to its validator and applicability rule.
type Field struct {
	Name      string
	Validator Validator
	Rule      Rule
}

// Check is the evaluated state of one field.
type Check struct {
	Error string `json:"error,omitempty"`
	FieldState
}

type Report struct {
	Fields    map[string]Check `json:"fields"`
	HasErrors bool             `json:"has_errors"`
}

// Evaluate runs every field against values. Fields whose rule does not apply
// are treated as valid.
func Evaluate(fields []Field, values map[string]string, in Interaction) Report {
	rep := Report{Fields: make(map[string]Check, len(fields))}
	for _, f := range fields {
		v := Gate(f.Rule, values, f.Validator)
		value := values[f.Name]
		msg := v(value)
		rep.Fields[f.Name] = Check{
			Error:      msg,
			FieldState: GetFieldState(value, v, in.IsTouched(f.Name), in.Submitted),
		}
		if msg != "" {
			rep.HasErrors = true
		}
	}
	return rep
}

// Errors returns only the fields that currently fail validation.
func (r Report) Errors() map[string]string {
	out := make(map[string]string)
	for name, c := range r.Fields {
		if c.Error != "" {
			out[name] = c.Error
		}
	}
	return out
}

// Reject marks name as failing with msg after evaluation, for checks that
// need more than the field's own text.
func (r *Report) Reject(name, msg string) {
	if r.Fields == nil {
		r.Fields = make(map[string]Check)
	}
	r.Fields[name] = Check{Error: msg, FieldState: FieldState{ShowError: true}}
	r.HasErrors = true
}

// Names lists field names in declaration order.
func Names(fields []Field) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Name)
	}
	return out
}
