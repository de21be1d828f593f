package form

import "strings"

// Validator returns a readable message for an invalid value and "" otherwise.
type Validator func(value string) string

type FieldState struct {
	ShowError   bool `json:"show_error"`
	ShowSuccess bool `json:"show_success"`
}

// GetFieldState decides whether a field shows its error or success decoration.
// Nothing is shown until the field was touched or the form was submitted.
func GetFieldState(value string, validator Validator, touched, submitted bool) FieldState {
	msg := ""
	if validator != nil {
		msg = validator(value)
	}
	hasValue := len(strings.TrimSpace(value)) > 0
	shouldShow := touched || submitted
	return FieldState{
		ShowError:   shouldShow && msg != "",
		ShowSuccess: shouldShow && msg == "" && hasValue,
	}
}

// Interaction carries the per-form touched/submitted flags. Flags only ever
// go from false to true until Reset.
type Interaction struct {
	Touched   map[string]bool `json:"touched"`
	Submitted bool            `json:"submitted"`
}

func (in *Interaction) Touch(field string) {
	if in.Touched == nil {
		in.Touched = make(map[string]bool)
	}
	in.Touched[field] = true
}

func (in *Interaction) Submit() { in.Submitted = true }

// Untouch clears one field, used when a field stops applying (user type switch).
func (in *Interaction) Untouch(field string) {
	delete(in.Touched, field)
}

func (in *Interaction) Reset() {
	in.Touched = nil
	in.Submitted = false
}

func (in Interaction) IsTouched(field string) bool {
	return in.Touched[field]
}
