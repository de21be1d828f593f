package form

import (
	"math"
	"regexp"
	"strings"

	"ISQM/internal/calc/num"
	"ISQM/internal/i18n"
)

func NoOp(string) string { return "" }

func Required(tr i18n.Translator, key i18n.Key) Validator {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return tr.T(key, nil)
		}
		return ""
	}
}

func Positive(tr i18n.Translator) Validator {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return tr.T(i18n.CalcRequired, nil)
		}
		if v, ok := num.Valid(value); !ok || v <= 0 {
			return tr.T(i18n.CalcPositive, nil)
		}
		return ""
	}
}

// OptionalPositive accepts blank; anything else must be > 0.
func OptionalPositive(tr i18n.Translator) Validator {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return ""
		}
		if v, ok := num.Valid(value); !ok || v <= 0 {
			return tr.T(i18n.CalcPositive, nil)
		}
		return ""
	}
}

func NonNegative(tr i18n.Translator) Validator {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return tr.T(i18n.CalcRequired, nil)
		}
		if v, ok := num.Valid(value); !ok || v < 0 {
			return tr.T(i18n.CalcNonNegative, nil)
		}
		return ""
	}
}

func NonNegativeInt(tr i18n.Translator) Validator {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return tr.T(i18n.CalcRequired, nil)
		}
		v, ok := num.Valid(value)
		if !ok || v != math.Trunc(v) {
			return tr.T(i18n.CalcInteger, nil)
		}
		if v < 0 {
			return tr.T(i18n.CalcNonNegative, nil)
		}
		return ""
	}
}

// PositiveInt requires a whole number of at least 1 (soffit sides/edges).
func PositiveInt(tr i18n.Translator) Validator {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return tr.T(i18n.CalcRequired, nil)
		}
		v, ok := num.Valid(value)
		if !ok || v != math.Trunc(v) {
			return tr.T(i18n.CalcInteger, nil)
		}
		if v < 1 {
			return tr.T(i18n.CalcMinOne, nil)
		}
		return ""
	}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func Email(tr i18n.Translator) Validator {
	return func(value string) string {
		if !emailPattern.MatchString(strings.TrimSpace(value)) {
			return tr.T(i18n.AuthInvalidEmail, nil)
		}
		return ""
	}
}

// MinLength checks the trimmed length in characters.
func MinLength(tr i18n.Translator, n int, key i18n.Key) Validator {
	return func(value string) string {
		if len([]rune(strings.TrimSpace(value))) < n {
			return tr.T(key, nil)
		}
		return ""
	}
}

var phonePattern = regexp.MustCompile(`^[0-9+()\-\s]{6,}$`)

// Phone accepts blank; otherwise digits, spaces and +()- with at least 6 characters.
func Phone(tr i18n.Translator) Validator {
	return func(value string) string {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return ""
		}
		if !phonePattern.MatchString(trimmed) {
			return tr.T(i18n.ProfilePhoneInvalid, nil)
		}
		return ""
	}
}
