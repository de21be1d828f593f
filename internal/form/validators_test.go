package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumericValidators(t *testing.T) {
	tests := []struct {
		name  string
		v     Validator
		value string
		want  string
	}{
		{"positive blank", Positive(en), "", "This field is required."},
		{"positive zero", Positive(en), "0", "Enter a number greater than 0."},
		{"positive garbage", Positive(en), "abc", "Enter a number greater than 0."},
		{"positive ok", Positive(en), "0.3", ""},
		{"optional blank", OptionalPositive(en), "", ""},
		{"optional negative", OptionalPositive(en), "-2", "Enter a number greater than 0."},
		{"non-negative zero", NonNegative(en), "0", ""},
		{"non-negative negative", NonNegative(en), "-0.1", "Enter a number of 0 or more."},
		{"int fraction", NonNegativeInt(en), "2.5", "Enter a whole number."},
		{"int negative", NonNegativeInt(en), "-3", "Enter a number of 0 or more."},
		{"int zero", NonNegativeInt(en), "0", ""},
		{"int blank", NonNegativeInt(en), " ", "This field is required."},
		{"min one zero", PositiveInt(en), "0", "Enter a whole number of at least 1."},
		{"min one ok", PositiveInt(en), "2", ""},
		{"min one fraction", PositiveInt(en), "1.5", "Enter a whole number."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v(tt.value))
		})
	}
}

func TestTextValidators(t *testing.T) {
	assert.Equal(t, "", Email(en)(" ali@example.com "))
	assert.NotEmpty(t, Email(en)("ali@example"))
	assert.NotEmpty(t, Email(en)(""))

	pw := MinLength(en, 6, "auth.errorPasswordLength")
	assert.NotEmpty(t, pw("12345 "))
	assert.Equal(t, "", pw("123456"))

	assert.Equal(t, "", Phone(en)(""))
	assert.Equal(t, "", Phone(en)("+60 (12) 345-6789"))
	assert.NotEmpty(t, Phone(en)("12345"))
	assert.NotEmpty(t, Phone(en)("call me"))
}
