package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Idempotent(t *testing.T) {
	n := New(nil)

	inputs := []string{
		"",
		"Name: Anita Das\nAge: 3O\nGender: Fernale",
		"Nanre :   RAVI  KUMAR , Aqe : 4S",
		"Sl No: l2  Name: X\n\n\n\nName: Y",
		"garbage \x00\x07 control \r\n chars",
		"already : clean, text\n\nsecond block",
	}

	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)
		assert.Equal(t, once, twice, "normalize must be idempotent for %q", in)
	}
}

func TestNormalize_WordCorrections(t *testing.T) {
	n := New(nil)

	out := n.Normalize("Nanre: RAVI\nAqe: 42\nGendsr: Malg")
	assert.Contains(t, out, "Name: RAVI")
	assert.Contains(t, out, "Age: 42")
	assert.Contains(t, out, "Gender: Male")
}

func TestNormalize_DigitContextGating(t *testing.T) {
	n := New(nil)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "age token corrected",
			in:   "Age: 3O",
			want: "Age: 30",
		},
		{
			name: "serial token corrected",
			in:   "Sl No: l2S",
			want: "Sl No: 125",
		},
		{
			name: "letters outside digit context untouched",
			in:   "Name: Olly Ilsa",
			want: "Name: Olly Ilsa",
		},
		{
			name: "male stays male",
			in:   "Gender: Male",
			want: "Gender: Male",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}

func TestNormalize_WhitespaceAndArtifacts(t *testing.T) {
	n := New(nil)

	out := n.Normalize("a   b\t\tc \nnext  line\n\n\n\n\nblock")
	assert.Equal(t, "a b c\nnext line\n\nblock", out)

	out = n.Normalize("bell\x07 and null\x00 stripped")
	assert.Equal(t, "bell and null stripped", out)
}

func TestNormalize_ColonAndCommaSpacing(t *testing.T) {
	n := New(nil)

	out := n.Normalize("Name :RAVI ,Age:30")
	assert.Equal(t, "Name: RAVI, Age: 30", out)
}

func TestApply_CountsCorrections(t *testing.T) {
	n := New(nil)

	_, count := n.Apply("Nanre: X Age: 3O")
	assert.Equal(t, 2, count, "one word fix plus one character substitution")

	_, count = n.Apply("Name: X Age: 30")
	assert.Zero(t, count)
}

func TestNew_CustomTable(t *testing.T) {
	n := New(map[string]string{"Nome": "Name"})

	out := n.Normalize("Nome: RAVI\nNanre: LEFT ALONE")
	assert.Contains(t, out, "Name: RAVI")
	assert.Contains(t, out, "Nanre: LEFT ALONE", "custom table replaces the built-in one")
}
