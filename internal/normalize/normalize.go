// Package normalize cleans recognized text before record extraction.
// Normalization is total (it never fails) and idempotent.
package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// defaultWordTable maps label words that Tesseract commonly garbles to
// their intended spelling. The table is empirically tuned and can be
// overridden from configuration; corrected words must never themselves
// appear as keys, or idempotence breaks.
var defaultWordTable = map[string]string{
	"Nanre": "Name", "Narne": "Name", "Natne": "Name", "Nanie": "Name",
	"Narme": "Name", "Namre": "Name", "Nanne": "Name",
	"Fathars": "Father", "Fathar": "Father",
	"Hurband": "Husband", "Husbamd": "Husband", "Hursband": "Husband", "Husbanc": "Husband",
	"Aqe": "Age", "Agg": "Age", "Agge": "Age", "Agae": "Age",
	"Gendsr": "Gender", "Gendet": "Gender", "Gencer": "Gender",
	"Malg": "Male", "Malle": "Male", "Maie": "Male",
	"Fernale": "Female", "Femala": "Female", "Femsle": "Female",
	"Femaie": "Female", "Fenale": "Female",
	"Houre": "House", "Housr": "House", "Hourse": "House",
	"Numbsr": "Number", "Numbef": "Number", "Numbar": "Number",
}

// digitConfusions maps letters that OCR confuses with digits. Applied
// only inside tokens where a digit is structurally expected, so
// legitimate letters elsewhere are left alone.
var digitConfusions = map[rune]rune{
	'O': '0', 'o': '0',
	'I': '1', 'l': '1',
	'S': '5',
	'B': '8',
	'Z': '2',
}

// digitContextRe matches label-prefixed tokens where only digits make
// sense: ages and serial numbers.
var digitContextRe = regexp.MustCompile(`(?i)\b(age|sl\s*no\.?|serial\s*no\.?)(\s*:?\s*)([0-9OoIlSBZ]+)\b`)

var (
	spaceRunRe    = regexp.MustCompile(`[ \t]+`)
	blankRunRe    = regexp.MustCompile(`\n{3,}`)
	colonSpacing  = regexp.MustCompile(`[ \t]*:[ \t]*`)
	commaSpacing  = regexp.MustCompile(`[ \t]*,[ \t]*`)
	trailingSpace = regexp.MustCompile(`[ \t]+\n`)
)

// wordRule is one compiled word correction.
type wordRule struct {
	re          *regexp.Regexp
	replacement string
}

// Normalizer applies the cleanup chain. Construct once, reuse freely;
// it is read-only after construction.
type Normalizer struct {
	rules []wordRule
}

// New builds a normalizer. A nil or empty wordCorrections uses the
// built-in table.
func New(wordCorrections map[string]string) *Normalizer {
	table := wordCorrections
	if len(table) == 0 {
		table = defaultWordTable
	}

	// Deterministic rule ordering regardless of map iteration.
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rules := make([]wordRule, 0, len(keys))
	for _, k := range keys {
		rules = append(rules, wordRule{
			re:          regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(k) + `\b`),
			replacement: table[k],
		})
	}
	return &Normalizer{rules: rules}
}

// Normalize cleans text. Equivalent to Apply but discards the
// correction count.
func (n *Normalizer) Normalize(text string) string {
	out, _ := n.Apply(text)
	return out
}

// Apply cleans text and reports how many corrections (word fixes plus
// character substitutions) were made.
func (n *Normalizer) Apply(text string) (string, int) {
	if text == "" {
		return "", 0
	}

	corrections := 0

	out := stripNonPrintable(text)

	for _, rule := range n.rules {
		out = rule.re.ReplaceAllStringFunc(out, func(string) string {
			corrections++
			return rule.replacement
		})
	}

	out = digitContextRe.ReplaceAllStringFunc(out, func(m string) string {
		sub := digitContextRe.FindStringSubmatch(m)
		token := []rune(sub[3])
		for i, r := range token {
			if d, ok := digitConfusions[r]; ok {
				token[i] = d
				corrections++
			}
		}
		return sub[1] + sub[2] + string(token)
	})

	out = spaceRunRe.ReplaceAllString(out, " ")
	out = colonSpacing.ReplaceAllString(out, ": ")
	out = commaSpacing.ReplaceAllString(out, ", ")
	out = trailingSpace.ReplaceAllString(out, "\n")
	out = blankRunRe.ReplaceAllString(out, "\n\n")
	out = strings.TrimSpace(out)

	return out, corrections
}

// stripNonPrintable removes control characters and other recognition
// artifacts, keeping newlines and converting tabs to spaces.
func stripNonPrintable(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n':
			b.WriteRune(r)
		case r == '\t':
			b.WriteRune(' ')
		case r == '\r':
			// dropped; \r\n collapses to \n
		case unicode.IsPrint(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
