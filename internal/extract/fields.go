package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/voterroll/extractor/internal/domain"
)

// EPIC (voter photo identity card) number shapes seen on printed
// rolls: WB/24/161/375141, SVG2562940, MHD1759844.
var epicRes = []*regexp.Regexp{
	regexp.MustCompile(`\b[A-Z]{2,4}/\d+/\d+/\d+\b`),
	regexp.MustCompile(`\b[A-Z]{3}\d{7,10}\b`),
	regexp.MustCompile(`\b[A-Z]{2,4}\d{7,10}\b`),
}

var (
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Name\s*:\s*([A-Za-z .]+?)\s*(?:,|\n|$|(?:Father|Husband|Other|Age|House|Gender|Sl\b))`),
		regexp.MustCompile(`(?:^|\s)([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s*(?:Father|Husband|w/o|s/o|d/o)`),
	}

	relationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:Father|Husband|Other)(?:'?s)?(?:\s*Name)?\s*:\s*([A-Za-z .]+?)\s*(?:,|\n|$|(?:House|Age|Gender|Sl\b))`),
		regexp.MustCompile(`(?i)(?:w/o|s/o|d/o)\s*([A-Za-z .]+?)\s*(?:,|\n|$|(?:House|Age|Gender))`),
	}

	agePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Age\s*:?\s*(\d{1,3})`),
		regexp.MustCompile(`(?i)\b(\d{1,3})\s*years?\b`),
		regexp.MustCompile(`(?i)\b(\d{2})\s*(?:Gender|Male|Female)`),
	}

	genderRe = regexp.MustCompile(`(?i)\b(Male|Female|Third\s*Gender)\b`)

	housePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)House\s*(?:No\.?|Number)?\s*:\s*([A-Za-z0-9/\- ]+?)\s*(?:,|\n|$|(?:Age|Gender|Photo))`),
	}

	serialLabelRe   = regexp.MustCompile(`(?i)\bSl\.?\s*No\.?\s*:?\s*(\d{1,4})\b`)
	leadingSerialRe = regexp.MustCompile(`^\s*(\d{1,4})[.)]?\s+`)
)

// findEPIC returns the first voter-ID token in the text, if any.
func findEPIC(text string) string {
	for _, re := range epicRes {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// parseName extracts a plausible person name: 2-50 characters, no
// digits. Returns "" when nothing qualifies.
func parseName(text string) string {
	for _, re := range namePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if validName(name) {
			return name
		}
	}
	return ""
}

// parseRelation extracts the father/husband name.
func parseRelation(text string) string {
	for _, re := range relationPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		rel := strings.TrimSpace(m[1])
		if validName(rel) {
			return rel
		}
	}
	return ""
}

// parseAge extracts an age in the plausible voter range 18-120.
func parseAge(text string) int {
	for _, re := range agePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			age, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if age >= 18 && age <= 120 {
				return age
			}
		}
	}
	return 0
}

// parseGender maps gender words to the single-letter codes.
func parseGender(text string) string {
	m := genderRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	switch strings.ToLower(strings.Fields(m[1])[0]) {
	case "male":
		return domain.GenderMale
	case "female":
		return domain.GenderFemale
	default:
		return domain.GenderThird
	}
}

// parseHouse extracts a house/door number of reasonable length.
func parseHouse(text string) string {
	for _, re := range housePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		house := strings.TrimSpace(m[1])
		if house != "" && len(house) <= 30 {
			return house
		}
	}
	return ""
}

// parseSerial extracts a serial number from an "Sl No" label or a
// leading line number.
func parseSerial(text string) string {
	if m := serialLabelRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := leadingSerialRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func validName(name string) bool {
	if len(name) < 2 || len(name) > 50 {
		return false
	}
	return !strings.ContainsAny(name, "0123456789")
}

// parseFlexible runs every field parser over a text block and builds a
// record from whatever was recovered.
func parseFlexible(block string, pageIndex int) domain.VoterRecord {
	rec := domain.VoterRecord{
		SerialNo:          parseSerial(block),
		EPIC:              findEPIC(block),
		Name:              parseName(block),
		FatherHusbandName: parseRelation(block),
		HouseNo:           parseHouse(block),
		Age:               parseAge(block),
		Gender:            parseGender(block),
		PageIndex:         pageIndex,
	}
	rec.AgeGroup = domain.AgeGroupFor(rec.Age)
	return rec
}
