package extract

import (
	"regexp"
	"strings"

	"github.com/voterroll/extractor/internal/domain"
)

// Matcher is one structural pattern strategy. TryMatch returns the
// records found in a contiguous text segment, or an empty slice when
// the segment does not fit the matcher's shape. Matchers are tried in
// fixed priority order, most to least strict.
type Matcher interface {
	Name() string
	TryMatch(segment string, pageIndex int) []domain.VoterRecord
}

// strictLineRe encodes the known field ordering of a cleanly printed
// roll line: serial, Name, relation, house, Age, Gender, Sl No, EPIC,
// comma-delimited. Name and Age are mandatory; the rest optional.
var strictLineRe = regexp.MustCompile(`(?i)^\s*(?:(\d{1,4})[.)]?\s+)?Name\s*:\s*([A-Za-z .]+?)` +
	`(?:\s*,\s*(?:Father|Husband|Other)(?:'?s)?(?:\s*Name)?\s*:\s*([A-Za-z .]+?))?` +
	`(?:\s*,\s*House\s*(?:No\.?|Number)?\s*:\s*([A-Za-z0-9/\- ]+?))?` +
	`\s*,\s*Age\s*:\s*(\d{1,3})` +
	`(?:\s*,\s*Gender\s*:\s*(Male|Female|Third\s*Gender))?` +
	`(?:\s*,\s*Sl\.?\s*No\.?\s*:\s*(\d{1,4}))?` +
	`(?:\s*,\s*[A-Za-z/\d]+)?\s*$`)

// StrictLayoutMatcher recognizes one record per line in the canonical
// ordering. Highest precision, first in the chain.
type StrictLayoutMatcher struct{}

func (StrictLayoutMatcher) Name() string { return "strict-layout" }

func (StrictLayoutMatcher) TryMatch(segment string, pageIndex int) []domain.VoterRecord {
	var records []domain.VoterRecord
	for _, line := range strings.Split(segment, "\n") {
		m := strictLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		rec := domain.VoterRecord{
			SerialNo:          firstNonEmpty(m[7], m[1]),
			EPIC:              findEPIC(line),
			Name:              strings.TrimSpace(m[2]),
			FatherHusbandName: strings.TrimSpace(m[3]),
			HouseNo:           strings.TrimSpace(m[4]),
			Age:               parseAge("Age: " + m[5]),
			Gender:            parseGender(m[6]),
			PageIndex:         pageIndex,
		}
		rec.AgeGroup = domain.AgeGroupFor(rec.Age)
		if rec.HasIdentity() {
			records = append(records, rec)
		}
	}
	return records
}

var nameLabelSplitRe = regexp.MustCompile(`(?i)Name\s*:`)

// trailingSerialRe finds a bare serial token dangling at the end of
// the text between two Name labels: rolls often print the next serial
// just before the next record's label.
var trailingSerialRe = regexp.MustCompile(`(?:^|\s)(\d{1,4})[.)]?\s*$`)

// keywordHintRe gates keyword chunks: a chunk must mention at least one
// non-name field before it is treated as a record.
var keywordHintRe = regexp.MustCompile(`(?i)\b(age|gender|house|father|husband|sl\.?\s*no)\b`)

// LooseKeywordMatcher locates field values by proximity to label
// keywords regardless of ordering. Tolerant of missing delimiters.
type LooseKeywordMatcher struct{}

func (LooseKeywordMatcher) Name() string { return "loose-keyword" }

func (LooseKeywordMatcher) TryMatch(segment string, pageIndex int) []domain.VoterRecord {
	locs := nameLabelSplitRe.FindAllStringIndex(segment, -1)
	if len(locs) == 0 {
		return nil
	}

	var records []domain.VoterRecord
	for i, loc := range locs {
		end := len(segment)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		// Re-anchor the label so the field parsers see it, and pull in
		// a serial number printed just before the label. A dangling
		// number that is really the previous record's field value sits
		// after a colon, so those are left alone.
		prefixStart := loc[0]
		if i == 0 {
			prefixStart = 0
		} else {
			gap := segment[locs[i-1][1]:loc[0]]
			if m := trailingSerialRe.FindStringSubmatchIndex(gap); m != nil && !endsWithColon(gap[:m[2]]) {
				prefixStart = locs[i-1][1] + m[2]
			}
		}
		chunk := segment[prefixStart:end]

		if !keywordHintRe.MatchString(chunk) {
			continue
		}
		rec := parseFlexible(chunk, pageIndex)
		if rec.HasIdentity() {
			records = append(records, rec)
		}
	}
	return records
}

var leadingSerialLineRe = regexp.MustCompile(`(?m)^\s*\d{1,4}[.)]?\s+\S`)

// HeuristicBlockMatcher is the last resort: it carves the segment into
// blocks around voter-ID tokens (or serial-numbered lines) and keeps
// whatever field tokens it can classify.
type HeuristicBlockMatcher struct{}

func (HeuristicBlockMatcher) Name() string { return "heuristic-block" }

func (HeuristicBlockMatcher) TryMatch(segment string, pageIndex int) []domain.VoterRecord {
	blocks := splitByEPIC(segment)
	if len(blocks) == 0 {
		blocks = splitBySerialLines(segment)
	}
	if len(blocks) == 0 {
		blocks = []string{segment}
	}

	var records []domain.VoterRecord
	for _, block := range blocks {
		if len(strings.TrimSpace(block)) < 8 {
			continue
		}
		rec := parseFlexible(block, pageIndex)
		// A heuristic block with an EPIC but no name still gets a
		// serial from the EPIC-adjacent context; without any identity
		// it is discarded.
		if rec.HasIdentity() {
			records = append(records, rec)
		}
	}
	return records
}

// splitByEPIC carves text into blocks bounded by voter-ID tokens,
// keeping a short preamble before each ID (names print above the ID on
// most roll layouts).
func splitByEPIC(text string) []string {
	type span struct{ start, end int }
	var ids []span
	for _, re := range epicRes {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			ids = append(ids, span{loc[0], loc[1]})
		}
	}
	if len(ids) == 0 {
		return nil
	}
	// Order by position; overlapping matches from the looser patterns
	// collapse onto the first hit.
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[j].start < ids[i].start {
				ids[i], ids[j] = ids[j], ids[i]
			}
		}
	}
	dedup := ids[:1]
	for _, s := range ids[1:] {
		if s.start >= dedup[len(dedup)-1].end {
			dedup = append(dedup, s)
		}
	}

	const preamble = 50
	blocks := make([]string, 0, len(dedup))
	for i, s := range dedup {
		// The preamble must not reach past the previous ID, or this
		// block would pick up the previous voter's EPIC.
		start := s.start - preamble
		if i > 0 && start < dedup[i-1].end {
			start = dedup[i-1].end
		}
		if start < 0 {
			start = 0
		}
		end := len(text)
		if i+1 < len(dedup) {
			end = dedup[i+1].start
		}
		blocks = append(blocks, text[start:end])
	}
	return blocks
}

// splitBySerialLines groups lines into blocks starting at each
// serial-numbered line. Returns nil unless at least two boundaries
// exist, since one boundary carries no grouping signal.
func splitBySerialLines(text string) []string {
	locs := leadingSerialLineRe.FindAllStringIndex(text, -1)
	if len(locs) < 2 {
		return nil
	}
	blocks := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks = append(blocks, text[loc[0]:end])
	}
	return blocks
}

// DefaultMatchers returns the matcher chain in priority order.
func DefaultMatchers() []Matcher {
	return []Matcher{
		StrictLayoutMatcher{},
		LooseKeywordMatcher{},
		HeuristicBlockMatcher{},
	}
}

func endsWithColon(s string) bool {
	return strings.HasSuffix(strings.TrimRight(s, " \t"), ":")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
