// Package extract parses normalized page text into structured voter
// records using a layered set of structural matchers.
package extract

import (
	"regexp"
	"strings"

	"github.com/voterroll/extractor/internal/domain"
	"github.com/voterroll/extractor/internal/observability"
)

// Extractor tries each matcher per contiguous segment, most strict
// first, and keeps the first matcher's yield. Records are deduplicated
// within a page by identifying-field equality.
type Extractor struct {
	matchers []Matcher
	logger   *observability.Logger
}

// NewExtractor builds an extractor with the given matcher chain. A nil
// chain uses DefaultMatchers.
func NewExtractor(matchers []Matcher, logger *observability.Logger) *Extractor {
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}
	if logger == nil {
		logger = observability.Nop()
	}
	return &Extractor{matchers: matchers, logger: logger.WithComponent("extractor")}
}

var segmentSplitRe = regexp.MustCompile(`\n{2,}`)

// Extract parses normalized text into voter records. It returns the
// deduplicated records and the number of segments no matcher could
// handle. A zero-record result is not an error; it is reported in the
// run summary instead.
func (e *Extractor) Extract(normalizedText string, pageIndex int) ([]domain.VoterRecord, int) {
	text := strings.TrimSpace(normalizedText)
	if text == "" {
		return nil, 0
	}

	unmatched := 0
	var all []domain.VoterRecord

	for _, segment := range segmentSplitRe.Split(text, -1) {
		if strings.TrimSpace(segment) == "" {
			continue
		}

		matched := false
		for _, m := range e.matchers {
			records := m.TryMatch(segment, pageIndex)
			if len(records) == 0 {
				continue
			}
			e.logger.Debug().
				Int("page", pageIndex).
				Str("matcher", m.Name()).
				Int("records", len(records)).
				Msg("segment matched")
			all = append(all, records...)
			matched = true
			break
		}
		if !matched {
			unmatched++
			e.logger.Debug().
				Int("page", pageIndex).
				Int("segment_len", len(segment)).
				Msg("segment matched no structural pattern")
		}
	}

	return dedupe(all), unmatched
}

// dedupe drops identity-less records and keeps the first occurrence of
// each name+serial pair.
func dedupe(records []domain.VoterRecord) []domain.VoterRecord {
	if len(records) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(records))
	out := records[:0]
	for _, rec := range records {
		if !rec.HasIdentity() {
			continue
		}
		key := rec.IdentityKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rec)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// probeRe is the minimal record-shape pattern used only for scoring
// candidate texts during strategy selection, never for final records.
var probeRe = regexp.MustCompile(`(?i)Name\s*:|[A-Z]{2,4}/\d+/\d+/\d+|[A-Z]{3}\d{7,10}`)

// Probe counts lines that look like they could start a voter record.
// Pure and cheap; the multi-strategy recognizer ranks attempts by this
// count.
func Probe(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if probeRe.MatchString(line) {
			count++
		}
	}
	return count
}
