package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voterroll/extractor/internal/domain"
)

func newTestExtractor() *Extractor {
	return NewExtractor(nil, nil)
}

func TestExtract_StrictLayout(t *testing.T) {
	e := newTestExtractor()

	text := "Name: Anita Das, Father: Ram Das, Age: 30, Gender: Female, Sl No: 1\n" +
		"Name: Ravi Kumar, Age: 45, Sl No: 2"

	records, unmatched := e.Extract(text, 1)
	require.Len(t, records, 2)
	assert.Zero(t, unmatched)

	assert.Equal(t, "Anita Das", records[0].Name)
	assert.Equal(t, "Ram Das", records[0].FatherHusbandName)
	assert.Equal(t, 30, records[0].Age)
	assert.Equal(t, domain.GenderFemale, records[0].Gender)
	assert.Equal(t, "1", records[0].SerialNo)
	assert.Equal(t, "18-29", domain.AgeGroupFor(29))
	assert.Equal(t, "30-45", records[0].AgeGroup)

	assert.Equal(t, "Ravi Kumar", records[1].Name)
	assert.Equal(t, "2", records[1].SerialNo)
	assert.Empty(t, records[1].Gender)
}

func TestExtract_StrictMinimalLine(t *testing.T) {
	e := newTestExtractor()

	records, unmatched := e.Extract("Name: A, Age: 30, Sl No: 1", 1)
	require.Len(t, records, 1)
	assert.Zero(t, unmatched)
	assert.Equal(t, "A", records[0].Name)
	assert.Equal(t, 30, records[0].Age)
	assert.Equal(t, "1", records[0].SerialNo)
}

func TestExtract_KeywordFallback(t *testing.T) {
	e := newTestExtractor()

	// Out-of-order fields with no comma discipline: the strict matcher
	// refuses this, the keyword matcher picks it up.
	text := "Age: 52 Gender: Male Name: Sunil Mondal House No: 14/B"

	records, unmatched := e.Extract(text, 2)
	require.Len(t, records, 1)
	assert.Zero(t, unmatched)
	assert.Equal(t, "Sunil Mondal", records[0].Name)
	assert.Equal(t, 52, records[0].Age)
	assert.Equal(t, domain.GenderMale, records[0].Gender)
	assert.Equal(t, "14/B", records[0].HouseNo)
	assert.Equal(t, 2, records[0].PageIndex)
}

func TestExtract_KeywordMultipleRecords(t *testing.T) {
	e := newTestExtractor()

	text := "Name: Anita Das Age: 30 Gender: Female " +
		"Name: Ravi Kumar Age: 45 Gender: Male"

	records, _ := e.Extract(text, 1)
	require.Len(t, records, 2)
	assert.Equal(t, "Anita Das", records[0].Name)
	assert.Equal(t, "Ravi Kumar", records[1].Name)
}

func TestExtract_HeuristicEPICBlocks(t *testing.T) {
	e := newTestExtractor()

	// No Name: labels at all; blocks are bounded by EPIC tokens and
	// names sit before the relation marker.
	text := "1 Anita Das w/o Ram Das 30 years SVG2562940 " +
		"2 Ravi Kumar s/o Shyam Kumar 45 years MHD1759844"

	records, unmatched := e.Extract(text, 3)
	require.Len(t, records, 2)
	assert.Zero(t, unmatched)
	assert.Equal(t, "SVG2562940", records[0].EPIC)
	assert.Equal(t, "Anita Das", records[0].Name)
	assert.Equal(t, "MHD1759844", records[1].EPIC)
}

func TestExtract_HeuristicDenseEPICBlocksKeepOwnID(t *testing.T) {
	e := newTestExtractor()

	// Records packed tighter than the block preamble: each block must
	// still carry its own ID, not the preceding voter's.
	text := "1 Anita Das w/o Ram Das 30 years SVG2562940 " +
		"2 Ravi Kumar s/o Shyam Kumar 45 years MHD1759844 " +
		"3 Sunil Mondal s/o Ajit Mondal 52 years WBK2287640"

	records, unmatched := e.Extract(text, 1)
	require.Len(t, records, 3)
	assert.Zero(t, unmatched)

	assert.Equal(t, "SVG2562940", records[0].EPIC)
	assert.Equal(t, "MHD1759844", records[1].EPIC)
	assert.Equal(t, "WBK2287640", records[2].EPIC)

	assert.Equal(t, "Ravi Kumar", records[1].Name)
	assert.Equal(t, "2", records[1].SerialNo)
	assert.Equal(t, "Sunil Mondal", records[2].Name)
	assert.Equal(t, "3", records[2].SerialNo)
}

func TestExtract_KeywordSerialBeforeLabel(t *testing.T) {
	e := newTestExtractor()

	// Serials printed just before each Name label: the second chunk
	// must reach back across the label boundary for its serial.
	text := "1 Name: Anita Das Age: 30 2 Name: Ravi Kumar Age: 45"

	records, _ := e.Extract(text, 1)
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0].SerialNo)
	assert.Equal(t, "Anita Das", records[0].Name)
	assert.Equal(t, "2", records[1].SerialNo)
	assert.Equal(t, "Ravi Kumar", records[1].Name)
}

func TestExtract_KeywordFieldValueNotTakenAsSerial(t *testing.T) {
	e := newTestExtractor()

	// The number before the second label is the previous record's age
	// value, not a serial; it must stay where it is.
	text := "Name: Anita Das Age: 30 Name: Ravi Kumar Age: 45 Gender: Male"

	records, _ := e.Extract(text, 1)
	require.Len(t, records, 2)
	assert.Empty(t, records[1].SerialNo)
	assert.Equal(t, 30, records[0].Age)
	assert.Equal(t, 45, records[1].Age)
}

func TestExtract_UnmatchedSegmentCounted(t *testing.T) {
	e := newTestExtractor()

	text := "Name: Anita Das, Age: 30, Sl No: 1\n\n" +
		"zx9 qq--- ## garbled noise without any structure"

	records, unmatched := e.Extract(text, 1)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, unmatched)
}

func TestExtract_DeduplicatesByNameAndSerial(t *testing.T) {
	e := newTestExtractor()

	text := "Name: Anita Das, Age: 30, Sl No: 1\n" +
		"Name: Anita Das, Age: 30, Sl No: 1"

	records, _ := e.Extract(text, 1)
	assert.Len(t, records, 1, "identical name+serial must collapse to one record")
}

func TestExtract_SameNameDifferentSerialKept(t *testing.T) {
	e := newTestExtractor()

	text := "Name: Anita Das, Age: 30, Sl No: 1\n" +
		"Name: Anita Das, Age: 60, Sl No: 7"

	records, _ := e.Extract(text, 1)
	assert.Len(t, records, 2)
}

func TestExtract_NeverEmitsBlankRecords(t *testing.T) {
	e := newTestExtractor()

	// Age and gender alone carry no identity.
	records, _ := e.Extract("Age: 30 Gender: Male", 1)
	for _, rec := range records {
		assert.True(t, rec.HasIdentity(), "record without name or serial must be dropped: %+v", rec)
	}
}

func TestExtract_EmptyText(t *testing.T) {
	e := newTestExtractor()

	records, unmatched := e.Extract("   \n  ", 1)
	assert.Empty(t, records)
	assert.Zero(t, unmatched)
}

func TestExtract_MixedSegmentsUseDifferentMatchers(t *testing.T) {
	e := newTestExtractor()

	text := "Electoral Roll Name: Header Officer Age: 99\n\n" +
		"Name: Anita Das, Age: 30, Sl No: 1\nName: Ravi Kumar, Age: 45, Sl No: 2"

	records, _ := e.Extract(text, 1)
	// Header segment parses loosely, the table strictly.
	assert.GreaterOrEqual(t, len(records), 2)
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"no structure", "lorem ipsum\ndolor sit", 0},
		{"name labels", "Name: A\nName: B\njunk", 2},
		{"epic tokens", "SVG2562940\nWB/24/161/375141", 2},
		{"mixed on one line counts once", "Name: A SVG2562940", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Probe(tt.text))
		})
	}
}

func TestMatcherPriorityOrder(t *testing.T) {
	chain := DefaultMatchers()
	require.Len(t, chain, 3)
	assert.Equal(t, "strict-layout", chain[0].Name())
	assert.Equal(t, "loose-keyword", chain[1].Name())
	assert.Equal(t, "heuristic-block", chain[2].Name())
}
