// Package domain contains the shared models and error types for the
// electoral-roll extraction pipeline.
package domain

import (
	"fmt"
	"image"
	"strings"
	"time"
)

// Page is one unit of the source document. It is created by the
// rasterizer and populated stage by stage as it moves through the
// pipeline. Only the stage currently operating on a page may mutate it.
type Page struct {
	// Index is the 1-based page number; ordering is stable across the run.
	Index int
	// Original is the untouched raster image produced by the rasterizer.
	Original image.Image
	// Processed is the preprocessed variant handed to the OCR engine.
	Processed image.Image
	// Attempts holds the raw text of every recognition strategy tried.
	Attempts []RecognitionAttempt
	// SelectedText is the best text chosen across all attempts.
	SelectedText string
	// NormalizedText is SelectedText after normalization.
	NormalizedText string
}

// RecognitionAttempt is one (page, strategy) pairing. Score is an
// internal selection heuristic, not an OCR confidence.
type RecognitionAttempt struct {
	Strategy string
	Text     string
	Score    int
}

// Gender codes as written to the spreadsheet.
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderThird  = "T"
)

// VoterRecord is the final structured output unit. Fields that could
// not be recovered are left at their zero value; an Age of 0 means the
// age was not recognized.
type VoterRecord struct {
	SerialNo          string
	EPIC              string
	Name              string
	FatherHusbandName string
	HouseNo           string
	Age               int
	Gender            string
	AgeGroup          string

	// PageIndex tags the record with its source page for debugging.
	PageIndex int
}

// HasIdentity reports whether the record carries at least one
// identifying field. Records without identity are dropped, never
// emitted as blank rows.
func (r VoterRecord) HasIdentity() bool {
	return strings.TrimSpace(r.Name) != "" || strings.TrimSpace(r.SerialNo) != ""
}

// IdentityKey is the per-page deduplication key (name + serial number).
func (r VoterRecord) IdentityKey() string {
	return fmt.Sprintf("%s|%s", strings.ToLower(strings.TrimSpace(r.Name)), strings.TrimSpace(r.SerialNo))
}

// AgeGroupFor buckets an age into the reporting groups used by the
// dashboard sheet.
func AgeGroupFor(age int) string {
	switch {
	case age <= 0:
		return ""
	case age < 18:
		return "Under 18"
	case age <= 29:
		return "18-29"
	case age <= 45:
		return "30-45"
	default:
		return "45+"
	}
}

// RollMetadata is document-level information recovered from the roll
// header on the first pages. It is attached to every record.
type RollMetadata struct {
	ConstituencyNo   string `json:"constituency_no,omitempty"`
	ConstituencyName string `json:"constituency_name,omitempty"`
	PartNo           string `json:"part_no,omitempty"`
	District         string `json:"district,omitempty"`
	Subdivision      string `json:"subdivision,omitempty"`
	Tehsil           string `json:"tehsil,omitempty"`
	PinCode          string `json:"pin_code,omitempty"`
}

// Merge fills empty fields of m from other without overwriting values
// that were already found.
func (m *RollMetadata) Merge(other RollMetadata) {
	if m.ConstituencyNo == "" {
		m.ConstituencyNo = other.ConstituencyNo
	}
	if m.ConstituencyName == "" {
		m.ConstituencyName = other.ConstituencyName
	}
	if m.PartNo == "" {
		m.PartNo = other.PartNo
	}
	if m.District == "" {
		m.District = other.District
	}
	if m.Subdivision == "" {
		m.Subdivision = other.Subdivision
	}
	if m.Tehsil == "" {
		m.Tehsil = other.Tehsil
	}
	if m.PinCode == "" {
		m.PinCode = other.PinCode
	}
}

// IsEmpty reports whether no header field was recovered.
func (m RollMetadata) IsEmpty() bool {
	return m == RollMetadata{}
}

// PageSummary is the per-page slice of the extraction summary.
type PageSummary struct {
	PageIndex           int      `json:"page_index"`
	Records             int      `json:"records"`
	StrategiesAttempted []string `json:"strategies_attempted"`
	SelectedStrategy    string   `json:"selected_strategy,omitempty"`
	ZeroYield           bool     `json:"zero_yield"`
	UnmatchedSegments   int      `json:"unmatched_segments"`
	CorrectionsApplied  int      `json:"corrections_applied"`
}

// ExtractionSummary is the aggregate run report written once, at the
// end, to the debug bundle.
type ExtractionSummary struct {
	RunID          string        `json:"run_id"`
	StartedAt      time.Time     `json:"started_at"`
	CompletedAt    time.Time     `json:"completed_at"`
	SourcePath     string        `json:"source_path"`
	DPI            int           `json:"dpi"`
	TotalPages     int           `json:"total_pages"`
	TotalRecords   int           `json:"total_records"`
	ZeroYieldPages []int         `json:"zero_yield_pages"`
	Metadata       RollMetadata  `json:"metadata"`
	Pages          []PageSummary `json:"pages"`
}

// AddPage records a page summary, keeping Pages ordered by page index
// and the zero-yield list in sync.
func (s *ExtractionSummary) AddPage(ps PageSummary) {
	s.Pages = append(s.Pages, ps)
	s.TotalRecords += ps.Records
	if ps.ZeroYield {
		s.ZeroYieldPages = append(s.ZeroYieldPages, ps.PageIndex)
	}
}
