package domain

import (
	"errors"
	"testing"
)

func TestVoterRecord_HasIdentity(t *testing.T) {
	tests := []struct {
		name   string
		record VoterRecord
		want   bool
	}{
		{
			name:   "name only",
			record: VoterRecord{Name: "Anita Das"},
			want:   true,
		},
		{
			name:   "serial only",
			record: VoterRecord{SerialNo: "42"},
			want:   true,
		},
		{
			name:   "whitespace name is not identity",
			record: VoterRecord{Name: "   "},
			want:   false,
		},
		{
			name:   "all empty",
			record: VoterRecord{Age: 30, Gender: GenderFemale},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.HasIdentity(); got != tt.want {
				t.Errorf("HasIdentity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVoterRecord_IdentityKey(t *testing.T) {
	a := VoterRecord{Name: "Anita Das", SerialNo: "1"}
	b := VoterRecord{Name: " anita das ", SerialNo: "1"}
	if a.IdentityKey() != b.IdentityKey() {
		t.Errorf("keys should match after trimming and case folding: %q vs %q", a.IdentityKey(), b.IdentityKey())
	}

	c := VoterRecord{Name: "Anita Das", SerialNo: "2"}
	if a.IdentityKey() == c.IdentityKey() {
		t.Error("different serial numbers must produce different keys")
	}
}

func TestAgeGroupFor(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{0, ""},
		{-3, ""},
		{17, "Under 18"},
		{18, "18-29"},
		{29, "18-29"},
		{30, "30-45"},
		{45, "30-45"},
		{46, "45+"},
		{99, "45+"},
	}

	for _, tt := range tests {
		if got := AgeGroupFor(tt.age); got != tt.want {
			t.Errorf("AgeGroupFor(%d) = %q, want %q", tt.age, got, tt.want)
		}
	}
}

func TestRollMetadata_Merge(t *testing.T) {
	m := RollMetadata{PartNo: "12"}
	m.Merge(RollMetadata{PartNo: "99", District: "HOOGHLY"})

	if m.PartNo != "12" {
		t.Errorf("Merge must not overwrite existing values, got PartNo %q", m.PartNo)
	}
	if m.District != "HOOGHLY" {
		t.Errorf("Merge should fill empty fields, got District %q", m.District)
	}
}

func TestExtractionSummary_AddPage(t *testing.T) {
	var s ExtractionSummary
	s.AddPage(PageSummary{PageIndex: 1, Records: 3})
	s.AddPage(PageSummary{PageIndex: 2, ZeroYield: true})

	if s.TotalRecords != 3 {
		t.Errorf("TotalRecords = %d, want 3", s.TotalRecords)
	}
	if len(s.ZeroYieldPages) != 1 || s.ZeroYieldPages[0] != 2 {
		t.Errorf("ZeroYieldPages = %v, want [2]", s.ZeroYieldPages)
	}
}

func TestDomainError_CodeOf(t *testing.T) {
	err := ConversionError("failed to open PDF", errors.New("bad xref"))
	if CodeOf(err) != ErrCodeConversion {
		t.Errorf("CodeOf = %q, want %q", CodeOf(err), ErrCodeConversion)
	}

	wrapped := IOError("write artifact", err)
	if CodeOf(wrapped) != ErrCodeIO {
		t.Errorf("outermost code wins, got %q", CodeOf(wrapped))
	}

	if CodeOf(errors.New("plain")) != "" {
		t.Error("non-domain errors must map to the empty code")
	}
}
