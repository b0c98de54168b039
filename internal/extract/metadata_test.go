package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMetadata_Constituency(t *testing.T) {
	text := "Assembly Constituency No 161 - DHANIAKHALI (SC) Part No: 42"

	md := ExtractMetadata(text)
	assert.Equal(t, "161", md.ConstituencyNo)
	assert.Contains(t, md.ConstituencyName, "DHANIAKHALI")
	assert.Equal(t, "42", md.PartNo)
}

func TestExtractMetadata_Location(t *testing.T) {
	text := "District: HOOGHLY\nSubdivision: CHINSURAH\nPin code: 712103"

	md := ExtractMetadata(text)
	assert.Equal(t, "HOOGHLY", md.District)
	assert.Equal(t, "CHINSURAH", md.Subdivision)
	assert.Equal(t, "712103", md.PinCode)
}

func TestExtractMetadata_NothingFound(t *testing.T) {
	md := ExtractMetadata("no header content here")
	assert.True(t, md.IsEmpty())
}
