package extract

import (
	"regexp"
	"strings"

	"github.com/voterroll/extractor/internal/domain"
)

// Roll-header patterns, loosest last. Headers only appear on the first
// pages, so callers gate how many pages they scan.
var constituencyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)Assembly\s+Constituency.*?(\d+).*?[-–—]\s*([A-Z][A-Z ()]+?)(?:Part|GENERAL|\n|$)`),
	regexp.MustCompile(`(?is)Constituency.*?(\d+).*?[-–—]\s*([A-Z][A-Z ()]+?)(?:Part|GENERAL|\n|$)`),
	regexp.MustCompile(`(?i)(\d{2,3})\s*[-–—]\s*([A-Z][A-Z ()]{5,}?)(?:Part|GENERAL|\n|$)`),
}

var partPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Part\s+No\.?\s*:?\s*(\d+)`),
	regexp.MustCompile(`(?i)Part\s+Number\s*:?\s*(\d+)`),
	regexp.MustCompile(`(?i)Part\s*:\s*(\d+)`),
}

var locationPatterns = map[string]*regexp.Regexp{
	"district":    regexp.MustCompile(`(?i)District\s*:?\s*([A-Z][A-Z ]+?)(?:\s*\d|\s*Pin|\n|$)`),
	"subdivision": regexp.MustCompile(`(?i)Subdivision\s*:?\s*([A-Z][A-Z ]+?)(?:\s*District|\n|$)`),
	"tehsil":      regexp.MustCompile(`(?i)Tehsil\s*:?\s*([A-Z][A-Z ]+?)(?:\n|$)`),
	"pin_code":    regexp.MustCompile(`(?i)Pin\s*code\s*:?\s*(\d{6})`),
}

// ExtractMetadata scans page text for roll-header fields. Missing
// fields stay empty; callers merge results across the header pages.
func ExtractMetadata(text string) domain.RollMetadata {
	var md domain.RollMetadata

	for _, re := range constituencyPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			md.ConstituencyNo = strings.TrimSpace(m[1])
			md.ConstituencyName = strings.TrimSpace(m[2])
			break
		}
	}

	for _, re := range partPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			md.PartNo = strings.TrimSpace(m[1])
			break
		}
	}

	for key, re := range locationPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		val := strings.TrimSpace(m[1])
		switch key {
		case "district":
			md.District = val
		case "subdivision":
			md.Subdivision = val
		case "tehsil":
			md.Tehsil = val
		case "pin_code":
			md.PinCode = val
		}
	}

	return md
}
