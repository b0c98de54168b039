// Package debugsink persists the debugging bundle: page images, raw
// recognized text and the extraction summary. The sink is an explicit
// capability handed to the pipeline so filesystem coupling stays
// visible; runs without debugging use the no-op sink.
package debugsink

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/voterroll/extractor/internal/domain"
)

// Sink receives debug artifacts as the pipeline produces them. Every
// method is independent: a failure in one artifact must not stop the
// caller from attempting the rest.
type Sink interface {
	WriteOriginalImage(pageIndex int, img image.Image) error
	WriteProcessedImage(pageIndex int, img image.Image) error
	WriteAttemptText(pageIndex int, strategy, text string) error
	WriteSelectedText(pageIndex int, text string) error
	WriteCombinedText(text string) error
	WriteSummary(summary *domain.ExtractionSummary) error
}

// FSSink writes artifacts into a directory.
type FSSink struct {
	dir string
}

// NewFSSink creates the output directory and returns a sink writing
// into it.
func NewFSSink(dir string) (*FSSink, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, domain.ValidationError("debug directory cannot be empty", nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, domain.IOError("create debug directory", err)
	}
	return &FSSink{dir: dir}, nil
}

// Dir returns the sink's output directory.
func (s *FSSink) Dir() string { return s.dir }

func (s *FSSink) WriteOriginalImage(pageIndex int, img image.Image) error {
	return s.writePNG(fmt.Sprintf("page_%03d_original.png", pageIndex), img)
}

func (s *FSSink) WriteProcessedImage(pageIndex int, img image.Image) error {
	return s.writePNG(fmt.Sprintf("page_%03d_processed.png", pageIndex), img)
}

func (s *FSSink) WriteAttemptText(pageIndex int, strategy, text string) error {
	name := fmt.Sprintf("page_%03d_raw_%s.txt", pageIndex, sanitize(strategy))
	return s.writeFile(name, []byte(text))
}

func (s *FSSink) WriteSelectedText(pageIndex int, text string) error {
	return s.writeFile(fmt.Sprintf("page_%03d_selected.txt", pageIndex), []byte(text))
}

func (s *FSSink) WriteCombinedText(text string) error {
	return s.writeFile("all_pages_combined_text.txt", []byte(text))
}

func (s *FSSink) WriteSummary(summary *domain.ExtractionSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return domain.IOError("marshal extraction summary", err)
	}
	return s.writeFile("extraction_summary.json", data)
}

func (s *FSSink) writePNG(name string, img image.Image) error {
	if img == nil {
		return domain.ValidationError("nil image for "+name, nil)
	}
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return domain.IOError("create "+name, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return domain.IOError("encode "+name, err)
	}
	return nil
}

func (s *FSSink) writeFile(name string, data []byte) error {
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return domain.IOError("write "+name, err)
	}
	return nil
}

// sanitize keeps strategy names filesystem-safe.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

// NopSink discards every artifact.
type NopSink struct{}

func (NopSink) WriteOriginalImage(int, image.Image) error    { return nil }
func (NopSink) WriteProcessedImage(int, image.Image) error   { return nil }
func (NopSink) WriteAttemptText(int, string, string) error   { return nil }
func (NopSink) WriteSelectedText(int, string) error          { return nil }
func (NopSink) WriteCombinedText(string) error               { return nil }
func (NopSink) WriteSummary(*domain.ExtractionSummary) error { return nil }
