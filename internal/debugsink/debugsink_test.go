package debugsink

import (
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voterroll/extractor/internal/domain"
)

func TestFSSink_WritesAllArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "debug")
	sink, err := NewFSSink(dir)
	require.NoError(t, err)

	img := image.NewGray(image.Rect(0, 0, 4, 4))
	require.NoError(t, sink.WriteOriginalImage(1, img))
	require.NoError(t, sink.WriteProcessedImage(1, img))
	require.NoError(t, sink.WriteAttemptText(1, "processed-block", "raw text"))
	require.NoError(t, sink.WriteSelectedText(1, "best text"))
	require.NoError(t, sink.WriteCombinedText("page one\n\npage two"))
	require.NoError(t, sink.WriteSummary(&domain.ExtractionSummary{RunID: "r1", TotalPages: 2}))

	for _, name := range []string{
		"page_001_original.png",
		"page_001_processed.png",
		"page_001_raw_processed-block.txt",
		"page_001_selected.txt",
		"all_pages_combined_text.txt",
		"extraction_summary.json",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "expected artifact %s", name)
	}

	data, err := os.ReadFile(filepath.Join(dir, "extraction_summary.json"))
	require.NoError(t, err)
	var got domain.ExtractionSummary
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "r1", got.RunID)
	assert.Equal(t, 2, got.TotalPages)
}

func TestFSSink_SanitizesStrategyNames(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFSSink(dir)
	require.NoError(t, err)

	require.NoError(t, sink.WriteAttemptText(2, "weird/../name", "x"))
	_, err = os.Stat(filepath.Join(dir, "page_002_raw_weird____name.txt"))
	assert.NoError(t, err)
}

func TestFSSink_NilImageRejectedWithoutPanic(t *testing.T) {
	sink, err := NewFSSink(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, sink.WriteOriginalImage(1, nil))
}

func TestNewFSSink_EmptyDir(t *testing.T) {
	_, err := NewFSSink("  ")
	assert.Error(t, err)
}

func TestNopSink(t *testing.T) {
	var sink Sink = NopSink{}
	assert.NoError(t, sink.WriteOriginalImage(1, nil))
	assert.NoError(t, sink.WriteCombinedText("x"))
	assert.NoError(t, sink.WriteSummary(nil))
}
