package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePDFPath(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "roll.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.4"), 0o644))
	txtPath := filepath.Join(dir, "roll.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("text"), 0o644))

	v := NewValidator()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid pdf", pdfPath, false},
		{"empty path", "  ", true},
		{"missing file", filepath.Join(dir, "missing.pdf"), true},
		{"directory", dir, true},
		{"wrong extension", txtPath, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidatePDFPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDPI(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateDPI(300))
	assert.NoError(t, v.ValidateDPI(600))
	assert.Error(t, v.ValidateDPI(50))
	assert.Error(t, v.ValidateDPI(2400))
}
