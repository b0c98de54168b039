// Package ocr defines the recognition engine contract and its
// Tesseract implementation. The engine is a black box: image in,
// text out.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strconv"
)

// Input encapsulates a single image submitted for recognition.
type Input struct {
	// ID is an optional caller-provided identifier echoed back in logs.
	ID string
	// Image is the PNG-encoded payload.
	Image []byte
	// PageIndex links the input back to the 1-based source page.
	PageIndex int
	// DPI carries the effective dots-per-inch; zero means unknown.
	DPI int
	// Languages lists trained-data hints (e.g. "eng").
	Languages []string
	// Metadata passes engine-specific knobs (e.g. Tesseract's
	// "tessedit_pageseg_mode") without hard-coding them into the API.
	Metadata map[string]string
}

// Result captures recognition output for a single input image.
type Result struct {
	InputID   string
	PlainText string
}

// Engine is the recognition provider contract: one image in, one
// result out. Implementations must be safe for sequential reuse; the
// recognizer serializes calls per worker.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}

// InputOption mutates an OCR input before submission.
type InputOption func(*Input)

// WithLanguages sets language hints on the input.
func WithLanguages(langs ...string) InputOption {
	return func(in *Input) { in.Languages = append([]string(nil), langs...) }
}

// WithDPI overrides the DPI value on the input.
func WithDPI(dpi int) InputOption {
	return func(in *Input) { in.DPI = dpi }
}

// WithPSM sets the Tesseract page segmentation mode variable.
func WithPSM(mode int) InputOption {
	return func(in *Input) {
		if in.Metadata == nil {
			in.Metadata = make(map[string]string)
		}
		in.Metadata["tessedit_pageseg_mode"] = strconv.Itoa(mode)
	}
}

// NewInput PNG-encodes a page image and applies the given options.
func NewInput(img image.Image, pageIndex int, opts ...InputOption) (Input, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Input{}, fmt.Errorf("encode page %d: %w", pageIndex, err)
	}
	in := Input{
		ID:        fmt.Sprintf("page-%d", pageIndex),
		Image:     buf.Bytes(),
		PageIndex: pageIndex,
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in, nil
}
