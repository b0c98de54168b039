package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine implements Engine using the gosseract client.
type TesseractEngine struct {
	clientFactory  func() *gosseract.Client
	tessdataPrefix string
}

// TesseractOption configures the engine at construction time.
type TesseractOption func(*TesseractEngine)

// WithTessdataPrefix points Tesseract at a trained-data directory.
func WithTessdataPrefix(prefix string) TesseractOption {
	return func(e *TesseractEngine) { e.tessdataPrefix = prefix }
}

// NewTesseractEngine constructs a Tesseract-backed OCR engine.
func NewTesseractEngine(opts ...TesseractOption) *TesseractEngine {
	e := &TesseractEngine{clientFactory: gosseract.NewClient}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *TesseractEngine) Name() string { return "tesseract" }

// Recognize performs OCR on a single image input. A fresh client is
// created per call; gosseract clients are not safe to share.
func (e *TesseractEngine) Recognize(ctx context.Context, in Input) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	default:
	}

	c := e.clientFactory()
	defer c.Close()

	if e.tessdataPrefix != "" {
		if err := c.SetTessdataPrefix(e.tessdataPrefix); err != nil {
			return Result{}, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := c.SetImageFromBytes(in.Image); err != nil {
		return Result{}, fmt.Errorf("set image: %w", err)
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return Result{}, fmt.Errorf("set languages: %w", err)
		}
	}
	if in.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(in.DPI)); err != nil {
			return Result{}, fmt.Errorf("set dpi: %w", err)
		}
	}
	for k, v := range in.Metadata {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return Result{}, fmt.Errorf("set variable %s: %w", k, err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return Result{}, fmt.Errorf("recognize text: %w", err)
	}

	return Result{InputID: in.ID, PlainText: strings.TrimSpace(text)}, nil
}
