// Package pdf adapts go-fitz for rasterizing scanned documents into
// page images.
package pdf

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"

	"github.com/voterroll/extractor/internal/domain"
)

// PageImage is one rasterized page, ordered by its 1-based index.
type PageImage struct {
	Index int
	Image image.Image
}

// Rasterizer converts a PDF into an ordered sequence of page images at
// a configured resolution.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfPath string, dpi int) ([]PageImage, error)
}

// FitzRasterizer implements Rasterizer using go-fitz (MuPDF).
type FitzRasterizer struct {
	validator *Validator
}

// NewFitzRasterizer creates a new go-fitz backed rasterizer.
func NewFitzRasterizer() *FitzRasterizer {
	return &FitzRasterizer{validator: NewValidator()}
}

// Rasterize renders every page of the document at the given DPI. Any
// failure here is a conversion error, the only fatal class in the
// pipeline.
func (r *FitzRasterizer) Rasterize(ctx context.Context, pdfPath string, dpi int) ([]PageImage, error) {
	if err := r.validator.ValidatePDFPath(pdfPath); err != nil {
		return nil, err
	}
	if err := r.validator.ValidateDPI(dpi); err != nil {
		return nil, err
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, domain.ConversionError("failed to open PDF", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, domain.ConversionError("PDF has no pages", nil)
	}

	pages := make([]PageImage, 0, pageCount)
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.ImageDPI(pageNum, float64(dpi))
		if err != nil {
			return nil, domain.ConversionError(fmt.Sprintf("failed to render page %d", pageNum+1), err)
		}

		pages = append(pages, PageImage{Index: pageNum + 1, Image: img})
	}

	return pages, nil
}
