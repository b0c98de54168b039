// Package imaging applies deterministic image transforms that improve
// OCR accuracy on scanned pages.
package imaging

import (
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/voterroll/extractor/internal/observability"
)

// Default tuning. Contrast and sharpening amounts were tuned against
// real electoral-roll scans; they are fixed configuration, not knobs
// exposed per run.
const (
	defaultContrastFactor = 1.5
	defaultSharpenAmount  = 1.0
	DefaultMinWidth       = 1500
)

// Preprocessor runs the fixed transform chain: grayscale, contrast
// normalization, sharpening, and upscaling of small images. It is a
// pure function of the input image and its configuration.
type Preprocessor struct {
	minWidth       int
	contrastFactor float64
	sharpenAmount  float64
	logger         *observability.Logger
}

// NewPreprocessor creates a preprocessor that upscales images narrower
// than minWidth. A minWidth of zero disables upscaling.
func NewPreprocessor(minWidth int, logger *observability.Logger) *Preprocessor {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Preprocessor{
		minWidth:       minWidth,
		contrastFactor: defaultContrastFactor,
		sharpenAmount:  defaultSharpenAmount,
		logger:         logger.WithComponent("preprocessor"),
	}
}

// Preprocess applies the transform chain to one page image. If any
// transform fails the original image is returned unmodified; a bad
// page must not halt the run, so the failure is logged, not raised.
func (p *Preprocessor) Preprocess(img image.Image, pageIndex int) image.Image {
	if img == nil {
		p.logger.Warn().Int("page", pageIndex).Msg("nil image, skipping preprocessing")
		return img
	}

	transforms := []struct {
		name string
		fn   func(image.Image) (image.Image, error)
	}{
		{"grayscale", grayscale},
		{"contrast", p.contrast},
		{"sharpen", p.sharpen},
		{"upscale", p.upscale},
	}

	out := img
	for _, tr := range transforms {
		next, err := tr.fn(out)
		if err != nil {
			p.logger.Warn().
				Int("page", pageIndex).
				Str("transform", tr.name).
				Err(err).
				Msg("transform failed, returning original image")
			return img
		}
		out = next
	}
	return out
}

// grayscale reduces the image to 8-bit luminance.
func grayscale(img image.Image) (image.Image, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("empty image bounds")
	}
	if g, ok := img.(*image.Gray); ok {
		return g, nil
	}
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return out, nil
}

// contrast stretches pixel values away from the image's mean luminance.
func (p *Preprocessor) contrast(img image.Image) (image.Image, error) {
	gray, ok := img.(*image.Gray)
	if !ok {
		return nil, fmt.Errorf("contrast expects a grayscale image, got %T", img)
	}
	b := gray.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("empty image bounds")
	}

	var sum uint64
	for _, px := range gray.Pix {
		sum += uint64(px)
	}
	mean := float64(sum) / float64(len(gray.Pix))

	out := image.NewGray(b)
	for i, px := range gray.Pix {
		v := mean + (float64(px)-mean)*p.contrastFactor
		out.Pix[i] = clampByte(v)
	}
	return out, nil
}

// sharpen applies an unsharp mask using a 3x3 box blur.
func (p *Preprocessor) sharpen(img image.Image) (image.Image, error) {
	gray, ok := img.(*image.Gray)
	if !ok {
		return nil, fmt.Errorf("sharpen expects a grayscale image, got %T", img)
	}
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		// Nothing meaningful to sharpen.
		return gray, nil
	}

	out := image.NewGray(b)
	copy(out.Pix, gray.Pix)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			var acc int
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					acc += int(gray.Pix[(y+dy)*gray.Stride+(x+dx)])
				}
			}
			blur := float64(acc) / 9.0
			orig := float64(gray.Pix[y*gray.Stride+x])
			v := orig + p.sharpenAmount*(orig-blur)
			out.Pix[y*out.Stride+x] = clampByte(v)
		}
	}
	return out, nil
}

// upscale linearly enlarges images below the minimum width so small
// renders still OCR acceptably. Catmull-Rom matches the quality of the
// Lanczos-class resamplers used for scan work.
func (p *Preprocessor) upscale(img image.Image) (image.Image, error) {
	if p.minWidth <= 0 {
		return img, nil
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("empty image bounds")
	}
	w := b.Dx()
	if w >= p.minWidth {
		return img, nil
	}

	scale := float64(p.minWidth) / float64(w)
	newW := p.minWidth
	newH := int(float64(b.Dy()) * scale)
	if newH < 1 {
		return nil, fmt.Errorf("degenerate upscale target %dx%d", newW, newH)
	}

	out := image.NewGray(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(out, out.Bounds(), img, b, xdraw.Src, nil)
	return out, nil
}

func clampByte(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
