// Package recognize runs the OCR engine under multiple strategies per
// page and selects the best textual result.
package recognize

import (
	"context"
	"image"

	"github.com/voterroll/extractor/internal/domain"
	"github.com/voterroll/extractor/internal/extract"
	"github.com/voterroll/extractor/internal/observability"
	"github.com/voterroll/extractor/internal/ocr"
)

// Strategy is one distinct recognition configuration: which image
// variant to submit and which Tesseract page segmentation mode to
// assume.
type Strategy struct {
	Name         string
	UseProcessed bool
	PSM          int
}

// DefaultStrategies returns the ordered strategy list. Order matters
// for determinism; it never changes between runs.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "processed-block", UseProcessed: true, PSM: 6},
		{Name: "processed-column", UseProcessed: true, PSM: 4},
		{Name: "processed-sparse", UseProcessed: true, PSM: 11},
		{Name: "original-block", UseProcessed: false, PSM: 6},
	}
}

// Recognizer invokes the engine once per strategy and picks the
// attempt scoring highest under the structural probe.
type Recognizer struct {
	engine     ocr.Engine
	strategies []Strategy
	languages  []string
	dpi        int
	logger     *observability.Logger
}

// NewRecognizer builds a recognizer. Nil strategies use the defaults.
func NewRecognizer(engine ocr.Engine, strategies []Strategy, languages []string, dpi int, logger *observability.Logger) *Recognizer {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	if logger == nil {
		logger = observability.Nop()
	}
	return &Recognizer{
		engine:     engine,
		strategies: strategies,
		languages:  languages,
		dpi:        dpi,
		logger:     logger.WithComponent("recognizer"),
	}
}

// Recognize runs every strategy against the page and returns the best
// text plus all attempts. A strategy failure contributes an empty
// attempt rather than aborting; if every strategy yields empty text the
// best text is "" and the caller flags the page zero-yield. The only
// error returned is context cancellation.
func (r *Recognizer) Recognize(ctx context.Context, processed, original image.Image, pageIndex int) (string, []domain.RecognitionAttempt, error) {
	attempts := make([]domain.RecognitionAttempt, 0, len(r.strategies))

	for _, s := range r.strategies {
		select {
		case <-ctx.Done():
			return "", attempts, ctx.Err()
		default:
		}

		img := original
		if s.UseProcessed {
			img = processed
		}
		if img == nil {
			attempts = append(attempts, domain.RecognitionAttempt{Strategy: s.Name})
			continue
		}

		text, err := r.runStrategy(ctx, img, pageIndex, s)
		if err != nil {
			r.logger.Warn().
				Int("page", pageIndex).
				Str("strategy", s.Name).
				Err(err).
				Msg("strategy failed, continuing with remaining strategies")
			text = ""
		}

		attempts = append(attempts, domain.RecognitionAttempt{
			Strategy: s.Name,
			Text:     text,
			Score:    extract.Probe(text),
		})
	}

	best := Select(attempts)
	if best == "" {
		r.logger.Warn().Int("page", pageIndex).Msg("no strategy produced text, page is zero-yield")
	}
	return best, attempts, nil
}

func (r *Recognizer) runStrategy(ctx context.Context, img image.Image, pageIndex int, s Strategy) (string, error) {
	in, err := ocr.NewInput(img, pageIndex,
		ocr.WithPSM(s.PSM),
		ocr.WithLanguages(r.languages...),
		ocr.WithDPI(r.dpi),
	)
	if err != nil {
		return "", err
	}
	res, err := r.engine.Recognize(ctx, in)
	if err != nil {
		return "", domain.RecognitionError("engine "+r.engine.Name()+", strategy "+s.Name, err)
	}
	return res.PlainText, nil
}

// Select picks the attempt with the highest structural-probe score,
// breaking ties by total text length. Deterministic: on a full tie the
// earlier attempt wins.
func Select(attempts []domain.RecognitionAttempt) string {
	best := ""
	bestScore, bestLen := -1, -1
	for _, a := range attempts {
		score := a.Score
		if score > bestScore || (score == bestScore && len(a.Text) > bestLen) {
			best = a.Text
			bestScore = score
			bestLen = len(a.Text)
		}
	}
	return best
}
