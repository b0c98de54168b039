// Package pipeline orchestrates the page-parallel recognition-to-record
// flow: rasterize, preprocess, recognize, normalize, extract, then
// aggregate in page order.
package pipeline

import (
	"context"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/voterroll/extractor/internal/debugsink"
	"github.com/voterroll/extractor/internal/domain"
	"github.com/voterroll/extractor/internal/extract"
	"github.com/voterroll/extractor/internal/imaging"
	"github.com/voterroll/extractor/internal/normalize"
	"github.com/voterroll/extractor/internal/observability"
	"github.com/voterroll/extractor/internal/pdf"
	"github.com/voterroll/extractor/internal/recognize"
)

// headerPages is how many leading pages are scanned for roll-header
// metadata; headers never appear deeper into a roll.
const headerPages = 3

// Config holds pipeline tuning.
type Config struct {
	// DPI used for rasterization, recorded in the summary.
	DPI int
	// Workers caps concurrent page processing; recognition is the
	// expensive step, so this is the resource bound for the whole run.
	// Zero means GOMAXPROCS.
	Workers int
}

// Pipeline wires the stages together. Construct with NewPipeline;
// all collaborators are required except events.
type Pipeline struct {
	cfg          Config
	rasterizer   pdf.Rasterizer
	preprocessor *imaging.Preprocessor
	recognizer   *recognize.Recognizer
	normalizer   *normalize.Normalizer
	extractor    *extract.Extractor
	sink         debugsink.Sink
	logger       *observability.Logger
}

// Result is the aggregate outcome of one run.
type Result struct {
	Records []domain.VoterRecord
	Summary *domain.ExtractionSummary
}

// NewPipeline assembles a pipeline. A nil sink disables debug output.
func NewPipeline(
	cfg Config,
	rasterizer pdf.Rasterizer,
	preprocessor *imaging.Preprocessor,
	recognizer *recognize.Recognizer,
	normalizer *normalize.Normalizer,
	extractor *extract.Extractor,
	sink debugsink.Sink,
	logger *observability.Logger,
) *Pipeline {
	if sink == nil {
		sink = debugsink.NopSink{}
	}
	if logger == nil {
		logger = observability.Nop()
	}
	return &Pipeline{
		cfg:          cfg,
		rasterizer:   rasterizer,
		preprocessor: preprocessor,
		recognizer:   recognizer,
		normalizer:   normalizer,
		extractor:    extractor,
		sink:         sink,
		logger:       logger.WithComponent("pipeline"),
	}
}

// pageResult is the per-page outcome collected by the workers. Workers
// write only their own slot; aggregation happens after all workers
// finish, so there is no shared mutable state between pages.
type pageResult struct {
	summary  domain.PageSummary
	records  []domain.VoterRecord
	text     string
	metadata domain.RollMetadata
}

// Run executes the full pipeline. The only fatal failure is
// rasterization; every other degradation is absorbed into the summary.
// On cancellation mid-run, artifacts of completed pages and a partial
// summary are still flushed before the context error is returned.
func (p *Pipeline) Run(ctx context.Context, pdfPath string, events chan<- domain.StreamEvent) (*Result, error) {
	started := time.Now()

	pages, err := p.rasterizer.Rasterize(ctx, pdfPath, p.cfg.DPI)
	if err != nil {
		return nil, err
	}

	p.emit(events, domain.StreamEvent{Type: domain.EventStart, Payload: domain.StartPayload{
		SourcePath: pdfPath,
		TotalPages: len(pages),
		DPI:        p.cfg.DPI,
	}})
	p.logger.Info().
		Str("source", pdfPath).
		Int("pages", len(pages)).
		Int("dpi", p.cfg.DPI).
		Msg("starting extraction run")

	workers := p.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*pageResult, len(pages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, page := range pages {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			p.emit(events, domain.StreamEvent{Type: domain.EventPageProcessing, Payload: domain.PagePayload{
				PageIndex:  page.Index,
				TotalPages: len(pages),
			}})

			res, err := p.processPage(gctx, page)
			if err != nil {
				return err
			}
			results[i] = res

			p.emit(events, domain.StreamEvent{Type: domain.EventPageComplete, Payload: domain.PagePayload{
				PageIndex:  page.Index,
				TotalPages: len(pages),
				Records:    res.summary.Records,
				ZeroYield:  res.summary.ZeroYield,
			}})
			return nil
		})
	}

	runErr := g.Wait()

	// Aggregate whatever completed, in page order, even on abort.
	result := p.aggregate(pdfPath, started, pages, results)

	if runErr != nil {
		p.logger.Error().Err(runErr).Msg("run aborted, flushed completed pages")
		return result, runErr
	}

	if result.Summary.TotalRecords == 0 {
		p.emit(events, domain.StreamEvent{
			Type:    domain.EventWarning,
			Payload: "no voter records extracted; inspect the debug bundle and consider a higher DPI",
		})
		p.logger.Warn().Msg("run completed with zero records")
	}

	return result, nil
}

// processPage runs the per-page stage sequence. Only context
// cancellation is returned as an error; every stage failure degrades
// into the page summary instead.
func (p *Pipeline) processPage(ctx context.Context, page pdf.PageImage) (*pageResult, error) {
	log := p.logger.WithPage(page.Index)

	processed := p.preprocessor.Preprocess(page.Image, page.Index)

	p.persist(page.Index, "original image", func() error {
		return p.sink.WriteOriginalImage(page.Index, page.Image)
	})
	p.persist(page.Index, "processed image", func() error {
		return p.sink.WriteProcessedImage(page.Index, processed)
	})

	best, attempts, err := p.recognizer.Recognize(ctx, processed, page.Image, page.Index)
	if err != nil {
		return nil, err
	}
	for _, a := range attempts {
		p.persist(page.Index, "attempt text", func() error {
			return p.sink.WriteAttemptText(page.Index, a.Strategy, a.Text)
		})
	}
	p.persist(page.Index, "selected text", func() error {
		return p.sink.WriteSelectedText(page.Index, best)
	})

	normalized, corrections := p.normalizer.Apply(best)

	var md domain.RollMetadata
	if page.Index <= headerPages {
		md = extract.ExtractMetadata(normalized)
	}

	records, unmatched := p.extractor.Extract(normalized, page.Index)

	strategies := make([]string, 0, len(attempts))
	selected := ""
	for _, a := range attempts {
		strategies = append(strategies, a.Strategy)
		if a.Text == best && best != "" && selected == "" {
			selected = a.Strategy
		}
	}

	summary := domain.PageSummary{
		PageIndex:           page.Index,
		Records:             len(records),
		StrategiesAttempted: strategies,
		SelectedStrategy:    selected,
		ZeroYield:           len(records) == 0,
		UnmatchedSegments:   unmatched,
		CorrectionsApplied:  corrections,
	}

	log.Info().
		Int("records", len(records)).
		Int("unmatched_segments", unmatched).
		Bool("zero_yield", summary.ZeroYield).
		Msg("page processed")

	return &pageResult{
		summary:  summary,
		records:  records,
		text:     best,
		metadata: md,
	}, nil
}

// aggregate restores page order, merges header metadata, and writes
// the run-level artifacts.
func (p *Pipeline) aggregate(pdfPath string, started time.Time, pages []pdf.PageImage, results []*pageResult) *Result {
	summary := &domain.ExtractionSummary{
		RunID:      uuid.NewString(),
		StartedAt:  started,
		SourcePath: pdfPath,
		DPI:        p.cfg.DPI,
		TotalPages: len(pages),
	}

	var records []domain.VoterRecord
	var combined strings.Builder
	for _, res := range results {
		if res == nil {
			// Page never completed (aborted run).
			continue
		}
		summary.AddPage(res.summary)
		summary.Metadata.Merge(res.metadata)
		records = append(records, res.records...)
		if res.text != "" {
			combined.WriteString(res.text)
			combined.WriteString("\n\n")
		}
	}
	summary.CompletedAt = time.Now()

	p.persist(0, "combined text", func() error {
		return p.sink.WriteCombinedText(combined.String())
	})
	p.persist(0, "extraction summary", func() error {
		return p.sink.WriteSummary(summary)
	})

	return &Result{Records: records, Summary: summary}
}

// persist runs one artifact write, logging failures instead of
// propagating them: a broken debug artifact must not fail the run.
func (p *Pipeline) persist(pageIndex int, artifact string, fn func() error) {
	if err := fn(); err != nil {
		p.logger.Warn().
			Int("page", pageIndex).
			Str("artifact", artifact).
			Err(err).
			Msg("failed to persist debug artifact, continuing")
	}
}

// emit sends an event when a channel is attached.
func (p *Pipeline) emit(events chan<- domain.StreamEvent, ev domain.StreamEvent) {
	if events != nil {
		events <- ev
	}
}
