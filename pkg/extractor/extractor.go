// Package extractor is the public entry point: it turns a scanned
// electoral-roll PDF into an xlsx workbook of voter records, with a
// debug bundle for auditing what the recognition saw.
package extractor

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/voterroll/extractor/internal/config"
	"github.com/voterroll/extractor/internal/debugsink"
	"github.com/voterroll/extractor/internal/domain"
	"github.com/voterroll/extractor/internal/extract"
	"github.com/voterroll/extractor/internal/imaging"
	"github.com/voterroll/extractor/internal/normalize"
	"github.com/voterroll/extractor/internal/observability"
	"github.com/voterroll/extractor/internal/ocr"
	"github.com/voterroll/extractor/internal/pdf"
	"github.com/voterroll/extractor/internal/pipeline"
	"github.com/voterroll/extractor/internal/recognize"
	"github.com/voterroll/extractor/internal/report"
)

// Client runs the extraction pipeline end to end. It is safe to reuse
// across runs; each run builds its own pipeline state.
type Client struct {
	cfg    *config.Config
	logger *observability.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger overrides the logger built from the configuration.
func WithLogger(logger *observability.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New builds a Client. A nil cfg uses defaults plus environment
// overrides. A .env file in the working directory is honored when
// present.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	_ = godotenv.Load()

	if cfg == nil {
		loaded, err := config.Load("")
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return nil, domain.ConfigError("invalid configuration", err)
	}

	c := &Client{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = observability.NewLogger(observability.LogConfig{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			ServiceName: "rollscan",
		})
	}
	return c, nil
}

// Config returns the effective configuration.
func (c *Client) Config() *config.Config {
	return c.cfg
}

// Run processes pdfPath and writes the workbook to outputPath. It
// blocks until the run finishes. A run that extracts zero records is
// not an error; the summary records the zero-yield pages and the
// caller decides how loudly to complain.
func (c *Client) Run(ctx context.Context, pdfPath, outputPath string) (*domain.ExtractionSummary, error) {
	return c.run(ctx, pdfPath, outputPath, nil)
}

// Stream processes pdfPath like Run but emits progress events on the
// returned channel. The channel is closed when the run finishes; the
// final event is EventComplete on success or EventError on failure.
func (c *Client) Stream(ctx context.Context, pdfPath, outputPath string) <-chan domain.StreamEvent {
	events := make(chan domain.StreamEvent, 64)
	go func() {
		defer close(events)
		summary, err := c.run(ctx, pdfPath, outputPath, events)
		if err != nil {
			events <- domain.StreamEvent{Type: domain.EventError, Payload: err}
			return
		}
		events <- domain.StreamEvent{Type: domain.EventComplete, Payload: domain.CompletePayload{
			Summary:      summary,
			TotalRecords: summary.TotalRecords,
			OutputPath:   outputPath,
		}}
	}()
	return events
}

func (c *Client) run(ctx context.Context, pdfPath, outputPath string, events chan<- domain.StreamEvent) (*domain.ExtractionSummary, error) {
	validator := pdf.NewValidator()
	if err := validator.ValidatePDFPath(pdfPath); err != nil {
		return nil, err
	}
	if err := validator.ValidateDPI(c.cfg.Rasterizer.DPI); err != nil {
		return nil, err
	}
	if outputPath == "" {
		return nil, domain.ValidationError("output path is required", nil)
	}

	sink, err := c.buildSink()
	if err != nil {
		return nil, err
	}

	engine := ocr.NewTesseractEngine(ocr.WithTessdataPrefix(c.cfg.OCR.TessdataPrefix))
	p := pipeline.NewPipeline(
		pipeline.Config{DPI: c.cfg.Rasterizer.DPI, Workers: c.cfg.Pipeline.Workers},
		pdf.NewFitzRasterizer(),
		imaging.NewPreprocessor(c.cfg.Pipeline.MinImageWidth, c.logger),
		recognize.NewRecognizer(engine, nil, c.cfg.OCR.Languages, c.cfg.Rasterizer.DPI, c.logger),
		normalize.New(c.cfg.Normalizer.WordCorrections),
		extract.NewExtractor(nil, c.logger),
		sink,
		c.logger,
	)

	result, err := p.Run(ctx, pdfPath, events)
	if err != nil {
		return nil, err
	}

	if err := report.NewWriter().Write(outputPath, result.Records, result.Summary); err != nil {
		return nil, domain.IOError("writing workbook", err)
	}
	c.logger.Info().
		Str("output", outputPath).
		Int("records", result.Summary.TotalRecords).
		Msg("workbook written")

	return result.Summary, nil
}

func (c *Client) buildSink() (debugsink.Sink, error) {
	if !c.cfg.Debug.Enabled {
		return debugsink.NopSink{}, nil
	}
	sink, err := debugsink.NewFSSink(c.cfg.Debug.Dir)
	if err != nil {
		return nil, err
	}
	c.logger.Info().Str("dir", sink.Dir()).Msg("debug bundle enabled")
	return sink, nil
}
