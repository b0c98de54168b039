package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/voterroll/extractor/cmd/rollscan/ui"
	"github.com/voterroll/extractor/internal/config"
	"github.com/voterroll/extractor/internal/domain"
	"github.com/voterroll/extractor/pkg/extractor"
)

var (
	convertPDFPath    string
	convertOutputPath string
	convertDPI        int
	convertWorkers    int
	convertDebugDir   string
	convertLanguages  []string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a scanned electoral-roll PDF to an xlsx workbook",
	Long: `Convert runs the full pipeline on one PDF: rasterize pages, recognize
text, extract voter records, and write the workbook. Per-page images
and recognized text land in the debug directory for auditing.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertPDFPath, "pdf", "p", "", "Path to the scanned PDF (required)")
	convertCmd.Flags().StringVarP(&convertOutputPath, "output", "o", "", "Output xlsx path (default: <pdf>.xlsx)")
	convertCmd.Flags().IntVar(&convertDPI, "dpi", 0, "Rasterization DPI (default 300; raise for poor scans)")
	convertCmd.Flags().IntVar(&convertWorkers, "workers", 0, "Concurrent page workers (default: number of CPUs)")
	convertCmd.Flags().StringVar(&convertDebugDir, "debug-dir", "", "Debug bundle directory (empty disables the bundle)")
	convertCmd.Flags().StringSliceVar(&convertLanguages, "languages", nil, "Tesseract languages (e.g. eng,ben)")
	convertCmd.MarkFlagRequired("pdf")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui.Init(noColor, verbose)

	cfg, err := buildConvertConfig()
	if err != nil {
		return err
	}
	if convertOutputPath == "" {
		base := strings.TrimSuffix(convertPDFPath, filepath.Ext(convertPDFPath))
		convertOutputPath = base + ".xlsx"
	}

	client, err := extractor.New(cfg)
	if err != nil {
		return err
	}

	ui.Section("Electoral Roll Extraction")
	ui.KeyValue("PDF", convertPDFPath)
	ui.KeyValue("Output", convertOutputPath)
	ui.KeyValue("DPI", fmt.Sprintf("%d", cfg.Rasterizer.DPI))
	if cfg.Debug.Enabled {
		ui.KeyValue("Debug bundle", cfg.Debug.Dir)
	}
	ui.Newline()

	spin := ui.NewSpinner("Rasterizing PDF pages...")
	spin.Start()

	var bar *ui.ProgressBar
	var summary *domain.ExtractionSummary
	var runErr error

	for ev := range client.Stream(ctx, convertPDFPath, convertOutputPath) {
		switch ev.Type {
		case domain.EventStart:
			spin.Stop()
			start := ev.Payload.(domain.StartPayload)
			bar = ui.NewProgressBar(int64(start.TotalPages), "Recognizing pages")
		case domain.EventPageComplete:
			page := ev.Payload.(domain.PagePayload)
			if bar != nil {
				bar.Add(1)
			}
			if page.ZeroYield {
				ui.Verbose("page %d yielded no records", page.PageIndex)
			}
		case domain.EventWarning:
			ui.Warning("%v", ev.Payload)
		case domain.EventError:
			runErr = ev.Payload.(error)
		case domain.EventComplete:
			complete := ev.Payload.(domain.CompletePayload)
			summary = complete.Summary
		}
	}
	spin.Stop()
	if bar != nil {
		bar.Finish()
	}

	if runErr != nil {
		ui.Error("extraction failed: %v", runErr)
		return runErr
	}

	printSummary(summary, cfg)
	return nil
}

func buildConvertConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if convertDPI > 0 {
		cfg.Rasterizer.DPI = convertDPI
	}
	if convertWorkers > 0 {
		cfg.Pipeline.Workers = convertWorkers
	}
	if len(convertLanguages) > 0 {
		cfg.OCR.Languages = convertLanguages
	}
	if convertDebugDir != "" {
		cfg.Debug.Enabled = true
		cfg.Debug.Dir = convertDebugDir
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func printSummary(summary *domain.ExtractionSummary, cfg *config.Config) {
	ui.Newline()
	if summary.TotalRecords == 0 {
		ui.Warning("No voter records were extracted from %d pages.", summary.TotalPages)
		if cfg.Debug.Enabled {
			ui.Info("Inspect the per-page text in %s and retry with a higher --dpi.", cfg.Debug.Dir)
		} else {
			ui.Info("Re-run with --debug-dir to capture per-page artifacts, then retry with a higher --dpi.")
		}
		return
	}

	ui.Success("Extracted %d voter records from %d pages", summary.TotalRecords, summary.TotalPages)
	if len(summary.ZeroYieldPages) > 0 {
		ui.Warning("%d pages yielded no records: %v", len(summary.ZeroYieldPages), summary.ZeroYieldPages)
	}
	if md := summary.Metadata; !md.IsEmpty() {
		ui.Newline()
		if md.ConstituencyName != "" {
			ui.KeyValue("Constituency", fmt.Sprintf("%s (%s)", md.ConstituencyName, md.ConstituencyNo))
		}
		if md.PartNo != "" {
			ui.KeyValue("Part", md.PartNo)
		}
		if md.District != "" {
			ui.KeyValue("District", md.District)
		}
	}
}
