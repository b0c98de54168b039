// Package commands wires the rollscan CLI.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "rollscan",
	Short: "Extract voter records from scanned electoral-roll PDFs",
	Long: `rollscan rasterizes a scanned electoral-roll PDF, recognizes each page
with Tesseract under multiple strategies, extracts structured voter
records from the recognized text, and writes an xlsx workbook plus a
debug bundle of per-page artifacts.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
