package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kursancew/godmtx/dmtx"
	"github.com/kursancew/godmtx/internal/config"
	"github.com/kursancew/godmtx/internal/pdf"
)

// pdfCmd represents the pdf command.
var pdfCmd = &cobra.Command{
	Use:   "pdf [file.pdf]",
	Short: "Scan images embedded in PDF pages for Data Matrix barcodes",
	Long: `Extract embedded images from a PDF file and scan each one for Data Matrix
barcodes. Results are grouped by page.

Examples:
  dmtxscan pdf shipping.pdf
  dmtxscan pdf shipping.pdf --pages 1-3 --format json`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no PDF file provided")
		}
		filename := args[0]
		if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
			return fmt.Errorf("not a PDF file: %s", filename)
		}

		cfg := GetConfig()

		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}
		if !validOutputFormat(format) {
			return fmt.Errorf("invalid output format: %s (must be one of: %s)",
				format, strings.Join(config.ValidFormats, ", "))
		}
		outputFile := cfg.Output.File
		if cmd.Flags().Changed("output") {
			outputFile, _ = cmd.Flags().GetString("output")
		}
		pages, _ := cmd.Flags().GetString("pages")

		opts := decodeOptions(cmd, cfg)

		images, err := pdf.ExtractImages(filename, pages)
		if err != nil {
			return fmt.Errorf("failed to extract images from %s: %w", filename, err)
		}

		var results []scanOutput
		for _, page := range pdf.Pages(images) {
			for _, img := range images[page] {
				start := time.Now()
				res, err := dmtx.DecodeImage(img, opts)
				elapsed := time.Since(start)
				if err != nil {
					return fmt.Errorf("decode failed for %s page %d: %w", filename, page, err)
				}
				slog.Debug("Scanned PDF page image",
					"file", filename, "page", page, "symbols", len(res), "elapsed", elapsed)

				b := img.Bounds()
				out := newScanOutput(filename, b.Dx(), b.Dy(), elapsed.Milliseconds(), res)
				out.Page = page
				results = append(results, out)
			}
		}

		if len(results) == 0 {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No images found in %s\n", filename)
			return nil
		}
		return writeResults(results, format, outputFile)
	},
}

func init() {
	rootCmd.AddCommand(pdfCmd)
	pdfCmd.Flags().StringP("format", "f", "text", "output format (text, json, csv, yaml)")
	pdfCmd.Flags().StringP("output", "o", "", "write results to file instead of stdout")
	pdfCmd.Flags().StringP("pages", "p", "", "page range to scan, e.g. \"1,3-5\" (default all)")
	addDecodeFlags(pdfCmd)
}
