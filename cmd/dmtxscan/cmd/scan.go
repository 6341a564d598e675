package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kursancew/godmtx/dmtx"
	"github.com/kursancew/godmtx/internal/batch"
	"github.com/kursancew/godmtx/internal/config"
)

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan [images or directories...]",
	Short: "Scan images for Data Matrix barcodes",
	Long: `Scan one or more image files or directories for Data Matrix barcodes.

Supported formats: JPEG, PNG, BMP, TIFF, WebP

Examples:
  dmtxscan scan label.png
  dmtxscan scan labels/ --recursive --include "label_*.png"
  dmtxscan scan *.png --format json --max-count 1
  dmtxscan scan label.png --overlay-dir overlays/`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
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
		overlayDir := cfg.Output.OverlayDir
		if cmd.Flags().Changed("overlay-dir") {
			overlayDir, _ = cmd.Flags().GetString("overlay-dir")
		}

		workers, _ := cmd.Flags().GetInt("workers")
		recursive, _ := cmd.Flags().GetBool("recursive")
		include, _ := cmd.Flags().GetStringSlice("include")
		exclude, _ := cmd.Flags().GetStringSlice("exclude")

		res, err := batch.Run(args, batch.Config{
			Workers:         workers,
			Recursive:       recursive,
			IncludePatterns: include,
			ExcludePatterns: exclude,
			OverlayDir:      overlayDir,
			Options:         decodeOptions(cmd, cfg),
		})
		if err != nil {
			return err
		}

		results := make([]scanOutput, 0, len(res.Files))
		for _, fr := range res.Files {
			results = append(results, newScanOutput(fr.Path, fr.Width, fr.Height, fr.Elapsed.Milliseconds(), fr.Symbols))
		}
		return writeResults(results, format, outputFile)
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringP("format", "f", "text", "output format (text, json, csv, yaml)")
	scanCmd.Flags().StringP("output", "o", "", "write results to file instead of stdout")
	scanCmd.Flags().String("overlay-dir", "", "write annotated copies with symbol boxes to this directory")
	scanCmd.Flags().IntP("workers", "w", 0, "parallel decode workers (0 = one per CPU)")
	scanCmd.Flags().BoolP("recursive", "r", false, "recurse into subdirectories")
	scanCmd.Flags().StringSlice("include", nil, "only scan files matching these glob patterns")
	scanCmd.Flags().StringSlice("exclude", nil, "skip files matching these glob patterns")
	addDecodeFlags(scanCmd)
}

// addDecodeFlags registers the decoder tuning flags shared by scan and pdf.
func addDecodeFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max-count", 0, "stop after this many symbols (0 = unlimited)")
	cmd.Flags().Int("timeout", 0, "decode timeout in milliseconds (0 = none)")
	cmd.Flags().Int("shrink", 1, "internal downscale factor")
	cmd.Flags().Int("gap-size", 0, "gap between scan lines in pixels")
	cmd.Flags().Int("threshold", 0, "minimum edge magnitude")
	cmd.Flags().Int("deviation", 0, "maximum squareness deviation in degrees")
	cmd.Flags().Int("min-edge", 0, "minimum symbol edge length in pixels")
	cmd.Flags().Int("max-edge", 0, "maximum symbol edge length in pixels")
	cmd.Flags().Int("corrections", 0, "maximum error corrections per symbol")
	cmd.Flags().Int("symbol-size", 0, "expected symbol size constraint")
}

// decodeOptions merges configured decoder settings with CLI flag overrides.
func decodeOptions(cmd *cobra.Command, cfg *config.Config) dmtx.Options {
	d := cfg.Decode
	if cmd.Flags().Changed("max-count") {
		d.MaxCount, _ = cmd.Flags().GetInt("max-count")
	}
	if cmd.Flags().Changed("timeout") {
		d.TimeoutMS, _ = cmd.Flags().GetInt("timeout")
	}
	if cmd.Flags().Changed("shrink") {
		d.Shrink, _ = cmd.Flags().GetInt("shrink")
	}
	if cmd.Flags().Changed("gap-size") {
		d.GapSize, _ = cmd.Flags().GetInt("gap-size")
	}
	if cmd.Flags().Changed("threshold") {
		d.Threshold, _ = cmd.Flags().GetInt("threshold")
	}
	if cmd.Flags().Changed("deviation") {
		d.Deviation, _ = cmd.Flags().GetInt("deviation")
	}
	if cmd.Flags().Changed("min-edge") {
		d.MinEdge, _ = cmd.Flags().GetInt("min-edge")
	}
	if cmd.Flags().Changed("max-edge") {
		d.MaxEdge, _ = cmd.Flags().GetInt("max-edge")
	}
	if cmd.Flags().Changed("corrections") {
		d.Corrections, _ = cmd.Flags().GetInt("corrections")
	}
	if cmd.Flags().Changed("symbol-size") {
		d.SymbolSize, _ = cmd.Flags().GetInt("symbol-size")
	}
	return d.Options()
}
