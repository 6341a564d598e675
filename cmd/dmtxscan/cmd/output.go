package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kursancew/godmtx/dmtx"
)

const (
	outputFormatText = "text"
	outputFormatJSON = "json"
	outputFormatCSV  = "csv"
	outputFormatYAML = "yaml"
)

// symbolOutput is one decoded symbol in CLI output.
type symbolOutput struct {
	Data string    `json:"data" yaml:"data"`
	Rect dmtx.Rect `json:"rect" yaml:"rect"`
}

// scanOutput is the result of scanning one image (or one PDF page image).
type scanOutput struct {
	File    string         `json:"file" yaml:"file"`
	Page    int            `json:"page,omitempty" yaml:"page,omitempty"`
	Width   int            `json:"width" yaml:"width"`
	Height  int            `json:"height" yaml:"height"`
	TimeMs  int64          `json:"time_ms" yaml:"time_ms"`
	Symbols []symbolOutput `json:"symbols" yaml:"symbols"`
}

func newScanOutput(file string, width, height int, elapsedMs int64, res []dmtx.Decoded) scanOutput {
	symbols := make([]symbolOutput, 0, len(res))
	for _, d := range res {
		symbols = append(symbols, symbolOutput{Data: string(d.Data), Rect: d.Rect})
	}
	return scanOutput{
		File:    file,
		Width:   width,
		Height:  height,
		TimeMs:  elapsedMs,
		Symbols: symbols,
	}
}

func validOutputFormat(format string) bool {
	switch format {
	case outputFormatText, outputFormatJSON, outputFormatCSV, outputFormatYAML:
		return true
	}
	return false
}

// formatResults renders scan results in the requested output format.
func formatResults(results []scanOutput, format string) (string, error) {
	switch format {
	case outputFormatJSON:
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data) + "\n", nil

	case outputFormatYAML:
		data, err := yaml.Marshal(results)
		if err != nil {
			return "", fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return string(data), nil

	case outputFormatCSV:
		var sb strings.Builder
		w := csv.NewWriter(&sb)
		if err := w.Write([]string{"file", "page", "data", "left", "top", "width", "height"}); err != nil {
			return "", err
		}
		for _, r := range results {
			for _, s := range r.Symbols {
				rec := []string{
					r.File,
					strconv.Itoa(r.Page),
					s.Data,
					strconv.Itoa(s.Rect.Left),
					strconv.Itoa(s.Rect.Top),
					strconv.Itoa(s.Rect.Width),
					strconv.Itoa(s.Rect.Height),
				}
				if err := w.Write(rec); err != nil {
					return "", err
				}
			}
		}
		w.Flush()
		return sb.String(), w.Error()

	default:
		var sb strings.Builder
		for _, r := range results {
			name := r.File
			if r.Page > 0 {
				name = fmt.Sprintf("%s (page %d)", r.File, r.Page)
			}
			fmt.Fprintf(&sb, "%s: %d symbol(s) in %dms\n", name, len(r.Symbols), r.TimeMs)
			for _, s := range r.Symbols {
				fmt.Fprintf(&sb, "  %q @ (%d,%d) %dx%d\n",
					s.Data, s.Rect.Left, s.Rect.Top, s.Rect.Width, s.Rect.Height)
			}
		}
		return sb.String(), nil
	}
}

// writeResults emits the formatted results to stdout or the output file.
func writeResults(results []scanOutput, format, outputFile string) error {
	out, err := formatResults(results, format)
	if err != nil {
		return err
	}
	if outputFile == "" {
		_, err := fmt.Print(out)
		return err
	}
	if err := os.WriteFile(outputFile, []byte(out), 0o644); err != nil { //nolint:gosec // G306: result files are not sensitive
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
