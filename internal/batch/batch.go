// Package batch scans sets of image files for Data Matrix symbols in
// parallel.
package batch

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/kursancew/godmtx/dmtx"
	"github.com/kursancew/godmtx/internal/utils"
)

// Config holds batch scanning settings.
type Config struct {
	// Number of parallel decode workers; <= 0 means one per CPU.
	Workers int

	// File discovery settings.
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Directory for annotated overlay images; empty disables overlays.
	OverlayDir string

	Options dmtx.Options

	// Decode entry point; tests substitute a fake so no native library is
	// needed.
	decode func(img image.Image, opts dmtx.Options) ([]dmtx.Decoded, error)
}

// FileResult is the outcome of scanning one image file.
type FileResult struct {
	Path    string
	Width   int
	Height  int
	Elapsed time.Duration
	Symbols []dmtx.Decoded
}

// Result holds the outcome of a batch run.
type Result struct {
	Files       []FileResult
	Duration    time.Duration
	WorkerCount int
}

var overlayColor = color.NRGBA{R: 255, A: 255}

// Run discovers image files from the given arguments and scans them with a
// pool of parallel workers. A file that fails to load or decode fails the
// whole run; the workers drain the remaining jobs first, and the error
// reported is the earliest in file order.
func Run(args []string, cfg Config) (*Result, error) {
	files, err := discoverFiles(args, cfg.Recursive, cfg.IncludePatterns, cfg.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no image files found")
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}

	decode := cfg.decode
	if decode == nil {
		decode = dmtx.DecodeImage
	}

	start := time.Now()
	results := make([]FileResult, len(files))
	errs := make([]error, len(files))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = scanFile(files[i], cfg, decode)
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return &Result{
		Files:       results,
		Duration:    time.Since(start),
		WorkerCount: workers,
	}, nil
}

func scanFile(path string, cfg Config, decode func(image.Image, dmtx.Options) ([]dmtx.Decoded, error)) (FileResult, error) {
	img, meta, err := utils.LoadImage(path)
	if err != nil {
		return FileResult{}, fmt.Errorf("failed to load %s: %w", path, err)
	}

	start := time.Now()
	symbols, err := decode(img, cfg.Options)
	elapsed := time.Since(start)
	if err != nil {
		return FileResult{}, fmt.Errorf("decode failed for %s: %w", path, err)
	}
	slog.Debug("Scanned image", "file", path, "symbols", len(symbols), "elapsed", elapsed)

	if cfg.OverlayDir != "" {
		if err := saveOverlay(cfg.OverlayDir, path, img, symbols); err != nil {
			return FileResult{}, err
		}
	}

	return FileResult{
		Path:    path,
		Width:   meta.Width,
		Height:  meta.Height,
		Elapsed: elapsed,
		Symbols: symbols,
	}, nil
}

// saveOverlay writes an annotated copy of the image with symbol bounding
// boxes drawn.
func saveOverlay(dir, srcPath string, img image.Image, symbols []dmtx.Decoded) error {
	rects := make([]dmtx.Rect, 0, len(symbols))
	for _, d := range symbols {
		rects = append(rects, d.Rect)
	}
	overlay := utils.RenderOverlay(img, rects, overlayColor)
	if err := utils.SavePNG(OverlayPath(dir, srcPath), overlay); err != nil {
		return fmt.Errorf("failed to write overlay for %s: %w", srcPath, err)
	}
	return nil
}

// OverlayPath returns the overlay file path for a source image.
func OverlayPath(dir, srcPath string) string {
	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	return filepath.Join(dir, base+"_overlay.png")
}
