// Package pdf extracts embedded page images from PDF files so they can be
// scanned for Data Matrix symbols.
package pdf

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ExtractImages extracts all images from a PDF file using pdfcpu's extract
// functionality, grouped by page number.
func ExtractImages(filename string, pageRange string) (map[int][]image.Image, error) {
	pageNumbers, err := parsePageRange(pageRange)
	if err != nil {
		return nil, fmt.Errorf("invalid page range %q: %w", pageRange, err)
	}

	tempDir, err := os.MkdirTemp("", "dmtx-pdf-extract-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	var pageStrings []string
	if len(pageNumbers) > 0 {
		pageStrings = make([]string, len(pageNumbers))
		for i, pageNum := range pageNumbers {
			pageStrings[i] = strconv.Itoa(pageNum)
		}
	}

	if err := api.ExtractImagesFile(filename, tempDir, pageStrings, nil); err != nil {
		return nil, fmt.Errorf("failed to extract images from PDF: %w", err)
	}

	result, err := collectExtractedImages(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to process extracted images: %w", err)
	}
	return result, nil
}

// Pages returns the sorted page numbers present in an extraction result.
func Pages(images map[int][]image.Image) []int {
	pages := make([]int, 0, len(images))
	for p := range images {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

func loadImageFile(path string) (image.Image, error) {
	file, err := os.Open(path) //nolint:gosec // G304: Reading pdfcpu output from our own temp dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	return img, err
}

// collectExtractedImages walks the given directory and groups images by page
// number, parsed from the pdfcpu extraction filenames.
func collectExtractedImages(dir string) (map[int][]image.Image, error) {
	result := make(map[int][]image.Image)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		pageNum, err := parsePageFromFilename(info.Name())
		if err != nil {
			// Skip files we can't parse as page images
			return nil
		}

		img, err := loadImageFile(path)
		if err != nil {
			// Skip unreadable images
			return nil
		}
		if img != nil {
			result[pageNum] = append(result[pageNum], img)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// parsePageFromFilename extracts the page number from a pdfcpu extraction
// filename. pdfcpu names extracted images <name>_<page>_<resourceID>.<ext>
// (e.g. shipping_1_Im0.png), with the page as the second-to-last
// underscore-separated field; the PDF basename itself may contain
// underscores. The older page_<page>_image_<idx>.<ext> shape is accepted
// too.
func parsePageFromFilename(filename string) (int, error) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	parts := strings.Split(base, "_")
	if len(parts) < 3 {
		return 0, errors.New("not an extracted page image")
	}

	if pageNum, err := strconv.Atoi(parts[len(parts)-2]); err == nil && pageNum > 0 {
		return pageNum, nil
	}
	if parts[0] == "page" {
		if pageNum, err := strconv.Atoi(parts[1]); err == nil && pageNum > 0 {
			return pageNum, nil
		}
	}
	return 0, errors.New("no page number in filename")
}

// parsePageRange parses "1,3-5,7" style ranges into an ordered page list.
// An empty range selects all pages.
func parsePageRange(pageRange string) ([]int, error) {
	if pageRange == "" {
		return nil, nil
	}

	seen := make(map[int]bool)
	var pages []int
	for _, part := range strings.Split(pageRange, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if lo, hi, ok := strings.Cut(part, "-"); ok {
			start, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("invalid range start %q", lo)
			}
			end, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("invalid range end %q", hi)
			}
			if start < 1 || end < start {
				return nil, fmt.Errorf("invalid range %q", part)
			}
			for p := start; p <= end; p++ {
				if !seen[p] {
					seen[p] = true
					pages = append(pages, p)
				}
			}
			continue
		}

		p, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid page number %q", part)
		}
		if p < 1 {
			return nil, fmt.Errorf("invalid page number %d", p)
		}
		if !seen[p] {
			seen[p] = true
			pages = append(pages, p)
		}
	}
	return pages, nil
}
