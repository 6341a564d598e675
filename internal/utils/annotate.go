package utils

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/kursancew/godmtx/dmtx"
)

const overlayStroke = 2

// RenderOverlay draws the bounding rectangles of decoded symbols over a copy
// of the image. Rectangles are clamped to the image bounds.
func RenderOverlay(img image.Image, rects []dmtx.Rect, col color.Color) *image.NRGBA {
	if img == nil {
		return nil
	}
	dst := imaging.Clone(img)
	for _, r := range rects {
		drawRectBorder(dst, image.Rect(r.Left, r.Top, r.Left+r.Width+1, r.Top+r.Height+1), col)
	}
	return dst
}

func drawRectBorder(dst *image.NRGBA, r image.Rectangle, col color.Color) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	for t := 0; t < overlayStroke; t++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			setClamped(dst, x, r.Min.Y+t, col)
			setClamped(dst, x, r.Max.Y-1-t, col)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			setClamped(dst, r.Min.X+t, y, col)
			setClamped(dst, r.Max.X-1-t, y, col)
		}
	}
}

func setClamped(dst *image.NRGBA, x, y int, col color.Color) {
	if (image.Point{X: x, Y: y}).In(dst.Bounds()) {
		dst.Set(x, y, col)
	}
}
