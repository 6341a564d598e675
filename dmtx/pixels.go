package dmtx

import (
	"image"

	"github.com/disintegration/imaging"
)

// Pixels is a raw pixel buffer plus its dimensions, the normalized form every
// accepted input representation is reduced to before it is handed to the
// native library. Pix holds packed rows, top row first; the channel count is
// derived from the buffer length relative to Width*Height.
type Pixels struct {
	Pix    []byte
	Width  int
	Height int
}

// supportedDepths lists the bits-per-pixel values libdmtx accepts.
var supportedDepths = []int{8, 16, 24, 32}

// bitsPerPixel validates the buffer shape and returns the derived bit depth.
func (p Pixels) bitsPerPixel() (int, error) {
	area := p.Width * p.Height
	if area <= 0 {
		return 0, errorf("empty image: %dx%d", p.Width, p.Height)
	}
	if len(p.Pix)%area != 0 {
		return 0, errorf("inconsistent dimensions: image data of %d bytes is not divisible by (width x height = %d)",
			len(p.Pix), area)
	}
	bpp := 8 * len(p.Pix) / area
	for _, d := range supportedDepths {
		if bpp == d {
			return bpp, nil
		}
	}
	return 0, errorf("unsupported bits-per-pixel: %d, should be one of %v", bpp, supportedDepths)
}

func (p Pixels) packOrder() (packOrder, error) {
	bpp, err := p.bitsPerPixel()
	if err != nil {
		return 0, err
	}
	switch bpp {
	case 8:
		return pack8bppK, nil
	case 16:
		return pack16bppRGB, nil
	case 24:
		return pack24bppRGB, nil
	default:
		return pack32bppRGBX, nil
	}
}

// FromImage normalizes an image into a Pixels buffer. Grayscale images map to
// an 8bpp buffer directly when their backing store is tightly packed; every
// other image is cloned into a 32bpp RGBX buffer (the alpha byte is ignored
// by the native library).
func FromImage(img image.Image) Pixels {
	if g, ok := img.(*image.Gray); ok {
		b := g.Bounds()
		if b.Min == (image.Point{}) && g.Stride == b.Dx() {
			return Pixels{Pix: g.Pix, Width: b.Dx(), Height: b.Dy()}
		}
	}
	// imaging.Clone returns a tightly packed NRGBA anchored at the origin,
	// regardless of the source type, sub-image offsets, or stride.
	c := imaging.Clone(img)
	b := c.Bounds()
	return Pixels{Pix: c.Pix, Width: b.Dx(), Height: b.Dy()}
}

// FromMatrix normalizes a row-major grayscale matrix into an 8bpp Pixels
// buffer. Rows must all have the same length.
func FromMatrix(rows [][]uint8) (Pixels, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Pixels{}, errorf("empty image: 0x%d", len(rows))
	}
	width := len(rows[0])
	pix := make([]byte, 0, width*len(rows))
	for i, row := range rows {
		if len(row) != width {
			return Pixels{}, errorf("ragged matrix: row %d has %d values, row 0 has %d", i, len(row), width)
		}
		pix = append(pix, row...)
	}
	return Pixels{Pix: pix, Width: width, Height: len(rows)}, nil
}
