package dmtx

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitsPerPixel(t *testing.T) {
	cases := []struct {
		name  string
		bytes int
		w, h  int
		bpp   int
		errIs string
	}{
		{name: "gray", bytes: 9, w: 3, h: 3, bpp: 8},
		{name: "gray alpha", bytes: 18, w: 3, h: 3, bpp: 16},
		{name: "rgb", bytes: 27, w: 3, h: 3, bpp: 24},
		{name: "rgbx", bytes: 36, w: 3, h: 3, bpp: 32},
		{
			// Five bytes per pixel implies a 40-bit depth.
			name:  "unsupported depth",
			bytes: 3 * 3 * 5, w: 3, h: 3,
			errIs: "unsupported bits-per-pixel: 40, should be one of [8 16 24 32]",
		},
		{
			// Ten bytes of data, but width x height indicates nine pixels.
			name:  "inconsistent dimensions",
			bytes: 10, w: 3, h: 3,
			errIs: "inconsistent dimensions: image data of 10 bytes is not divisible by (width x height = 9)",
		},
		{name: "zero width", bytes: 10, w: 0, h: 3, errIs: "empty image"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := Pixels{Pix: make([]byte, c.bytes), Width: c.w, Height: c.h}
			bpp, err := p.bitsPerPixel()
			if c.errIs != "" {
				require.Error(t, err)
				var derr *Error
				require.ErrorAs(t, err, &derr)
				assert.Contains(t, err.Error(), c.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.bpp, bpp)
		})
	}
}

func TestPackOrder(t *testing.T) {
	cases := []struct {
		bpp  int
		pack packOrder
	}{
		{8, pack8bppK},
		{16, pack16bppRGB},
		{24, pack24bppRGB},
		{32, pack32bppRGBX},
	}
	for _, c := range cases {
		p := Pixels{Pix: make([]byte, 4*4*c.bpp/8), Width: 4, Height: 4}
		pack, err := p.packOrder()
		require.NoError(t, err)
		assert.Equal(t, c.pack, pack)
	}
}

func TestFromImageGray(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 5, 4))
	for i := range g.Pix {
		g.Pix[i] = uint8(i)
	}

	p := FromImage(g)
	assert.Equal(t, 5, p.Width)
	assert.Equal(t, 4, p.Height)
	assert.Equal(t, g.Pix, p.Pix)

	bpp, err := p.bitsPerPixel()
	require.NoError(t, err)
	assert.Equal(t, 8, bpp)
}

func TestFromImageColor(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 6, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 6; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 7, A: 255})
		}
	}

	p := FromImage(img)
	assert.Equal(t, 6, p.Width)
	assert.Equal(t, 3, p.Height)

	bpp, err := p.bitsPerPixel()
	require.NoError(t, err)
	assert.Equal(t, 32, bpp)
}

func TestFromImageSubImage(t *testing.T) {
	// Sub-images carry non-zero bounds and a wide stride; normalization
	// must still produce a tight buffer anchored at the origin.
	base := image.NewGray(image.Rect(0, 0, 10, 10))
	sub := base.SubImage(image.Rect(2, 2, 8, 7)).(*image.Gray)

	p := FromImage(sub)
	assert.Equal(t, 6, p.Width)
	assert.Equal(t, 5, p.Height)

	bpp, err := p.bitsPerPixel()
	require.NoError(t, err)
	assert.Equal(t, 32, bpp, "non-tight grayscale falls back to the RGBX path")
}

func TestFromMatrix(t *testing.T) {
	p, err := FromMatrix([][]uint8{
		{1, 2, 3},
		{4, 5, 6},
	})
	require.NoError(t, err)
	assert.Equal(t, Pixels{Pix: []byte{1, 2, 3, 4, 5, 6}, Width: 3, Height: 2}, p)
}

func TestFromMatrixRagged(t *testing.T) {
	_, err := FromMatrix([][]uint8{{1, 2}, {3}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ragged matrix")
}

func TestFromMatrixEmpty(t *testing.T) {
	_, err := FromMatrix(nil)
	require.EqualError(t, err, "dmtx: empty image: 0x0")

	// Empty rows mean a width of zero; the height is the row count.
	_, err = FromMatrix([][]uint8{{}, {}, {}})
	require.EqualError(t, err, "dmtx: empty image: 0x3")
}

// TestEquivalentRepresentations checks that the three accepted input shapes
// of the same grayscale content normalize to an identical buffer.
func TestEquivalentRepresentations(t *testing.T) {
	const w, h = 4, 3
	raw := make([]byte, w*h)
	for i := range raw {
		raw[i] = uint8(17 * i)
	}

	g := image.NewGray(image.Rect(0, 0, w, h))
	copy(g.Pix, raw)

	rows := make([][]uint8, h)
	for y := range rows {
		rows[y] = raw[y*w : (y+1)*w]
	}

	fromTuple := Pixels{Pix: raw, Width: w, Height: h}
	fromImage := FromImage(g)
	fromMatrix, err := FromMatrix(rows)
	require.NoError(t, err)

	assert.Equal(t, fromTuple, fromImage)
	assert.Equal(t, fromTuple, fromMatrix)
}
