package dmtx

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestBitsPerPixel_RoundTrips verifies the derived depth matches the depth a
// well-formed buffer was built with, for arbitrary dimensions.
func TestBitsPerPixel_RoundTrips(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("well-formed buffers report their depth", prop.ForAll(
		func(width, height, depthIdx int) bool {
			depth := supportedDepths[depthIdx]
			p := Pixels{
				Pix:    make([]byte, width*height*depth/8),
				Width:  width,
				Height: height,
			}
			got, err := p.bitsPerPixel()
			return err == nil && got == depth
		},
		gen.IntRange(1, 64),
		gen.IntRange(1, 64),
		gen.IntRange(0, len(supportedDepths)-1),
	))

	properties.Property("truncated buffers are rejected", prop.ForAll(
		func(width, height, cut int) bool {
			area := width * height
			if cut >= area {
				return true
			}
			p := Pixels{
				Pix:    make([]byte, area*3-cut),
				Width:  width,
				Height: height,
			}
			_, err := p.bitsPerPixel()
			return err != nil
		},
		gen.IntRange(2, 64),
		gen.IntRange(2, 64),
		gen.IntRange(1, 3),
	))

	properties.TestingRun(t)
}
