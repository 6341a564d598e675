package dmtx

import "time"

// Rect is an axis-aligned bounding box in source-image pixel coordinates,
// top-left origin.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Decoded is a single decoded Data Matrix symbol: the raw message payload and
// the bounding rectangle of the symbol in the source image. Values are
// immutable once returned; compare with reflect.DeepEqual or field-wise.
type Decoded struct {
	Data []byte
	Rect Rect
}

// Options controls the native decoder. The zero value asks libdmtx for its
// defaults; individual fields are only forwarded when set.
type Options struct {
	// Timeout bounds the total region search. Zero means no deadline,
	// matching the native library default. The value is passed through to
	// libdmtx untouched (it is not enforced on the Go side).
	Timeout time.Duration

	// GapSize is the gap, in pixels, between scan lines (DmtxPropScanGap).
	GapSize int

	// Shrink downscales the image internally by the given integer factor
	// before scanning. Zero or one means no shrinking. Reported rectangles
	// are always in coordinates of the original image.
	Shrink int

	// SymbolSize constrains the expected symbol shape
	// (DmtxPropSymbolSize); zero searches all sizes.
	SymbolSize int

	// Deviation is the maximum squareness deviation in degrees
	// (DmtxPropSquareDevn).
	Deviation int

	// Threshold is the minimum edge magnitude considered during scanning
	// (DmtxPropEdgeThresh).
	Threshold int

	// MinEdge and MaxEdge bound the expected symbol edge length in pixels.
	MinEdge int
	MaxEdge int

	// Corrections caps the number of Reed-Solomon corrections applied when
	// decoding a region. Zero uses the library default.
	Corrections int

	// MaxCount stops the scan once this many symbols have been decoded.
	// Zero means unlimited.
	MaxCount int
}

func (o Options) shrink() int {
	if o.Shrink <= 1 {
		return 1
	}
	return o.Shrink
}

// LibraryName identifies the external native dependency this package binds.
const LibraryName = "libdmtx"

// ExternalDependencies lists the native runtime dependencies of this package,
// for diagnostics.
func ExternalDependencies() []string {
	return []string{LibraryName}
}
