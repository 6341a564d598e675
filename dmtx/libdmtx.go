package dmtx

import "time"

// packOrder mirrors the libdmtx pixel packing enum for the depths this
// package accepts. The cgo adapter translates these into the native values.
type packOrder int

const (
	pack8bppK packOrder = iota
	pack16bppRGB
	pack24bppRGB
	pack32bppRGBX
)

// decodeProp mirrors the libdmtx decoder property enum for the knobs Options
// exposes.
type decodeProp int

const (
	propScanGap decodeProp = iota
	propSymbolSize
	propSquareDevn
	propEdgeThresh
	propEdgeMin
	propEdgeMax
)

// Opaque native handle types. The concrete values are owned by the library
// implementation; callers only pass them back and compare against nil.
type (
	imageRef   interface{}
	decoderRef interface{}
	regionRef  interface{}
	messageRef interface{}
)

// library abstracts the native libdmtx entry points the decode driver uses.
// The real implementation lives in libdmtx_cgo.go; tests substitute a fake.
// Constructors return nil on failure, matching the null-handle semantics of
// the C API. Every successfully constructed handle must be destroyed.
type library interface {
	createImage(pix []byte, width, height int, pack packOrder) imageRef
	destroyImage(img imageRef)

	createDecoder(img imageRef, shrink int) decoderRef
	destroyDecoder(dec decoderRef)
	setProperty(dec decoderRef, prop decodeProp, value int)

	// findNextRegion blocks until the next candidate region is found, the
	// deadline passes, or the image is exhausted; nil means stop.
	findNextRegion(dec decoderRef, deadline time.Time) regionRef
	destroyRegion(reg regionRef)

	// decodeRegion extracts the message from a candidate region; nil means
	// the region did not contain a readable symbol.
	decodeRegion(dec decoderRef, reg regionRef, corrections int) messageRef
	destroyMessage(msg messageRef)

	messageData(msg messageRef) []byte
	// regionBounds maps the region's fitted corners back into source-image
	// pixel coordinates, top-left origin, undoing any shrink factor.
	regionBounds(dec decoderRef, reg regionRef) Rect

	version() string
}

// nativeLib is the process-wide libdmtx adapter. It is nil unless the
// dmtx_cgo build tag linked the real implementation; tests swap in fakes.
var nativeLib library = newNativeLibrary()

// Version reports the version string of the linked libdmtx, or "not linked"
// when the native adapter is absent.
func Version() string {
	if nativeLib == nil {
		return "not linked"
	}
	return nativeLib.version()
}
