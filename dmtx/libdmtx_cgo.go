//go:build dmtx_cgo

package dmtx

/*
#cgo LDFLAGS: -ldmtx
#include <stdlib.h>
#include <dmtx.h>
*/
import "C"

import (
	"time"
	"unsafe"
)

// newNativeLibrary links the real libdmtx adapter.
func newNativeLibrary() library { return &cgoLibrary{} }

type cgoLibrary struct{}

// cgoImage pairs the native image handle with the C copy of the pixel buffer
// it references; the buffer must outlive the handle.
type cgoImage struct {
	img    *C.DmtxImage
	pix    unsafe.Pointer
	height int
}

// cgoDecoder carries the shrink factor and source height needed to map
// region coordinates back into the original image.
type cgoDecoder struct {
	dec    *C.DmtxDecode
	shrink int
	height int
}

func (l *cgoLibrary) createImage(pix []byte, width, height int, pack packOrder) imageRef {
	var cPack C.int
	switch pack {
	case pack8bppK:
		cPack = C.DmtxPack8bppK
	case pack16bppRGB:
		cPack = C.DmtxPack16bppRGB
	case pack24bppRGB:
		cPack = C.DmtxPack24bppRGB
	default:
		cPack = C.DmtxPack32bppRGBX
	}

	// libdmtx keeps a reference to the buffer, so hand it a C copy that we
	// free together with the handle.
	cPix := C.CBytes(pix)
	img := C.dmtxImageCreate((*C.uchar)(cPix), C.int(width), C.int(height), cPack)
	if img == nil {
		C.free(cPix)
		return nil
	}
	return &cgoImage{img: img, pix: cPix, height: height}
}

func (l *cgoLibrary) destroyImage(img imageRef) {
	ci := img.(*cgoImage)
	C.dmtxImageDestroy(&ci.img)
	C.free(ci.pix)
}

func (l *cgoLibrary) createDecoder(img imageRef, shrink int) decoderRef {
	ci := img.(*cgoImage)
	dec := C.dmtxDecodeCreate(ci.img, C.int(shrink))
	if dec == nil {
		return nil
	}
	return &cgoDecoder{dec: dec, shrink: shrink, height: ci.height}
}

func (l *cgoLibrary) destroyDecoder(dec decoderRef) {
	cd := dec.(*cgoDecoder)
	C.dmtxDecodeDestroy(&cd.dec)
}

func (l *cgoLibrary) setProperty(dec decoderRef, prop decodeProp, value int) {
	cd := dec.(*cgoDecoder)
	var cProp C.int
	switch prop {
	case propScanGap:
		cProp = C.DmtxPropScanGap
	case propSymbolSize:
		cProp = C.DmtxPropSymbolSize
	case propSquareDevn:
		cProp = C.DmtxPropSquareDevn
	case propEdgeThresh:
		cProp = C.DmtxPropEdgeThresh
	case propEdgeMin:
		cProp = C.DmtxPropEdgeMin
	default:
		cProp = C.DmtxPropEdgeMax
	}
	C.dmtxDecodeSetProp(cd.dec, cProp, C.int(value))
}

func (l *cgoLibrary) findNextRegion(dec decoderRef, deadline time.Time) regionRef {
	cd := dec.(*cgoDecoder)
	var reg *C.DmtxRegion
	if deadline.IsZero() {
		reg = C.dmtxRegionFindNext(cd.dec, nil)
	} else {
		msec := time.Until(deadline).Milliseconds()
		if msec < 0 {
			msec = 0
		}
		t := C.dmtxTimeAdd(C.dmtxTimeNow(), C.long(msec))
		reg = C.dmtxRegionFindNext(cd.dec, &t)
	}
	if reg == nil {
		return nil
	}
	return reg
}

func (l *cgoLibrary) destroyRegion(reg regionRef) {
	r := reg.(*C.DmtxRegion)
	C.dmtxRegionDestroy(&r)
}

func (l *cgoLibrary) decodeRegion(dec decoderRef, reg regionRef, corrections int) messageRef {
	cd := dec.(*cgoDecoder)
	r := reg.(*C.DmtxRegion)
	cCorr := C.int(C.DmtxUndefined)
	if corrections > 0 {
		cCorr = C.int(corrections)
	}
	msg := C.dmtxDecodeMatrixRegion(cd.dec, r, cCorr)
	if msg == nil {
		return nil
	}
	return msg
}

func (l *cgoLibrary) destroyMessage(msg messageRef) {
	m := msg.(*C.DmtxMessage)
	C.dmtxMessageDestroy(&m)
}

func (l *cgoLibrary) messageData(msg messageRef) []byte {
	m := msg.(*C.DmtxMessage)
	return C.GoBytes(unsafe.Pointer(m.output), C.int(m.outputIdx))
}

func (l *cgoLibrary) regionBounds(dec decoderRef, reg regionRef) Rect {
	cd := dec.(*cgoDecoder)
	r := reg.(*C.DmtxRegion)

	// Map the fitted unit square back into raw (scaled, bottom-left origin)
	// coordinates, then undo the shrink factor and flip the Y axis.
	p00 := C.DmtxVector2{}
	p11 := C.DmtxVector2{X: 1.0, Y: 1.0}
	C.dmtxMatrix3VMultiplyBy(&p00, &r.fit2raw[0])
	C.dmtxMatrix3VMultiplyBy(&p11, &r.fit2raw[0])

	s := float64(cd.shrink)
	x0 := int(s*float64(p00.X) + 0.5)
	y0 := int(s*float64(p00.Y) + 0.5)
	x1 := int(s*float64(p11.X) + 0.5)
	y1 := int(s*float64(p11.Y) + 0.5)

	left, right := x0, x1
	if left > right {
		left, right = right, left
	}
	yMin, yMax := y0, y1
	if yMin > yMax {
		yMin, yMax = yMax, yMin
	}
	return Rect{
		Left:   left,
		Top:    cd.height - 1 - yMax,
		Width:  right - left,
		Height: yMax - yMin,
	}
}

func (l *cgoLibrary) version() string {
	return C.GoString(C.dmtxVersion())
}
