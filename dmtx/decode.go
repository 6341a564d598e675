package dmtx

import (
	"context"
	"image"
	"time"
)

// Decode scans a pixel buffer for Data Matrix symbols and returns one Decoded
// record per symbol, in the native library's region-discovery order. The call
// blocks until libdmtx finishes; an empty result means no symbols were found.
func Decode(p Pixels, opts Options) ([]Decoded, error) {
	return DecodeContext(context.Background(), p, opts)
}

// DecodeImage is Decode over an image-library object.
func DecodeImage(img image.Image, opts Options) ([]Decoded, error) {
	return Decode(FromImage(img), opts)
}

// DecodeMatrix is Decode over a row-major grayscale matrix.
func DecodeMatrix(rows [][]uint8, opts Options) ([]Decoded, error) {
	p, err := FromMatrix(rows)
	if err != nil {
		return nil, err
	}
	return Decode(p, opts)
}

// DecodeContext is Decode with cancellation checked between regions. The
// native region search itself is not interruptible; use Options.Timeout to
// bound it.
func DecodeContext(ctx context.Context, p Pixels, opts Options) ([]Decoded, error) {
	pack, err := p.packOrder()
	if err != nil {
		return nil, err
	}

	lib := nativeLib
	if lib == nil {
		return nil, ErrNotLinked
	}

	img := lib.createImage(p.Pix, p.Width, p.Height, pack)
	if img == nil {
		return nil, errorf("could not create image")
	}
	defer lib.destroyImage(img)

	dec := lib.createDecoder(img, opts.shrink())
	if dec == nil {
		return nil, errorf("could not create decoder")
	}
	defer lib.destroyDecoder(dec)

	applyOptions(lib, dec, opts)

	var deadline time.Time
	if opts.Timeout > 0 {
		deadline = time.Now().Add(opts.Timeout)
	}

	var results []Decoded
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		reg := lib.findNextRegion(dec, deadline)
		if reg == nil {
			break
		}
		// A region that fails to decode into a message is skipped; the
		// scan continues with the next candidate.
		if msg := lib.decodeRegion(dec, reg, opts.Corrections); msg != nil {
			results = append(results, Decoded{
				Data: lib.messageData(msg),
				Rect: lib.regionBounds(dec, reg),
			})
			lib.destroyMessage(msg)
		}
		lib.destroyRegion(reg)
		if opts.MaxCount > 0 && len(results) >= opts.MaxCount {
			break
		}
	}
	return results, nil
}

func applyOptions(lib library, dec decoderRef, opts Options) {
	if opts.GapSize > 0 {
		lib.setProperty(dec, propScanGap, opts.GapSize)
	}
	if opts.SymbolSize > 0 {
		lib.setProperty(dec, propSymbolSize, opts.SymbolSize)
	}
	if opts.Deviation > 0 {
		lib.setProperty(dec, propSquareDevn, opts.Deviation)
	}
	if opts.Threshold > 0 {
		lib.setProperty(dec, propEdgeThresh, opts.Threshold)
	}
	if opts.MinEdge > 0 {
		lib.setProperty(dec, propEdgeMin, opts.MinEdge)
	}
	if opts.MaxEdge > 0 {
		lib.setProperty(dec, propEdgeMax, opts.MaxEdge)
	}
}
