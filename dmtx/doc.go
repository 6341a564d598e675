// Package dmtx reads Data Matrix barcodes by binding to the native libdmtx
// library. The package itself does no symbol detection or error correction;
// it validates and normalizes pixel buffers, hands them to libdmtx, and maps
// the native results back into Go values.
//
// The native adapter is compiled behind the build tag `dmtx_cgo` and links
// against libdmtx (-ldmtx). Without the tag the package still builds and its
// validation surface works, but Decode returns ErrNotLinked.
//
// Example:
//
//	f, _ := os.Open("label.png")
//	img, _, _ := image.Decode(f)
//	symbols, err := dmtx.DecodeImage(img, dmtx.Options{MaxCount: 1})
package dmtx
