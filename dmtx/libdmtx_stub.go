//go:build !dmtx_cgo

package dmtx

// newNativeLibrary returns nil in builds without the dmtx_cgo tag; Decode
// reports ErrNotLinked instead of touching native code.
func newNativeLibrary() library { return nil }
