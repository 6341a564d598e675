package dmtx

import (
	"errors"
	"fmt"
)

// Error is the error type returned for every decode failure reported by this
// package: unsupported bit depth, inconsistent dimensions, or a failed native
// handle construction.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

func errorf(format string, args ...any) error {
	return &Error{msg: "dmtx: " + fmt.Sprintf(format, args...)}
}

// ErrNotLinked is returned by Decode when the package was built without the
// dmtx_cgo tag and no native libdmtx adapter is linked in.
var ErrNotLinked = errors.New("dmtx: libdmtx backend not linked; build with -tags=dmtx_cgo")
