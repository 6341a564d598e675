package utils

import "fmt"

// ImageProcessingError wraps errors that occur during image loading, decoding
// or saving, tagged with the operation that failed.
type ImageProcessingError struct {
	Operation string
	Err       error
}

func (e *ImageProcessingError) Error() string {
	return fmt.Sprintf("image %s failed: %v", e.Operation, e.Err)
}

func (e *ImageProcessingError) Unwrap() error {
	return e.Err
}
