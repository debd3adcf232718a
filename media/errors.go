package media

import (
	"errors"
	"fmt"
)

// InvalidBufferError reports decoder output that fails geometric or
// containment validation. The caller should drop the frame and continue;
// the input, not the pipeline, is at fault.
type InvalidBufferError struct {
	Reason string
}

func (e *InvalidBufferError) Error() string {
	return fmt.Sprintf("media: invalid buffer: %s", e.Reason)
}

// AllocationError reports a failed buffer or image allocation. Size is the
// requested byte count when known.
type AllocationError struct {
	What string
	Size int
}

func (e *AllocationError) Error() string {
	if e.Size > 0 {
		return fmt.Sprintf("media: cannot allocate %d bytes for %s", e.Size, e.What)
	}
	return fmt.Sprintf("media: cannot allocate %s", e.What)
}

// UnsupportedFormatError reports a bit-depth/subsampling pair with no
// conversion routine.
type UnsupportedFormatError struct {
	Depth       ColorDepth
	Subsampling ChromaSubsampling
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("media: source format (color depth=%d, subsampling=%s) not supported",
		int(e.Depth), e.Subsampling)
}

// ConversionError carries the non-zero status returned by a format
// conversion routine.
type ConversionError struct {
	Status int
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("media: conversion to 8-bit failed, status=%d", e.Status)
}

// IsInvalidInput reports whether err describes bad decoder output rather
// than a pipeline or resource failure. Such frames are droppable; the
// stream remains decodable.
func IsInvalidInput(err error) bool {
	var (
		invalid     *InvalidBufferError
		unsupported *UnsupportedFormatError
		conversion  *ConversionError
	)
	return errors.As(err, &invalid) || errors.As(err, &unsupported) || errors.As(err, &conversion)
}
