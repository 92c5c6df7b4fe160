package video

import "errors"

// Sentinel errors for frame conversion.
var (
	// ErrUnsupportedFormat indicates a pixel format the sink cannot convert
	ErrUnsupportedFormat = errors.New("unsupported pixel format")

	// ErrPlaneTooSmall indicates a plane shorter than its stride and height require
	ErrPlaneTooSmall = errors.New("plane too small")

	// ErrBufferTooSmall indicates an output buffer shorter than width*height*4
	ErrBufferTooSmall = errors.New("output buffer too small")
)
