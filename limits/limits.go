// Package limits provides centralized size limits for the bridge boundary.
// This ensures consistent validation across different components of the system.
package limits

import (
	"errors"
	"fmt"
)

const (
	// MaxMessageSize is the SDK limit for a conference message (16KB)
	MaxMessageSize = 16384

	// MaxPermissions is the capacity of the permissions array in a conference record
	MaxPermissions = 12

	// MaxStringSize is the absolute maximum for a string read from foreign memory (1MB)
	MaxStringSize = 1024 * 1024

	// MaxFrameDimension is the largest accepted video frame width or height
	MaxFrameDimension = 8192

	// DefaultMaxVideoForwarding is used when connection options leave it unset
	DefaultMaxVideoForwarding = 25

	// BytesPerPixel is the size of one ARGB8888 pixel delivered to video delegates
	BytesPerPixel = 4
)

var (
	// ErrMessageEmpty indicates an empty message was provided
	ErrMessageEmpty = errors.New("empty message")

	// ErrMessageTooLarge indicates message exceeds maximum size
	ErrMessageTooLarge = errors.New("message too large")

	// ErrInvalidFrameSize indicates a frame dimension outside the accepted range
	ErrInvalidFrameSize = errors.New("invalid frame size")
)

// ValidateMessageSize validates a message against the specified maximum size.
// Returns an error with context including the actual and maximum sizes.
func ValidateMessageSize(message []byte, maxSize int) error {
	if len(message) == 0 {
		return ErrMessageEmpty
	}
	if len(message) > maxSize {
		return fmt.Errorf("%w: size %d exceeds limit %d", ErrMessageTooLarge, len(message), maxSize)
	}
	return nil
}

// ValidateMessage validates a conference message against MaxMessageSize.
// Returns an error with context if the message is empty or exceeds the limit.
func ValidateMessage(message string) error {
	if len(message) == 0 {
		return ErrMessageEmpty
	}
	if len(message) > MaxMessageSize {
		return fmt.Errorf("%w: message size %d exceeds limit %d", ErrMessageTooLarge, len(message), MaxMessageSize)
	}
	return nil
}

// ValidateFrameSize checks width and height of a video frame.
func ValidateFrameSize(width, height int) error {
	if width <= 0 || height <= 0 || width > MaxFrameDimension || height > MaxFrameDimension {
		return fmt.Errorf("%w: %dx%d (limit %d)", ErrInvalidFrameSize, width, height, MaxFrameDimension)
	}
	return nil
}

// FrameBufferSize returns the ARGB8888 buffer size for a frame.
func FrameBufferSize(width, height int) int {
	return width * height * BytesPerPixel
}
