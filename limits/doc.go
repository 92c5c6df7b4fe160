// Package limits provides centralized size constants and validation functions
// for data crossing the bridge boundary. This package ensures consistent size
// enforcement between the record translators and the exported operations.
//
// # Limits
//
//   - MaxMessageSize (16384 bytes): the largest conference message the SDK
//     accepts. Larger messages are rejected before any SDK call.
//
//   - MaxPermissions: capacity of the fixed permissions array embedded in a
//     conference record. It equals the number of known permissions, so a
//     permission list only overflows if it carries duplicates or junk.
//
//   - MaxStringSize (1MB): the absolute maximum for a single string copied
//     out of a foreign record. This bounds the NUL scan over foreign memory.
//
//   - MaxFrameDimension: the largest accepted video frame width or height.
//
// # Validation Functions
//
// Each validation function checks for empty input and size limit violations:
//
//	err := limits.ValidateMessage(message)
//	if err != nil {
//	    // Handle validation error (ErrMessageEmpty or ErrMessageTooLarge)
//	}
//
// For custom size limits, use the generic ValidateMessageSize function:
//
//	err := limits.ValidateMessageSize(data, 4096)
package limits
