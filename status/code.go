package status

// Code is the status returned by every exported operation. Zero is success.
type Code int32

const (
	OK                 Code = 0
	SDKFailure         Code = 1
	Internal           Code = 2
	Validation         Code = 3
	Duplicate          Code = 4
	NotFound           Code = 5
	NotInitialized     Code = 6
	AlreadyInitialized Code = 7
)

// String returns the name of the code.
func (c Code) String() string {
	switch c {
	case OK:
		return "ok"
	case SDKFailure:
		return "sdk_failure"
	case Internal:
		return "internal"
	case Validation:
		return "validation"
	case Duplicate:
		return "duplicate"
	case NotFound:
		return "not_found"
	case NotInitialized:
		return "not_initialized"
	case AlreadyInitialized:
		return "already_initialized"
	default:
		return "unknown"
	}
}
