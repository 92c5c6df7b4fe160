package status

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opd-ai/commsbridge/sdk"
)

// Kind categorizes a bridge error.
type Kind string

const (
	KindInvalidInput       Kind = "invalid_input"
	KindInvalidEnum        Kind = "invalid_enum"
	KindNilPointer         Kind = "nil_pointer"
	KindCapacity           Kind = "capacity"
	KindAllocation         Kind = "allocation"
	KindInternal           Kind = "internal"
	KindDuplicate          Kind = "duplicate_subscription"
	KindNotFound           Kind = "not_found"
	KindNotInitialized     Kind = "not_initialized"
	KindAlreadyInitialized Kind = "already_initialized"
)

// Error is the structured error produced inside the bridge.
type Error struct {
	Value  any
	Cause  error
	Kind   Kind
	Op     string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a bridge error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for errors.Is comparisons. Only Kind is compared.
var (
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
	ErrInvalidEnum        = &Error{Kind: KindInvalidEnum}
	ErrNilPointer         = &Error{Kind: KindNilPointer}
	ErrCapacity           = &Error{Kind: KindCapacity}
	ErrAllocation         = &Error{Kind: KindAllocation}
	ErrInternal           = &Error{Kind: KindInternal}
	ErrDuplicate          = &Error{Kind: KindDuplicate}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrNotInitialized     = &Error{Kind: KindNotInitialized}
	ErrAlreadyInitialized = &Error{Kind: KindAlreadyInitialized}
)

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(kind Kind) *Builder {
	return &Builder{err: Error{Kind: kind}}
}

// Op sets the operation name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	e := b.err
	return &e
}

// InvalidEnum reports an integer that names no enumerator of enum.
func InvalidEnum(path []string, enum string, value int32) *Error {
	return &Error{
		Kind:   KindInvalidEnum,
		Path:   path,
		Value:  value,
		Detail: fmt.Sprintf("%d is not a valid %s", value, enum),
	}
}

// NilPointer reports a required record pointer that was nil.
func NilPointer(path ...string) *Error {
	return &Error{Kind: KindNilPointer, Path: path}
}

// Allocation reports an allocator failure for size bytes.
func Allocation(size uintptr) *Error {
	return &Error{
		Kind:   KindAllocation,
		Value:  size,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
	}
}

// CodeOf reduces err to the status code reported across the boundary.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}

	var bridgeErr *Error
	if errors.As(err, &bridgeErr) {
		switch bridgeErr.Kind {
		case KindInvalidInput, KindInvalidEnum, KindNilPointer, KindCapacity:
			return Validation
		case KindDuplicate:
			return Duplicate
		case KindNotFound:
			return NotFound
		case KindNotInitialized:
			return NotInitialized
		case KindAlreadyInitialized:
			return AlreadyInitialized
		case KindAllocation, KindInternal:
			return Internal
		}
	}

	var sdkErr *sdk.Error
	if errors.As(err, &sdkErr) {
		return SDKFailure
	}

	return Internal
}
