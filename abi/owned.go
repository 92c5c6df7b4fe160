package abi

import (
	"unsafe"

	"github.com/opd-ai/commsbridge/limits"
	"github.com/opd-ai/commsbridge/status"
)

// Str is an owned NUL-terminated string. The zero value reads as "".
// Layout: one pointer (8 bytes on 64-bit), identical to char*.
type Str struct {
	p unsafe.Pointer
}

// StrAt wraps a foreign char* without copying.
func StrAt(p unsafe.Pointer) Str {
	return Str{p: p}
}

// Ptr returns the underlying char*.
func (s Str) Ptr() unsafe.Pointer {
	return s.p
}

// IsNil reports whether the pointer is nil.
func (s Str) IsNil() bool {
	return s.p == nil
}

// Read copies the string into Go memory. It fails if no NUL terminator is
// found within limits.MaxStringSize bytes.
func (s Str) Read() (string, error) {
	if s.p == nil {
		return "", nil
	}
	for n := 0; n <= limits.MaxStringSize; n++ {
		if *(*byte)(unsafe.Add(s.p, n)) == 0 {
			return string(unsafe.Slice((*byte)(s.p), n)), nil
		}
	}
	return "", status.New(status.KindInvalidInput).
		Detail("string is not terminated within %d bytes", limits.MaxStringSize).
		Build()
}

// String copies the string into Go memory, returning "" when unreadable.
func (s Str) String() string {
	v, _ := s.Read()
	return v
}

// StrArray is a contiguous block of Count owned string pointers.
// Layout: pointer (8) + count (4) + padding (4) = 16 bytes on 64-bit.
type StrArray struct {
	Data  unsafe.Pointer // char*[Count]
	Count int32
	_     [4]byte
}

// At returns element i.
func (a StrArray) At(i int) Str {
	return unsafe.Slice((*Str)(a.Data), a.Count)[i]
}

// Strings copies all elements into Go memory.
func (a StrArray) Strings() []string {
	if a.Data == nil || a.Count <= 0 {
		return nil
	}
	elems := unsafe.Slice((*Str)(a.Data), a.Count)
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = e.String()
	}
	return out
}

// Array is a contiguous block of Count owned record pointers.
// Layout: pointer (8) + count (4) + padding (4) = 16 bytes on 64-bit.
type Array[R any] struct {
	Data  unsafe.Pointer // R*[Count]
	Count int32
	_     [4]byte
}

// Len returns the element count.
func (a Array[R]) Len() int {
	if a.Data == nil || a.Count < 0 {
		return 0
	}
	return int(a.Count)
}

// At returns element i.
func (a Array[R]) At(i int) *R {
	return unsafe.Slice((**R)(a.Data), a.Count)[i]
}

// Set stores element i.
func (a Array[R]) Set(i int, r *R) {
	unsafe.Slice((**R)(a.Data), a.Count)[i] = r
}

// Bytes is an owned byte buffer.
// Layout: pointer (8) + length (4) + padding (4) = 16 bytes on 64-bit.
type Bytes struct {
	Data unsafe.Pointer // uint8_t[Len]
	Len  int32
	_    [4]byte
}

// Slice returns a view of the buffer. It aliases the owned memory.
func (b Bytes) Slice() []byte {
	if b.Data == nil || b.Len <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(b.Data), b.Len)
}
