package abi

import (
	"unsafe"

	"github.com/opd-ai/commsbridge/status"
)

// Arena tracks the allocations made while building one record tree.
//
// An Arena is used by a single goroutine. It must end with exactly one call
// to Commit or Rollback.
type Arena struct {
	alloc Allocator
	owned []unsafe.Pointer
}

// NewArena creates an arena over alloc.
func NewArena(alloc Allocator) *Arena {
	return &Arena{alloc: alloc}
}

// Alloc returns size zeroed bytes owned by the arena.
func (a *Arena) Alloc(size uintptr) (unsafe.Pointer, error) {
	if size == 0 {
		size = 1
	}
	p := a.alloc.Alloc(size)
	if p == nil {
		return nil, status.Allocation(size)
	}
	clear(unsafe.Slice((*byte)(p), size))
	a.owned = append(a.owned, p)
	return p, nil
}

// String copies s into a new NUL-terminated allocation.
func (a *Arena) String(s string) (Str, error) {
	p, err := a.Alloc(uintptr(len(s)) + 1)
	if err != nil {
		return Str{}, err
	}
	copy(unsafe.Slice((*byte)(p), len(s)), s)
	return Str{p: p}, nil
}

// Strings copies ss into a block of owned string pointers.
func (a *Arena) Strings(ss []string) (StrArray, error) {
	if len(ss) == 0 {
		return StrArray{}, nil
	}
	block, err := a.Alloc(uintptr(len(ss)) * unsafe.Sizeof(Str{}))
	if err != nil {
		return StrArray{}, err
	}
	elems := unsafe.Slice((*Str)(block), len(ss))
	for i, s := range ss {
		if elems[i], err = a.String(s); err != nil {
			return StrArray{}, err
		}
	}
	return StrArray{Data: block, Count: int32(len(ss))}, nil
}

// Bytes returns a zeroed owned buffer of n bytes.
func (a *Arena) Bytes(n int) (Bytes, error) {
	if n < 0 {
		return Bytes{}, status.New(status.KindInvalidInput).Detail("negative buffer size %d", n).Build()
	}
	p, err := a.Alloc(uintptr(n))
	if err != nil {
		return Bytes{}, err
	}
	return Bytes{Data: p, Len: int32(n)}, nil
}

// Rollback frees every allocation made through the arena.
func (a *Arena) Rollback() {
	for i := len(a.owned) - 1; i >= 0; i-- {
		a.alloc.Free(a.owned[i])
	}
	a.owned = nil
}

// Commit transfers every allocation to the receiver. The arena forgets them.
func (a *Arena) Commit() {
	a.owned = nil
}

// Len returns the number of allocations currently tracked.
func (a *Arena) Len() int {
	return len(a.owned)
}

// New allocates one zeroed record of type R in the arena.
func New[R any](a *Arena) (*R, error) {
	var zero R
	p, err := a.Alloc(unsafe.Sizeof(zero))
	if err != nil {
		return nil, err
	}
	return (*R)(p), nil
}

// NewArray allocates a block of n record pointers. Elements start nil.
func NewArray[R any](a *Arena, n int) (Array[R], error) {
	if n == 0 {
		return Array[R]{}, nil
	}
	block, err := a.Alloc(uintptr(n) * unsafe.Sizeof(uintptr(0)))
	if err != nil {
		return Array[R]{}, err
	}
	return Array[R]{Data: block, Count: int32(n)}, nil
}
