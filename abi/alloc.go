package abi

import (
	"sync"
	"unsafe"
)

// Allocator provides memory that is handed to the foreign caller.
type Allocator interface {
	// Alloc returns size bytes of memory aligned for any record, or nil
	// when the allocation fails. The memory need not be zeroed.
	Alloc(size uintptr) unsafe.Pointer

	// Free releases memory obtained from Alloc.
	Free(p unsafe.Pointer)
}

// HeapAllocator allocates from the Go heap.
//
// It is used when both sides of the boundary are Go code, and by tests.
// Allocations stay reachable until freed, so the pointers stored in records
// remain valid even though the garbage collector does not scan them.
type HeapAllocator struct {
	mu   sync.Mutex
	live map[unsafe.Pointer][]uint64
}

// NewHeapAllocator creates an empty heap allocator.
func NewHeapAllocator() *HeapAllocator {
	return &HeapAllocator{live: make(map[unsafe.Pointer][]uint64)}
}

// Alloc implements Allocator.
func (h *HeapAllocator) Alloc(size uintptr) unsafe.Pointer {
	if size == 0 {
		size = 1
	}
	// uint64 backing keeps every block 8-byte aligned
	block := make([]uint64, (size+7)/8)
	p := unsafe.Pointer(&block[0])

	h.mu.Lock()
	h.live[p] = block
	h.mu.Unlock()
	return p
}

// Free implements Allocator.
func (h *HeapAllocator) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}
	h.mu.Lock()
	delete(h.live, p)
	h.mu.Unlock()
}

// Live returns the number of allocations not yet freed.
func (h *HeapAllocator) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.live)
}

// Owns reports whether p is a live allocation of h.
func (h *HeapAllocator) Owns(p unsafe.Pointer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.live[p]
	return ok
}
