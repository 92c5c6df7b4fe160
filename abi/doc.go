// Package abi defines the fixed-layout records exchanged with the foreign
// caller and the primitives that give the caller ownership of variable-length
// data.
//
// # Records
//
// Every record is a flat struct of primitive fields, owned strings ([Str]),
// fixed-capacity arrays and pointer+count pairs. The field order and padding
// of each record match the C declarations in the capi package on 64-bit
// platforms; layout_test.go pins the sizes and offsets.
//
// # Ownership Transfer
//
// Strings, arrays and buffers placed in a record are always fresh copies made
// through an [Allocator]. Allocations for one translation are tracked by an
// [Arena]: on failure the arena is rolled back and every allocation is freed,
// so no half-populated record escapes; on success the arena is committed and
// the receiver owns the memory. The bridge never frees committed memory.
//
//	arena := abi.NewArena(alloc)
//	name, err := arena.String("Alice")
//	if err != nil {
//	    arena.Rollback()
//	    return err
//	}
//	arena.Commit()
//
// Reading a record back ([Str.String], [StrArray.Strings]) copies into Go
// memory, so the record can be released right after.
package abi
