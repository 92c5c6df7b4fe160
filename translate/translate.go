package translate

import (
	"github.com/opd-ai/commsbridge/abi"
	"github.com/opd-ai/commsbridge/status"
)

// Translator converts between a domain value D and an abi record R.
type Translator[D any, R any] interface {
	// ToExternal populates dst from src. All allocations go through a.
	ToExternal(a *abi.Arena, src D, dst *R) error

	// ToInternal builds a domain value from src.
	ToInternal(src *R) (D, error)
}

// Export allocates a new record and fills it from src. On failure every
// allocation is released and nil is returned.
func Export[D, R any](t Translator[D, R], alloc abi.Allocator, src D) (*R, error) {
	arena := abi.NewArena(alloc)
	dst, err := abi.New[R](arena)
	if err == nil {
		err = t.ToExternal(arena, src, dst)
	}
	if err != nil {
		arena.Rollback()
		return nil, err
	}
	arena.Commit()
	return dst, nil
}

// ExportInto fills caller-provided storage from src. dst is written only
// once translation succeeds. On failure it is left untouched and every
// allocation is released.
func ExportInto[D, R any](t Translator[D, R], alloc abi.Allocator, src D, dst *R) error {
	if dst == nil {
		return status.NilPointer("result")
	}
	arena := abi.NewArena(alloc)
	var rec R
	if err := t.ToExternal(arena, src, &rec); err != nil {
		arena.Rollback()
		return err
	}
	arena.Commit()
	*dst = rec
	return nil
}

// Import reads a record into a domain value. A nil record is a validation
// error.
func Import[D, R any](t Translator[D, R], src *R, path string) (D, error) {
	if src == nil {
		var zero D
		return zero, status.NilPointer(path)
	}
	return t.ToInternal(src)
}

func ptr[T any](v T) *T {
	return &v
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
