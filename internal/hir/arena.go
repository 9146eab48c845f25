package hir

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena is a 1-based generic arena, the same shape as the teacher's
// internal/ast.Arena[T]: index 0 is reserved so the matching *Idx type's
// zero value can mean "absent" instead of colliding with a real element.
type Arena[T any] struct {
	data []T
}

// NewArena creates an Arena with a capacity hint.
func NewArena[T any](capHint uint) *Arena[T] {
	a := &Arena[T]{data: make([]T, 1, capHint+1)} // data[0] is the unused sentinel slot
	return a
}

// Allocate stores value and returns its 1-based index.
func (a *Arena[T]) Allocate(value T) uint32 {
	idx, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("hir: arena index overflow: %w", err))
	}
	a.data = append(a.data, value)
	return idx
}

// Get returns a pointer to the element at index, or nil if index is 0 or
// out of range.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || int(index) >= len(a.data) {
		return nil
	}
	return &a.data[index]
}

// Len returns the number of real (non-sentinel) elements.
func (a *Arena[T]) Len() uint32 {
	n, err := safecast.Conv[uint32](len(a.data) - 1)
	if err != nil {
		panic(fmt.Errorf("hir: arena length overflow: %w", err))
	}
	return n
}

// Slice returns every real element, in allocation order.
func (a *Arena[T]) Slice() []T {
	if len(a.data) <= 1 {
		return nil
	}
	return a.data[1:]
}
