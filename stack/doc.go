// Package stack implements bounded, byte-addressed element stacks.
//
// # Core
//
// Bytes binds a last-in-first-out sequence of fixed-size units to a Region
// supplied by the caller. It never grows, never frees the region, and
// copies exactly UnitSize bytes per Push and Pop:
//
//	s, err := stack.Init(memory.Slice(buf), uint32(len(buf)), 4)
//	err = s.Push([]byte{1, 0, 0, 0})
//	out := make([]byte, 4)
//	err = s.Pop(out)
//
// Failed operations leave the stack unchanged. Overflow, underflow and bad
// arguments are reported as *errors.Error values of the matching Kind.
//
// # Capacity
//
// The last byte of the region's capacity is reserved. A stack of capacity
// bytes holds (capacity-1)/unit units, and Init rejects capacity <= unit.
//
// # Owned Stacks
//
// Create obtains the region from an Allocator and Destroy returns it:
//
//	s, err := stack.Create(memory.NewHeap(0), 20, 4)
//	defer s.Destroy()
//
// After Destroy every operation returns a not-initialized error.
//
// # Typed Stacks
//
// Typed pairs any Stack with an element.Codec for type-safe access:
//
//	ts, err := stack.NewTyped(s, element.U32)
//	err = ts.Push(7)
//	v, err := ts.Pop()
//
// Stacks are not safe for concurrent use.
package stack
