// Package element describes the units stored on a stack.
//
// A Codec converts between a Go value and its fixed-size little-endian
// encoding. A Layout names a WIT scalar type and carries its canonical ABI
// size and alignment, so a unit size can be chosen by type name:
//
//	l, err := element.Parse("u32")  // Layout{Name: "u32", Size: 4, Align: 4}
//	s, err := stack.Create(heap, 64, l.Size)
//	ts, err := stack.NewTyped(s, element.U32)
//
// Layouts also convert units to and from text for the command line driver.
package element
