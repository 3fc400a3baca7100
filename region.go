package boundstack

// Region is a contiguous, byte-addressed block of memory backing a stack.
// Offsets are relative to the start of the region.
type Region interface {
	Size() uint32
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
}

// Allocator hands out regions that the caller owns until Free.
type Allocator interface {
	Alloc(size uint32) (Region, error)
	Free(r Region)
}
