package memory

import (
	"github.com/wippyai/boundstack"
	"github.com/wippyai/boundstack/errors"
)

// SliceRegion is a Region over a Go byte slice.
// Read returns a view into the slice, not a copy.
type SliceRegion struct {
	buf []byte
}

// Slice wraps buf as a Region. It returns nil for a nil buf so that callers
// binding a stack to it get an invalid argument error.
func Slice(buf []byte) boundstack.Region {
	if buf == nil {
		return nil
	}
	return &SliceRegion{buf: buf}
}

// Size returns the region length in bytes.
func (r *SliceRegion) Size() uint32 {
	return uint32(len(r.buf))
}

// Read returns length bytes starting at offset.
func (r *SliceRegion) Read(offset uint32, length uint32) ([]byte, error) {
	if !inRange(offset, length, r.Size()) {
		return nil, errors.OutOfBounds(errors.PhaseMemory, offset, length, r.Size())
	}
	return r.buf[offset : offset+length], nil
}

// Write copies data into the region at offset.
func (r *SliceRegion) Write(offset uint32, data []byte) error {
	length := uint32(len(data))
	if !inRange(offset, length, r.Size()) {
		return errors.OutOfBounds(errors.PhaseMemory, offset, length, r.Size())
	}
	copy(r.buf[offset:], data)
	return nil
}

func inRange(offset, length, size uint32) bool {
	return uint64(offset)+uint64(length) <= uint64(size)
}
