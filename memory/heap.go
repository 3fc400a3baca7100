package memory

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/boundstack"
	"github.com/wippyai/boundstack/errors"
)

// Heap allocates regions from the Go heap, optionally within a byte budget.
// It is safe for concurrent use.
type Heap struct {
	live  map[*heapRegion]struct{}
	limit uint64
	inUse uint64
	mu    sync.Mutex
}

type heapRegion struct {
	SliceRegion
}

// NewHeap creates a heap allocator. A limit of 0 means no budget.
func NewHeap(limit uint64) *Heap {
	return &Heap{
		live:  make(map[*heapRegion]struct{}),
		limit: limit,
	}
}

// Alloc returns a zeroed region of size bytes.
func (h *Heap) Alloc(size uint32) (boundstack.Region, error) {
	if size == 0 {
		return nil, errors.InvalidArgument(errors.PhaseAlloc, "zero-sized allocation")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.limit > 0 && h.inUse+uint64(size) > h.limit {
		Logger().Debug("heap budget exhausted",
			zap.Uint32("size", size),
			zap.Uint64("in_use", h.inUse),
			zap.Uint64("limit", h.limit))
		return nil, errors.AllocationFailed(errors.PhaseAlloc, size,
			fmt.Errorf("budget of %d bytes has %d in use", h.limit, h.inUse))
	}

	r := &heapRegion{SliceRegion{buf: make([]byte, size)}}
	h.live[r] = struct{}{}
	h.inUse += uint64(size)
	return r, nil
}

// Free releases a region obtained from Alloc. Regions from other allocators
// and regions already freed are ignored.
func (h *Heap) Free(r boundstack.Region) {
	hr, ok := r.(*heapRegion)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, live := h.live[hr]; !live {
		return
	}
	delete(h.live, hr)
	h.inUse -= uint64(len(hr.buf))
	hr.buf = nil
}

// InUse returns the number of bytes currently allocated.
func (h *Heap) InUse() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inUse
}

// Limit returns the byte budget, or 0 when unbounded.
func (h *Heap) Limit() uint64 {
	return h.limit
}
