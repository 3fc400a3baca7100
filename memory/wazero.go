package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/boundstack"
	"github.com/wippyai/boundstack/errors"
	"github.com/wippyai/boundstack/internal/binary"
)

// PageSize is the WebAssembly linear memory page size.
const PageSize = 65536

// ExportName is the export under which NewLinearMemory publishes its memory.
const ExportName = "memory"

var moduleSeq atomic.Uint64

// LinearMemory is a memory-only module instantiated in a wazero runtime.
type LinearMemory struct {
	mod api.Module
	mem api.Memory
}

// NewLinearMemory instantiates a module that declares and exports a single
// linear memory of minPages pages. A nil maxPages leaves the memory unbounded.
func NewLinearMemory(ctx context.Context, rt wazero.Runtime, minPages uint32, maxPages *uint32) (*LinearMemory, error) {
	if rt == nil {
		return nil, errors.InvalidArgument(errors.PhaseMemory, "nil runtime")
	}
	if maxPages != nil && *maxPages < minPages {
		return nil, errors.New(errors.PhaseMemory, errors.KindInvalidArgument).
			Detail("max pages %d below min pages %d", *maxPages, minPages).
			Build()
	}

	compiled, err := rt.CompileModule(ctx, binary.MemoryModule(ExportName, minPages, maxPages))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseMemory, errors.KindAllocation, err, "compile memory module")
	}

	name := fmt.Sprintf("boundstack-memory-%d", moduleSeq.Add(1))
	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		_ = compiled.Close(ctx)
		return nil, errors.Wrap(errors.PhaseMemory, errors.KindAllocation, err, "instantiate memory module")
	}

	mem := mod.ExportedMemory(ExportName)
	if mem == nil {
		_ = mod.Close(ctx)
		return nil, errors.NotInitialized(errors.PhaseMemory, "exported memory")
	}

	Logger().Debug("linear memory instantiated",
		zap.String("module", name),
		zap.Uint32("pages", mem.Size()/PageSize))

	return &LinearMemory{mod: mod, mem: mem}, nil
}

// Memory returns the exported linear memory.
func (m *LinearMemory) Memory() api.Memory {
	return m.mem
}

// Close releases the module instance.
func (m *LinearMemory) Close(ctx context.Context) error {
	if m == nil || m.mod == nil {
		return nil
	}
	err := m.mod.Close(ctx)
	m.mod = nil
	m.mem = nil
	return err
}

// Window adapts the range [base, base+size) of wazero linear memory to a Region.
type Window struct {
	mem  api.Memory
	base uint32
	size uint32
}

// NewWindow creates a Window over mem. The range must lie within the
// memory's current size.
func NewWindow(mem api.Memory, base, size uint32) (*Window, error) {
	if mem == nil {
		return nil, errors.InvalidArgument(errors.PhaseMemory, "nil memory")
	}
	if !inRange(base, size, mem.Size()) {
		return nil, errors.OutOfBounds(errors.PhaseMemory, base, size, mem.Size())
	}
	return &Window{mem: mem, base: base, size: size}, nil
}

// Base returns the window's offset within linear memory.
func (w *Window) Base() uint32 {
	return w.base
}

// Size returns the window length in bytes.
func (w *Window) Size() uint32 {
	return w.size
}

// Read reads bytes from the window. The result is a view into linear memory.
func (w *Window) Read(offset uint32, length uint32) ([]byte, error) {
	if w.mem == nil {
		return nil, errors.NotInitialized(errors.PhaseMemory, "window")
	}
	if !inRange(offset, length, w.size) {
		return nil, errors.OutOfBounds(errors.PhaseMemory, offset, length, w.size)
	}
	data, ok := w.mem.Read(w.base+offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseMemory, w.base+offset, length, w.mem.Size())
	}
	return data, nil
}

// Write writes bytes to the window.
func (w *Window) Write(offset uint32, data []byte) error {
	if w.mem == nil {
		return errors.NotInitialized(errors.PhaseMemory, "window")
	}
	length := uint32(len(data))
	if !inRange(offset, length, w.size) {
		return errors.OutOfBounds(errors.PhaseMemory, offset, length, w.size)
	}
	if !w.mem.Write(w.base+offset, data) {
		return errors.OutOfBounds(errors.PhaseMemory, w.base+offset, length, w.mem.Size())
	}
	return nil
}

type span struct {
	base  uint32
	pages uint32
}

// PageAllocator allocates windows of linear memory in whole pages.
// It is safe for concurrent use.
type PageAllocator struct {
	mem   api.Memory
	live  map[*Window]span
	free  []span
	inUse uint64
	mu    sync.Mutex
}

// NewPageAllocator creates an allocator that grows mem on demand.
func NewPageAllocator(mem api.Memory) *PageAllocator {
	return &PageAllocator{
		mem:  mem,
		live: make(map[*Window]span),
	}
}

// Alloc returns a zeroed window of size bytes, reusing a freed span when
// one is large enough and growing linear memory otherwise.
func (a *PageAllocator) Alloc(size uint32) (boundstack.Region, error) {
	if a.mem == nil {
		return nil, errors.NotInitialized(errors.PhaseAlloc, "linear memory")
	}
	if size == 0 {
		return nil, errors.InvalidArgument(errors.PhaseAlloc, "zero-sized allocation")
	}

	pages := uint32((uint64(size) + PageSize - 1) / PageSize)

	a.mu.Lock()
	defer a.mu.Unlock()

	sp, ok := a.takeFree(pages)
	if !ok {
		prev, grown := a.mem.Grow(pages)
		if !grown {
			Logger().Debug("linear memory grow failed",
				zap.Uint32("size", size),
				zap.Uint32("pages", pages),
				zap.Uint32("current_pages", a.mem.Size()/PageSize))
			return nil, errors.AllocationFailed(errors.PhaseAlloc, size,
				fmt.Errorf("grow by %d pages from %d failed", pages, a.mem.Size()/PageSize))
		}
		sp = span{base: prev * PageSize, pages: pages}
		Logger().Debug("linear memory grown",
			zap.Uint32("base", sp.base),
			zap.Uint32("pages", pages))
	}

	w := &Window{mem: a.mem, base: sp.base, size: size}
	a.live[w] = sp
	a.inUse += uint64(size)
	return w, nil
}

// takeFree removes and returns the smallest freed span with at least pages pages.
func (a *PageAllocator) takeFree(pages uint32) (span, bool) {
	best := -1
	for i, s := range a.free {
		if s.pages < pages {
			continue
		}
		if best < 0 || s.pages < a.free[best].pages {
			best = i
		}
	}
	if best < 0 {
		return span{}, false
	}
	sp := a.free[best]
	a.free = append(a.free[:best], a.free[best+1:]...)
	return sp, true
}

// Free zeroes the window and keeps its pages for reuse. Linear memory
// never shrinks. Windows from other allocators and windows already freed
// are ignored.
func (a *PageAllocator) Free(r boundstack.Region) {
	w, ok := r.(*Window)
	if !ok {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	sp, live := a.live[w]
	if !live {
		return
	}
	// Only [base, base+size) was ever handed out, and spans start zeroed,
	// so clearing the window restores the whole span.
	if data, ok := a.mem.Read(sp.base, w.size); ok {
		clear(data)
	}
	delete(a.live, w)
	a.free = append(a.free, sp)
	a.inUse -= uint64(w.size)
	w.mem = nil
}

// InUse returns the number of bytes in live windows.
func (a *PageAllocator) InUse() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inUse
}

// Pages returns the current size of linear memory in pages.
func (a *PageAllocator) Pages() uint32 {
	if a.mem == nil {
		return 0
	}
	return a.mem.Size() / PageSize
}
