// Package memory provides Region and Allocator implementations for stacks.
//
// # Go Memory
//
// Borrow an existing buffer, or let a budgeted heap allocator own it:
//
//	r := memory.Slice(buf)
//
//	heap := memory.NewHeap(64 << 10) // 64 KiB budget, 0 for unlimited
//	r, err := heap.Alloc(20)
//	defer heap.Free(r)
//
// # WebAssembly Linear Memory
//
// Window adapts a range of wazero linear memory to a Region:
//
//	lm, err := memory.NewLinearMemory(ctx, rt, 1, nil)
//	defer lm.Close(ctx)
//	r, err := memory.NewWindow(lm.Memory(), 0, 4096)
//
// PageAllocator grows linear memory by whole 64 KiB pages per allocation.
// Linear memory can only grow, never shrink, so freed windows are zeroed and
// kept for reuse by later allocations of the same page count or less.
package memory
