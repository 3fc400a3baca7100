// Package boundstack provides fixed-capacity, byte-addressed stacks of
// uniformly sized elements.
//
// A stack is bound to a contiguous memory region at construction time and
// never grows. Elements are opaque units of a caller-chosen byte size that
// are copied verbatim on push and pop.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	boundstack/          Root package with core Region and Allocator interfaces
//	├── stack/           Bounded element stack, allocator-owned stacks, typed view
//	├── memory/          Region and Allocator implementations (Go heap, wazero linear memory)
//	├── element/         Element codecs and WIT scalar layouts
//	├── errors/          Structured error types
//	└── cmd/stack/       Command line driver and interactive inspector
//
// # Quick Start
//
// Bind a stack to caller-owned memory:
//
//	buf := make([]byte, 20)
//	s, err := stack.InitSlice(buf, 4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = s.Push([]byte{1, 0, 0, 0})
//
// Or let an allocator own the region:
//
//	s, err := stack.Create(memory.NewHeap(0), 20, 4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Destroy()
//
// # Capacity
//
// The last byte of every region is reserved, so a region of capacity bytes
// holds (capacity-1)/unit elements and initialization requires capacity to
// be strictly greater than unit. A 20 byte region with a 4 byte unit holds
// 4 elements; any region from 5 to 8 bytes holds one.
//
// # Thread Safety
//
// Stacks are NOT thread-safe. Callers that share a stack between goroutines
// must serialize every call themselves. The Heap allocator is safe for
// concurrent use.
package boundstack
