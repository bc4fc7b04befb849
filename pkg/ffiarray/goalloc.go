package ffiarray

import (
	"fmt"
	"sync"
	"unsafe"
)

// GoAllocator hands out Go-heap buffers and pins them in a live set so the
// garbage collector keeps them reachable until Free. It backs the pure-Go
// side of the protocol (tests, native callers); the c-shared build uses the
// C allocator instead. Safe for concurrent use.
type GoAllocator struct {
	mu   sync.Mutex
	live map[unsafe.Pointer][]byte
}

func NewGoAllocator() *GoAllocator {
	return &GoAllocator{live: make(map[unsafe.Pointer][]byte)}
}

func (g *GoAllocator) Alloc(n int) (unsafe.Pointer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid size %d", n)
	}
	buf := make([]byte, n)
	p := unsafe.Pointer(unsafe.SliceData(buf))
	g.mu.Lock()
	g.live[p] = buf
	g.mu.Unlock()
	return p, nil
}

func (g *GoAllocator) Free(p unsafe.Pointer) {
	g.mu.Lock()
	delete(g.live, p)
	g.mu.Unlock()
}

// Live reports how many buffers have been allocated but not yet freed.
func (g *GoAllocator) Live() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.live)
}
