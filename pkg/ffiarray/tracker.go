package ffiarray

import (
	"errors"
	"sync"
	"unsafe"
)

var (
	ErrDoubleRelease = errors.New("handle released twice")
	ErrUnknownHandle = errors.New("handle was not produced by this allocator")
)

// Tracker wraps an Allocator with a live-handle registry so tests can catch
// double-release and release-of-foreign-memory, which the production protocol
// leaves undefined by contract. Production code uses the bare Allocator and
// pays nothing for this.
type Tracker struct {
	inner Allocator

	mu    sync.Mutex
	live  map[unsafe.Pointer]struct{}
	freed map[unsafe.Pointer]struct{}
	errs  []error
}

func NewTracker(inner Allocator) *Tracker {
	return &Tracker{
		inner: inner,
		live:  make(map[unsafe.Pointer]struct{}),
		freed: make(map[unsafe.Pointer]struct{}),
	}
}

func (t *Tracker) Alloc(n int) (unsafe.Pointer, error) {
	p, err := t.inner.Alloc(n)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.live[p] = struct{}{}
	delete(t.freed, p) // allocator may reuse addresses
	t.mu.Unlock()
	return p, nil
}

func (t *Tracker) Free(p unsafe.Pointer) {
	t.mu.Lock()
	switch {
	case has(t.live, p):
		delete(t.live, p)
		t.freed[p] = struct{}{}
		t.mu.Unlock()
		t.inner.Free(p)
		return
	case has(t.freed, p):
		t.errs = append(t.errs, ErrDoubleRelease)
	default:
		t.errs = append(t.errs, ErrUnknownHandle)
	}
	t.mu.Unlock()
}

// Err joins every contract violation seen so far, or nil when usage was
// clean.
func (t *Tracker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return errors.Join(t.errs...)
}

// LiveCount reports handles allocated through the Tracker and not yet freed.
func (t *Tracker) LiveCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

func has(m map[unsafe.Pointer]struct{}, p unsafe.Pointer) bool {
	_, ok := m[p]
	return ok
}
