package alloc

import (
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"unsafe"
)

// arena is everything the allocator's lock protects.
type arena struct {
	pool  SmallPool
	cache PageCache
	calls kernelCalls
}

type kernelCalls struct {
	maps, remaps, unmaps, failures uint64
}

// Allocator serves requests from a SmallPool when they fit and otherwise from
// page-granular kernel mappings, recycled through a PageCache. One spinlock
// serializes all bookkeeping, so an Allocator may be shared freely.
//
// Memory returned by an Allocator is invisible to the Go garbage collector;
// it must not hold the only reference to Go-heap objects.
type Allocator struct {
	state    SpinLock[arena]
	kernel   Kernel
	pageSize uintptr
	log      atomic.Pointer[slog.Logger]
	closed   atomic.Bool
}

// New returns an allocator without pool storage. Until Init is called every
// request goes to the page path.
func New(opts ...Option) *Allocator {
	a := &Allocator{
		kernel:   SysKernel(),
		pageSize: uintptr(os.Getpagesize()),
	}
	a.log.Store(discardLogger)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetLogger replaces the logger used for kernel failures and evictions.
func (a *Allocator) SetLogger(l *slog.Logger) {
	if l != nil {
		a.log.Store(l)
	}
}

func (a *Allocator) logger() *slog.Logger { return a.log.Load() }

// Init installs the small pool's backing storage. Calling it twice panics.
func (a *Allocator) Init(r *Region) {
	ar := a.state.Lock()
	defer a.state.Unlock()
	ar.pool.Init(r)
}

// PageSize returns the granularity of page-path requests.
func (a *Allocator) PageSize() uintptr { return a.pageSize }

// Alloc returns memory for l, or nil when neither the pool, the cache nor the
// kernel can provide it.
func (a *Allocator) Alloc(l Layout) unsafe.Pointer {
	if a.closed.Load() {
		return nil
	}
	ar := a.state.Lock()
	defer a.state.Unlock()

	if p := ar.pool.Allocate(l.Size, l.Align); p != nil {
		return p
	}
	// Mappings are only page aligned.
	if l.Size == 0 || l.Align > a.pageSize {
		return nil
	}
	size := roundUp(l.Size, a.pageSize)
	if size == 0 {
		return nil
	}

	if i := ar.cache.closestFit(size); i >= 0 {
		s := &ar.cache.slots[i]
		s.inUse = true
		return s.ptr()
	}

	if i := ar.cache.largestAvailable(); i >= 0 {
		s := &ar.cache.slots[i]
		p := a.remap(ar, s.ptr(), s.length, size)
		if p == nil {
			return nil
		}
		s.inUse, s.addr, s.length = true, uintptr(p), size
		return p
	}

	return a.mmap(ar, size)
}

// Dealloc returns p, obtained from Alloc or Realloc with layout l, to the
// allocator. Page-path regions are kept for reuse; when the cache has no room
// the region is unmapped instead.
func (a *Allocator) Dealloc(p unsafe.Pointer, l Layout) {
	if p == nil || a.closed.Load() {
		return
	}
	ar := a.state.Lock()
	defer a.state.Unlock()

	if ar.pool.Deallocate(p, l.Size) {
		return
	}
	size := roundUp(l.Size, a.pageSize)

	if i := ar.cache.lookup(uintptr(p)); i >= 0 {
		ar.cache.slots[i].inUse = false
		return
	}
	if i := ar.cache.emptySlot(); i >= 0 {
		ar.cache.slots[i] = cacheSlot{addr: uintptr(p), length: size}
		return
	}
	if err := a.unmap(ar, p, size); err != nil {
		a.logger().Warn("alloc: evicting uncached region", "addr", p, "length", size, "err", err)
	}
}

// Realloc resizes p from layout old to newSize bytes, returning the possibly
// moved region. On failure it returns nil and p stays valid. Page-path
// regions never shrink.
func (a *Allocator) Realloc(p unsafe.Pointer, old Layout, newSize uintptr) unsafe.Pointer {
	if p == nil {
		return a.Alloc(Layout{Size: newSize, Align: old.Align})
	}
	if a.closed.Load() {
		return nil
	}
	ar := a.state.Lock()
	if ar.pool.Contains(p) {
		a.state.Unlock()
		return a.move(p, old, newSize)
	}
	defer a.state.Unlock()

	oldSize := roundUp(old.Size, a.pageSize)
	size := roundUp(newSize, a.pageSize)
	if size == 0 && newSize != 0 {
		return nil
	}
	if size <= oldSize {
		return p
	}

	if i := ar.cache.lookup(uintptr(p)); i >= 0 {
		s := &ar.cache.slots[i]
		// A reused region may already be longer than the caller asked for.
		if size <= s.length {
			return p
		}
		np := a.remap(ar, p, s.length, size)
		if np == nil {
			return nil
		}
		s.addr, s.length = uintptr(np), size
		return np
	}
	return a.remap(ar, p, oldSize, size)
}

// move is the generic alloc-copy-free path used for pool regions, which
// cannot grow in place.
func (a *Allocator) move(p unsafe.Pointer, old Layout, newSize uintptr) unsafe.Pointer {
	np := a.Alloc(Layout{Size: newSize, Align: old.Align})
	if np == nil {
		return nil
	}
	n := min(old.Size, newSize)
	copy(unsafe.Slice((*byte)(np), n), unsafe.Slice((*byte)(p), n))
	a.Dealloc(p, old)
	return np
}

// Close unmaps every region recorded in the page cache. It does not take the
// lock and must run once no other goroutine uses the allocator. Later calls
// return ErrClosed; Alloc and Realloc return nil afterwards.
func (a *Allocator) Close() error {
	if !a.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	ar := a.state.unguarded()
	var errs []error
	for i := range ar.cache.slots {
		s := &ar.cache.slots[i]
		if s.addr == 0 {
			continue
		}
		if err := a.unmap(ar, s.ptr(), s.length); err != nil {
			errs = append(errs, err)
		}
		*s = cacheSlot{}
	}
	err := errors.Join(errs...)
	if err != nil {
		a.logger().Warn("alloc: teardown could not release every mapping", "err", err)
	}
	return err
}

func (a *Allocator) mmap(ar *arena, size uintptr) unsafe.Pointer {
	ar.calls.maps++
	p, err := a.kernel.Map(size)
	if err != nil {
		ar.calls.failures++
		a.logger().Debug("alloc: map failed", "length", size, "err", err)
		return nil
	}
	return p
}

func (a *Allocator) remap(ar *arena, p unsafe.Pointer, oldSize, size uintptr) unsafe.Pointer {
	ar.calls.remaps++
	np, err := a.kernel.Remap(p, oldSize, size)
	if err != nil {
		ar.calls.failures++
		a.logger().Debug("alloc: remap failed", "addr", p, "from", oldSize, "to", size, "err", err)
		return nil
	}
	return np
}

func (a *Allocator) unmap(ar *arena, p unsafe.Pointer, size uintptr) error {
	ar.calls.unmaps++
	if err := a.kernel.Unmap(p, size); err != nil {
		ar.calls.failures++
		return err
	}
	return nil
}
