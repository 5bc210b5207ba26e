// Package alloc is a general-purpose allocator that gets coarse memory from
// the kernel (anonymous mmap, move-capable mremap, munmap) and keeps small
// requests out of the kernel entirely.
//
// # Layout
//
// Requests are served in two tiers:
//
//   - SmallPool: a fixed Region of 64 units of 4 KiB tracked by one 64-bit
//     mask. Requests up to PoolCapacity with alignment up to UnitSize take the
//     first free run of units, lowest address first.
//   - PageCache: 64 slots remembering mappings that callers handed back.
//     A page-rounded request reuses the closest-fitting free slot, otherwise
//     grows the largest free slot with mremap, otherwise maps fresh memory.
//
// Releases are routed by address: pool addresses clear their mask bits,
// everything else is parked in the cache (or unmapped when the cache is full).
// Page-path regions never shrink.
//
// # Usage
//
//	a := alloc.New()
//	a.Init(region) // caller-owned, UnitSize aligned, given to no other pool
//	defer a.Close()
//
//	l := alloc.Layout{Size: 6000, Align: 8}
//	p := a.Alloc(l)
//	if p == nil {
//	    // out of memory
//	}
//	p = a.Realloc(p, l, 64<<10)
//	a.Dealloc(p, alloc.Layout{Size: 64 << 10, Align: 8})
//
// Without Init an allocator serves everything from the page path. The package
// also owns a process-wide allocator, returned by Default, whose pool is the
// package's static storage; it backs the typed helpers Allocate,
// AllocateSlice, GrowSlice, Free and FreeSlice.
//
// # Failure
//
// Running out of pool units, cache slots or kernel memory yields nil; it is
// the caller's decision whether that is fatal. Releasing pool units that are
// not allocated is a double free and panics with ErrDoubleFree.
//
// # Thread Safety
//
// Allocator methods may be called from any goroutine; a single SpinLock
// serializes the pool and the cache. Close is the exception and must run
// after all other use has stopped.
package alloc
