package alloc

import "unsafe"

// defaultAllocator is the process-wide instance behind the typed helpers.
var defaultAllocator = New()

// zerobase is handed out for zero-sized requests.
var zerobase uintptr

func init() {
	defaultAllocator.Init(claimStaticRegion())
}

// Default returns the process-wide allocator. Its pool owns the package's
// static storage.
func Default() *Allocator { return defaultAllocator }

// Shutdown tears down the process-wide allocator. It must be the last use of
// the typed helpers.
func Shutdown() error { return defaultAllocator.Close() }

// Allocate returns a zeroed T from the default allocator, or nil when out of
// memory.
func Allocate[T any]() *T {
	l := LayoutOf[T]()
	if l.Size == 0 {
		return (*T)(unsafe.Pointer(&zerobase))
	}
	p := defaultAllocator.Alloc(l)
	if p == nil {
		return nil
	}
	clear(unsafe.Slice((*byte)(p), l.Size))
	return (*T)(p)
}

// Free releases a pointer returned by Allocate.
func Free[T any](ptr *T) {
	l := LayoutOf[T]()
	if ptr == nil || l.Size == 0 {
		return
	}
	defaultAllocator.Dealloc(unsafe.Pointer(ptr), l)
}

// AllocateSlice returns a zeroed slice of n Ts, or nil when out of memory.
func AllocateSlice[T any](n int) []T {
	l, ok := arrayLayout[T](n)
	if !ok {
		return nil
	}
	if l.Size == 0 {
		return unsafe.Slice((*T)(unsafe.Pointer(&zerobase)), n)
	}
	p := defaultAllocator.Alloc(l)
	if p == nil {
		return nil
	}
	clear(unsafe.Slice((*byte)(p), l.Size))
	return unsafe.Slice((*T)(p), n)
}

// FreeSlice releases a slice returned by AllocateSlice or GrowSlice.
func FreeSlice[T any](s []T) {
	l, _ := arrayLayout[T](cap(s))
	if l.Size == 0 {
		return
	}
	defaultAllocator.Dealloc(unsafe.Pointer(unsafe.SliceData(s)), l)
}

// GrowSlice resizes s to length n, preserving its elements. Elements past
// len(s) are not zeroed. On failure it returns nil and s is still valid.
func GrowSlice[T any](s []T, n int) []T {
	if n < 0 {
		return nil
	}
	if n <= cap(s) {
		return s[:n]
	}
	old, _ := arrayLayout[T](cap(s))
	if old.Size == 0 {
		return AllocateSlice[T](n)
	}
	l, ok := arrayLayout[T](n)
	if !ok {
		return nil
	}
	p := defaultAllocator.Realloc(unsafe.Pointer(unsafe.SliceData(s)), old, l.Size)
	if p == nil {
		return nil
	}
	return unsafe.Slice((*T)(p), n)
}
