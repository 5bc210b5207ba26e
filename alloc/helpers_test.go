package alloc

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// newTestRegion returns unit-aligned pool storage on the Go heap.
func newTestRegion(t testing.TB) *Region {
	t.Helper()
	buf := make([]byte, PoolCapacity+UnitSize)
	base := uintptr(unsafe.Pointer(&buf[0]))
	off := roundUp(base, UnitSize) - base
	return (*Region)(buf[off : off+PoolCapacity])
}

func newTestPool(t testing.TB) *SmallPool {
	t.Helper()
	p := &SmallPool{}
	p.Init(newTestRegion(t))
	return p
}

// unitOf returns the unit index of a pool pointer.
func unitOf(t testing.TB, p *SmallPool, ptr unsafe.Pointer) int {
	t.Helper()
	off, ok := p.offset(ptr)
	require.True(t, ok, "pointer %p is outside the pool", ptr)
	return int(off / UnitSize)
}

// requirePanicsWith runs fn and requires a panic whose value is an error
// matching target.
func requirePanicsWith(t testing.TB, target error, fn func()) {
	t.Helper()
	var recovered any
	func() {
		defer func() { recovered = recover() }()
		fn()
	}()
	require.NotNil(t, recovered, "expected a panic")
	err, ok := recovered.(error)
	require.True(t, ok, "panic value %v is not an error", recovered)
	require.True(t, errors.Is(err, target), "panic %v does not wrap %v", err, target)
}

func bytesAt(p unsafe.Pointer, n uintptr) []byte {
	return unsafe.Slice((*byte)(p), n)
}

func fillPattern(b []byte) {
	for i := range b {
		b[i] = byte(i*7 + 3)
	}
}

func requirePattern(t testing.TB, b []byte) {
	t.Helper()
	for i := range b {
		if b[i] != byte(i*7+3) {
			t.Fatalf("byte %d mismatch: got 0x%x want 0x%x", i, b[i], byte(i*7+3))
		}
	}
}
