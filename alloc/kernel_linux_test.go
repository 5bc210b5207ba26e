//go:build linux

package alloc

import (
	"errors"
	"os"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected kernel failure")

// recordingKernel forwards to the real kernel and records every mapping it
// creates and every unmap it performs.
type recordingKernel struct {
	inner Kernel

	mu        sync.Mutex
	live      map[unsafe.Pointer]uintptr // addr -> length
	unmapped  map[uintptr]int            // addr -> unmap count
	maps      int
	remaps    int
	failMap   bool
	failRemap bool
	failUnmap bool
}

func newRecordingKernel() *recordingKernel {
	return &recordingKernel{
		inner:    SysKernel(),
		live:     make(map[unsafe.Pointer]uintptr),
		unmapped: make(map[uintptr]int),
	}
}

func (k *recordingKernel) Map(length uintptr) (unsafe.Pointer, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.maps++
	if k.failMap {
		return nil, errInjected
	}
	p, err := k.inner.Map(length)
	if err != nil {
		return nil, err
	}
	k.live[p] = length
	return p, nil
}

func (k *recordingKernel) Remap(p unsafe.Pointer, oldLength, newLength uintptr) (unsafe.Pointer, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.remaps++
	if k.failRemap {
		return nil, errInjected
	}
	np, err := k.inner.Remap(p, oldLength, newLength)
	if err != nil {
		return nil, err
	}
	delete(k.live, p)
	k.live[np] = newLength
	return np, nil
}

func (k *recordingKernel) Unmap(p unsafe.Pointer, length uintptr) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.unmapped[uintptr(p)]++
	if k.failUnmap {
		return errInjected
	}
	delete(k.live, p)
	return k.inner.Unmap(p, length)
}

func (k *recordingKernel) counts() (maps, remaps int) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.maps, k.remaps
}

func (k *recordingKernel) unmapCount(addr uintptr) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.unmapped[addr]
}

// mapRegion maps length bytes behind the allocator's back, for seeding the
// page cache through Dealloc.
func (k *recordingKernel) mapRegion(t testing.TB, length uintptr) unsafe.Pointer {
	t.Helper()
	p, err := k.Map(length)
	require.NoError(t, err)
	return p
}

// releaseAll unmaps whatever the test left mapped.
func (k *recordingKernel) releaseAll() {
	k.mu.Lock()
	defer k.mu.Unlock()
	for p, length := range k.live {
		_ = k.inner.Unmap(p, length)
	}
	clear(k.live)
}

// newTestAllocator builds an allocator on a recording kernel. Tests assume
// 4 KiB kernel pages because mremap lengths must match real mappings.
func newTestAllocator(t *testing.T, withPool bool) (*Allocator, *recordingKernel) {
	t.Helper()
	if os.Getpagesize() != 4096 {
		t.Skipf("test assumes 4096-byte pages, kernel uses %d", os.Getpagesize())
	}
	k := newRecordingKernel()
	a := New(WithKernel(k), WithPageSize(4096))
	if withPool {
		a.Init(newTestRegion(t))
	}
	t.Cleanup(func() {
		_ = a.Close()
		k.releaseAll()
	})
	return a, k
}

func TestSysKernelMapRemapUnmap(t *testing.T) {
	k := SysKernel()
	page := uintptr(os.Getpagesize())

	p, err := k.Map(page)
	require.NoError(t, err)
	b := bytesAt(p, page)
	fillPattern(b)

	np, err := k.Remap(p, page, 8*page)
	require.NoError(t, err)
	requirePattern(t, bytesAt(np, page))
	bytesAt(np, 8*page)[8*page-1] = 0xff

	require.NoError(t, k.Unmap(np, 8*page))
}

func TestSysKernelRemapInvalid(t *testing.T) {
	_, err := SysKernel().Remap(nil, 4096, 8192)
	require.Error(t, err)
}
