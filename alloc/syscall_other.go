//go:build !linux

package alloc

import "unsafe"

// sysKernel has no move-capable remap outside Linux, so every call fails and
// the allocator degrades to its small pool.
type sysKernel struct{}

func (sysKernel) Map(uintptr) (unsafe.Pointer, error) { return nil, ErrUnsupported }

func (sysKernel) Remap(unsafe.Pointer, uintptr, uintptr) (unsafe.Pointer, error) {
	return nil, ErrUnsupported
}

func (sysKernel) Unmap(unsafe.Pointer, uintptr) error { return ErrUnsupported }
