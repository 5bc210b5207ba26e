//go:build linux

package alloc

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

type sysKernel struct{}

func (sysKernel) Map(length uintptr) (unsafe.Pointer, error) {
	p, err := unix.MmapPtr(-1, 0, nil, length,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %w", length, err)
	}
	return p, nil
}

func (sysKernel) Remap(p unsafe.Pointer, oldLength, newLength uintptr) (unsafe.Pointer, error) {
	np, err := unix.MremapPtr(p, oldLength, nil, newLength, unix.MREMAP_MAYMOVE)
	if err != nil {
		return nil, fmt.Errorf("mremap %p from %d to %d bytes: %w", p, oldLength, newLength, err)
	}
	return np, nil
}

func (sysKernel) Unmap(p unsafe.Pointer, length uintptr) error {
	if err := unix.MunmapPtr(p, length); err != nil {
		return fmt.Errorf("munmap %p (%d bytes): %w", p, length, err)
	}
	return nil
}
