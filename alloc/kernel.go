package alloc

import "unsafe"

// Kernel is the coarse-memory interface the allocator is built on.
type Kernel interface {
	// Map returns a fresh anonymous, private, read-write mapping.
	Map(length uintptr) (unsafe.Pointer, error)
	// Remap resizes a mapping, allowing the kernel to move it.
	Remap(p unsafe.Pointer, oldLength, newLength uintptr) (unsafe.Pointer, error)
	// Unmap releases a mapping.
	Unmap(p unsafe.Pointer, length uintptr) error
}

// SysKernel returns the Kernel backed by the host's system calls.
func SysKernel() Kernel { return sysKernel{} }
