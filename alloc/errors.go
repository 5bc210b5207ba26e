package alloc

import "errors"

var (
	// ErrDoubleFree is the payload of the panic raised when a pool region is
	// released whose units are not all marked as allocated.
	ErrDoubleFree = errors.New("alloc: double free or corrupted usage mask")

	// ErrBadAlign indicates an alignment that is zero or not a power of two.
	ErrBadAlign = errors.New("alloc: alignment must be a non-zero power of two")

	// ErrMisaligned indicates pool backing storage that is not unit aligned.
	ErrMisaligned = errors.New("alloc: pool region is not unit aligned")

	// ErrRegionClaimed is the payload of the panic raised when the static pool
	// storage is claimed a second time.
	ErrRegionClaimed = errors.New("alloc: static pool region already claimed")

	// ErrClosed is returned by Close once the allocator has been torn down.
	ErrClosed = errors.New("alloc: allocator already closed")

	// ErrUnsupported is returned by kernel primitives on platforms without mremap.
	ErrUnsupported = errors.New("alloc: kernel mapping primitives unsupported on this platform")
)
