package alloc

import (
	"fmt"
	"math/bits"
	"sync/atomic"
	"unsafe"
)

const (
	// UnitSize is the granule the small pool hands out.
	UnitSize = 4096
	// TotalUnits is the number of units in the pool, one per usage-mask bit.
	TotalUnits = 64
	// PoolCapacity is the largest request the small pool can satisfy.
	PoolCapacity = UnitSize * TotalUnits
)

// Region is the backing storage of a SmallPool.
type Region [PoolCapacity]byte

// staticBacking is over-sized by one unit so a unit-aligned Region can always
// be carved out of it.
var (
	staticBacking [PoolCapacity + UnitSize]byte
	staticClaimed atomic.Bool
)

// claimStaticRegion hands out the process-lifetime pool storage. The package
// init gives it to the default allocator; any later claim panics with
// ErrRegionClaimed.
func claimStaticRegion() *Region {
	if !staticClaimed.CompareAndSwap(false, true) {
		panic(ErrRegionClaimed)
	}
	base := uintptr(unsafe.Pointer(&staticBacking[0]))
	off := roundUp(base, UnitSize) - base
	return (*Region)(staticBacking[off : off+PoolCapacity])
}

// SmallPool carves a Region into TotalUnits equal units and tracks them with a
// single bitmask: bit i is set iff unit i is allocated. Allocation is
// first-fit over contiguous runs of units.
//
// A SmallPool is not safe for concurrent use; the Allocator serializes it.
type SmallPool struct {
	region    *Region
	usageMask uint64
}

// Init installs the backing storage. It must be called exactly once, before
// the first Allocate.
func (p *SmallPool) Init(r *Region) {
	switch {
	case r == nil:
		panic("alloc: nil pool region")
	case p.region != nil:
		panic("alloc: pool region already installed")
	case uintptr(unsafe.Pointer(r))%UnitSize != 0:
		panic(fmt.Errorf("%w: %p", ErrMisaligned, r))
	}
	p.region = r
}

// unitMask returns a mask with the low n bits set, 1 <= n <= 64.
func unitMask(n uintptr) uint64 {
	return ^uint64(0) >> (TotalUnits - n)
}

// Allocate returns the first run of units large enough for size, or nil when
// the request is zero, too large, over-aligned, or no run is free.
func (p *SmallPool) Allocate(size, align uintptr) unsafe.Pointer {
	if p.region == nil || align > UnitSize || size == 0 || size > PoolCapacity {
		return nil
	}
	units := ceilDiv(size, UnitSize)
	candidate := unitMask(units)
	for i := uintptr(0); i <= TotalUnits-units; i++ {
		if p.usageMask&(candidate<<i) == 0 {
			p.usageMask |= candidate << i
			return unsafe.Pointer(&p.region[i*UnitSize])
		}
	}
	return nil
}

// Deallocate releases a run previously returned by Allocate with the same
// size. It returns false, touching nothing, when ptr is not inside the pool.
// Releasing units that are not allocated panics with ErrDoubleFree.
func (p *SmallPool) Deallocate(ptr unsafe.Pointer, size uintptr) bool {
	off, ok := p.offset(ptr)
	if !ok {
		return false
	}
	start := off / UnitSize
	units := ceilDiv(size, UnitSize)
	if off%UnitSize != 0 || units == 0 || start+units > TotalUnits {
		panic(fmt.Errorf("%w: bad release of %d bytes at offset %d", ErrDoubleFree, size, off))
	}
	expected := unitMask(units) << start
	if p.usageMask&expected != expected {
		panic(fmt.Errorf("%w: units %d..%d (mask %#016x)", ErrDoubleFree, start, start+units-1, p.usageMask))
	}
	p.usageMask ^= expected
	return true
}

// Contains reports whether ptr lies inside the pool's region.
func (p *SmallPool) Contains(ptr unsafe.Pointer) bool {
	_, ok := p.offset(ptr)
	return ok
}

func (p *SmallPool) offset(ptr unsafe.Pointer) (uintptr, bool) {
	if p.region == nil || ptr == nil {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(p.region))
	addr := uintptr(ptr)
	if addr < base || addr-base >= PoolCapacity {
		return 0, false
	}
	return addr - base, true
}

// Mask returns the usage mask.
func (p *SmallPool) Mask() uint64 { return p.usageMask }

// UsedUnits returns the number of allocated units.
func (p *SmallPool) UsedUnits() int { return bits.OnesCount64(p.usageMask) }
