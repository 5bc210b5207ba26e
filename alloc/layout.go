package alloc

import (
	"fmt"
	"math/bits"
	"unsafe"
)

// Layout describes a request: a size in bytes and a power-of-two alignment.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// NewLayout validates align and returns the layout.
func NewLayout(size, align uintptr) (Layout, error) {
	if align == 0 || align&(align-1) != 0 {
		return Layout{}, fmt.Errorf("%w: got %d", ErrBadAlign, align)
	}
	return Layout{Size: size, Align: align}, nil
}

// LayoutOf returns the layout of a single T.
func LayoutOf[T any]() Layout {
	var zero T
	return Layout{Size: unsafe.Sizeof(zero), Align: unsafe.Alignof(zero)}
}

// arrayLayout returns the layout of n consecutive Ts, or false on overflow.
func arrayLayout[T any](n int) (Layout, bool) {
	if n < 0 {
		return Layout{}, false
	}
	l := LayoutOf[T]()
	hi, lo := bits.Mul64(uint64(l.Size), uint64(n))
	if hi != 0 || lo > uint64(^uintptr(0)>>1) {
		return Layout{}, false
	}
	l.Size = uintptr(lo)
	return l, true
}

// ceilDiv is ceil(n / d) for d > 0.
func ceilDiv(n, d uintptr) uintptr {
	return n/d + boolBit(n%d != 0)
}

// roundUp rounds n up to a multiple of the power-of-two m. Returns 0 when the
// rounded value would overflow.
func roundUp(n, m uintptr) uintptr {
	r := (n + m - 1) &^ (m - 1)
	if r < n {
		return 0
	}
	return r
}

func boolBit(b bool) uintptr {
	if b {
		return 1
	}
	return 0
}
