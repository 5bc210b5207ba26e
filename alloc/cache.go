package alloc

import "unsafe"

// CacheSlots is the capacity of a PageCache.
const CacheSlots = 64

// cacheSlot records one kernel mapping. addr is zero for a slot that has never
// held a mapping; it is only turned back into a pointer where it is used.
type cacheSlot struct {
	inUse  bool
	addr   uintptr
	length uintptr
}

// ptr converts addr back. Cached addresses are kernel mappings outside the
// Go heap.
func (s *cacheSlot) ptr() unsafe.Pointer {
	return unsafe.Pointer(s.addr) //nolint:govet // mmap memory outside the Go heap
}

// CacheEntry is an exported snapshot of a PageCache slot.
type CacheEntry struct {
	Slot   int
	InUse  bool
	Addr   uintptr
	Length uintptr
}

// PageCache remembers mappings obtained from the kernel so later page-sized
// requests can reuse them instead of mapping fresh memory. Every recorded
// address is owned by the cache until it is unmapped.
//
// A PageCache is not safe for concurrent use; the Allocator serializes it.
type PageCache struct {
	slots [CacheSlots]cacheSlot
}

// closestFit returns the free slot whose length exceeds size by the least,
// preferring the lowest index on ties, or -1.
func (c *PageCache) closestFit(size uintptr) int {
	best := -1
	for i := range c.slots {
		s := &c.slots[i]
		if s.inUse || s.addr == 0 || s.length < size {
			continue
		}
		if best < 0 || s.length-size < c.slots[best].length-size {
			best = i
		}
	}
	return best
}

// largestAvailable returns the free, populated slot with the greatest length,
// preferring the lowest index on ties, or -1.
func (c *PageCache) largestAvailable() int {
	best := -1
	for i := range c.slots {
		s := &c.slots[i]
		if s.inUse || s.addr == 0 {
			continue
		}
		if best < 0 || s.length > c.slots[best].length {
			best = i
		}
	}
	return best
}

// lookup returns the slot recording addr, or -1.
func (c *PageCache) lookup(addr uintptr) int {
	if addr == 0 {
		return -1
	}
	for i := range c.slots {
		if c.slots[i].addr == addr {
			return i
		}
	}
	return -1
}

// emptySlot returns the first slot that has never held a mapping, or -1.
func (c *PageCache) emptySlot() int {
	for i := range c.slots {
		if !c.slots[i].inUse && c.slots[i].addr == 0 {
			return i
		}
	}
	return -1
}

// Entries returns the populated slots in slot order.
func (c *PageCache) Entries() []CacheEntry {
	var out []CacheEntry
	for i, s := range c.slots {
		if s.addr == 0 {
			continue
		}
		out = append(out, CacheEntry{Slot: i, InUse: s.inUse, Addr: s.addr, Length: s.length})
	}
	return out
}
