package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func cacheWith(slots ...cacheSlot) *PageCache {
	c := &PageCache{}
	copy(c.slots[:], slots)
	return c
}

func TestCacheClosestFit(t *testing.T) {
	c := cacheWith(
		cacheSlot{addr: 0x10000, length: 4096},
		cacheSlot{addr: 0x20000, length: 16384},
		cacheSlot{addr: 0x30000, length: 8192},
		cacheSlot{inUse: true, addr: 0x40000, length: 8192},
	)
	assert.Equal(t, 2, c.closestFit(8192), "request rounded to 8192 must take the 8192 entry")
	assert.Equal(t, 0, c.closestFit(4096))
	assert.Equal(t, 1, c.closestFit(12288))
	assert.Equal(t, -1, c.closestFit(32768))
}

func TestCacheClosestFitTiesPreferScanOrder(t *testing.T) {
	c := cacheWith(
		cacheSlot{},
		cacheSlot{addr: 0x20000, length: 8192},
		cacheSlot{addr: 0x30000, length: 8192},
	)
	assert.Equal(t, 1, c.closestFit(8192))
}

func TestCacheLargestAvailable(t *testing.T) {
	c := cacheWith(
		cacheSlot{addr: 0x10000, length: 4096},
		cacheSlot{inUse: true, addr: 0x20000, length: 65536},
		cacheSlot{addr: 0x30000, length: 16384},
		cacheSlot{addr: 0x40000, length: 16384},
	)
	assert.Equal(t, 2, c.largestAvailable())

	assert.Equal(t, -1, (&PageCache{}).largestAvailable(), "empty slots are never grown")
}

func TestCacheLookupAndEmptySlot(t *testing.T) {
	c := cacheWith(
		cacheSlot{addr: 0x10000, length: 4096},
		cacheSlot{inUse: true, addr: 0x20000, length: 4096},
	)
	assert.Equal(t, 1, c.lookup(0x20000))
	assert.Equal(t, -1, c.lookup(0x50000))
	assert.Equal(t, -1, c.lookup(0), "the null address never matches")
	assert.Equal(t, 2, c.emptySlot())

	for i := range c.slots {
		c.slots[i] = cacheSlot{addr: uintptr(i+1) << 16, length: 4096}
	}
	assert.Equal(t, -1, c.emptySlot())
}

func TestCacheEntries(t *testing.T) {
	c := cacheWith(
		cacheSlot{},
		cacheSlot{inUse: true, addr: 0x20000, length: 8192},
	)
	assert.Equal(t, []CacheEntry{{Slot: 1, InUse: true, Addr: 0x20000, Length: 8192}}, c.Entries())
}
