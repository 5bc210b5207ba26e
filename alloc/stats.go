package alloc

// Stats is a point-in-time view of an allocator's bookkeeping.
type Stats struct {
	PoolUnits int    // allocated small-pool units
	PoolMask  uint64 // small-pool usage mask

	Cached      []CacheEntry
	CachedBytes uintptr // bytes recorded in the page cache
	InUseBytes  uintptr // cached bytes currently handed out

	Maps, Remaps, Unmaps uint64 // kernel calls issued
	KernelFailures       uint64
}

// Stats takes the lock and snapshots the allocator.
func (a *Allocator) Stats() Stats {
	ar := a.state.Lock()
	defer a.state.Unlock()

	st := Stats{
		PoolUnits:      ar.pool.UsedUnits(),
		PoolMask:       ar.pool.Mask(),
		Cached:         ar.cache.Entries(),
		Maps:           ar.calls.maps,
		Remaps:         ar.calls.remaps,
		Unmaps:         ar.calls.unmaps,
		KernelFailures: ar.calls.failures,
	}
	for _, e := range st.Cached {
		st.CachedBytes += e.Length
		if e.InUse {
			st.InUseBytes += e.Length
		}
	}
	return st
}
