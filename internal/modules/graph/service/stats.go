package service

import "sync/atomic"

type cacheStats struct {
	hits         atomic.Int64
	misses       atomic.Int64
	computations atomic.Int64
	coalesced    atomic.Int64
	commits      atomic.Int64
	stale        atomic.Int64
	failures     atomic.Int64
	evictions    atomic.Int64
}

// StatsSnapshot is a point-in-time copy of the cache counters.
type StatsSnapshot struct {
	Hits           int64 `json:"hits"`
	Misses         int64 `json:"misses"`
	Computations   int64 `json:"computations"`
	Coalesced      int64 `json:"coalesced"`
	Commits        int64 `json:"commits"`
	DiscardedStale int64 `json:"discarded_stale"`
	Failures       int64 `json:"failures"`
	Evictions      int64 `json:"evictions"`
	Entries        int   `json:"entries"`
}

func (s StatsSnapshot) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

func (s *cacheStats) snapshot(entries int) StatsSnapshot {
	return StatsSnapshot{
		Hits:           s.hits.Load(),
		Misses:         s.misses.Load(),
		Computations:   s.computations.Load(),
		Coalesced:      s.coalesced.Load(),
		Commits:        s.commits.Load(),
		DiscardedStale: s.stale.Load(),
		Failures:       s.failures.Load(),
		Evictions:      s.evictions.Load(),
		Entries:        entries,
	}
}
