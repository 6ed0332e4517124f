package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"notegraph/internal/modules/graph/domain"
	graphout "notegraph/internal/modules/graph/port/out"
	"notegraph/internal/platform/clock"
)

const DefaultCacheSize = 256

type CacheEntry struct {
	Fingerprint domain.Fingerprint
	Record      domain.VisualizationRecord
	ComputedAt  time.Time
	Seq         uint64
}

type CacheOptions struct {
	Size   int
	Mode   domain.FingerprintMode
	Clock  clock.Clock
	Logger *zap.Logger
}

// flight is the computation currently owning a note. Requests for the same
// fingerprint join it; a different fingerprint replaces it.
type flight struct {
	key    string
	seq    uint64
	cancel context.CancelFunc
	run    func() (any, error)
}

// GraphCache serves visualization records keyed by note id and content
// fingerprint. Only the latest sequence number issued for a note may commit.
type GraphCache struct {
	host   graphout.ComputeHost
	mode   domain.FingerprintMode
	clk    clock.Clock
	logger *zap.Logger

	base context.Context
	stop context.CancelFunc

	mu       sync.Mutex
	entries  *lru.Cache[string, CacheEntry]
	latest   map[string]uint64
	inflight map[string]*flight
	seq      uint64

	group singleflight.Group
	stats cacheStats
}

func NewGraphCache(host graphout.ComputeHost, opts CacheOptions) (*GraphCache, error) {
	if host == nil {
		return nil, errors.New("compute host is required")
	}
	if opts.Size <= 0 {
		opts.Size = DefaultCacheSize
	}
	mode, err := domain.ParseFingerprintMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}
	if opts.Clock == nil {
		opts.Clock = clock.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	entries, err := lru.New[string, CacheEntry](opts.Size)
	if err != nil {
		return nil, fmt.Errorf("new cache entries: %w", err)
	}
	base, stop := context.WithCancel(context.Background())
	return &GraphCache{
		host:     host,
		mode:     mode,
		clk:      opts.Clock,
		logger:   opts.Logger,
		base:     base,
		stop:     stop,
		entries:  entries,
		latest:   make(map[string]uint64),
		inflight: make(map[string]*flight),
	}, nil
}

// Get returns the cached record for noteID when it was computed from text.
func (c *GraphCache) Get(noteID, text string) (domain.VisualizationRecord, bool) {
	fp := domain.NewFingerprint(text)
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.lookup(noteID, fp)
	if !ok {
		c.stats.misses.Add(1)
		return domain.VisualizationRecord{}, false
	}
	c.stats.hits.Add(1)
	return entry.Record, true
}

// Entry exposes the stored entry without fingerprint checks.
func (c *GraphCache) Entry(noteID string) (CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Peek(noteID)
}

// Ensure returns a resolved Future on a hit. Otherwise it joins the running
// computation for the same content or starts a new one, superseding any run
// for older content of the note.
func (c *GraphCache) Ensure(ctx context.Context, noteID, text string) *Future {
	if err := ctx.Err(); err != nil {
		return resolvedFuture(domain.VisualizationRecord{}, err)
	}
	fp := domain.NewFingerprint(text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.lookup(noteID, fp); ok {
		c.stats.hits.Add(1)
		return resolvedFuture(entry.Record, nil)
	}
	c.stats.misses.Add(1)

	key := noteID + "\x00" + fp.Key(c.mode)
	fl, running := c.inflight[noteID]
	if running && fl.key == key {
		c.stats.coalesced.Add(1)
	} else {
		if running {
			fl.cancel()
			c.logger.Debug("graph computation superseded", zap.String("note_id", noteID), zap.Uint64("seq", fl.seq))
		}
		fl = c.start(noteID, text, fp, key)
	}
	return c.await(fl)
}

func (c *GraphCache) start(noteID, text string, fp domain.Fingerprint, key string) *flight {
	c.seq++
	runCtx, cancel := context.WithCancel(c.base)
	fl := &flight{key: key, seq: c.seq, cancel: cancel}
	fl.run = func() (any, error) {
		defer cancel()
		return c.compute(runCtx, fl, noteID, text, fp)
	}
	c.latest[noteID] = fl.seq
	c.inflight[noteID] = fl
	c.stats.computations.Add(1)
	return fl
}

// await must be called with c.mu held so the flight cannot finish before the
// caller is registered with the group.
func (c *GraphCache) await(fl *flight) *Future {
	ch := c.group.DoChan(fl.key+"\x00"+strconv.FormatUint(fl.seq, 10), fl.run)
	f := newFuture()
	go func() {
		res := <-ch
		record, _ := res.Val.(domain.VisualizationRecord)
		f.resolve(record, res.Err)
	}()
	return f
}

func (c *GraphCache) compute(ctx context.Context, fl *flight, noteID, text string, fp domain.Fingerprint) (any, error) {
	resp := c.submit(ctx, domain.NewComputeRequest(noteID, text, fl.seq))

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[noteID] == fl {
		delete(c.inflight, noteID)
	}
	if c.latest[noteID] != fl.seq || resp.Seq != fl.seq {
		c.stats.stale.Add(1)
		c.logger.Debug("stale graph result discarded",
			zap.String("note_id", noteID), zap.Uint64("seq", fl.seq), zap.Uint64("latest", c.latest[noteID]))
		return nil, fmt.Errorf("compute graph %s: %w", noteID, domain.ErrSuperseded)
	}
	if resp.Err != nil {
		c.stats.failures.Add(1)
		c.logger.Warn("graph computation failed",
			zap.String("note_id", noteID), zap.Uint64("seq", fl.seq), zap.Error(resp.Err))
		return nil, fmt.Errorf("compute graph %s: %w", noteID, resp.Err)
	}

	entry := CacheEntry{Fingerprint: fp, Record: resp.Record, ComputedAt: c.clk.Now(), Seq: fl.seq}
	if evicted := c.entries.Add(noteID, entry); evicted {
		c.stats.evictions.Add(1)
	}
	c.stats.commits.Add(1)
	c.logger.Debug("graph committed",
		zap.String("note_id", noteID),
		zap.Uint64("seq", fl.seq),
		zap.Duration("elapsed", resp.Elapsed),
		zap.Int("nodes", len(resp.Record.Nodes)),
		zap.Int("links", len(resp.Record.Links)),
	)
	return resp.Record, nil
}

func (c *GraphCache) submit(ctx context.Context, req domain.ComputeRequest) domain.ComputeResponse {
	failed := func(err error) domain.ComputeResponse {
		return domain.ComputeResponse{NoteID: req.NoteID, Seq: req.Seq, Err: err}
	}
	ch, err := c.host.Submit(ctx, req)
	if err != nil {
		return failed(err)
	}
	select {
	case resp := <-ch:
		return resp
	case <-ctx.Done():
		return failed(ctx.Err())
	}
}

// Compute runs text through the host outside the cache. Nothing is stored and
// no note is superseded. A positive window overrides the runner's own.
func (c *GraphCache) Compute(ctx context.Context, text string, window int) (domain.VisualizationRecord, error) {
	if c.base.Err() != nil {
		return domain.VisualizationRecord{}, domain.ErrSuperseded
	}
	req := domain.NewComputeRequest("", text, 0)
	req.Window = window
	resp := c.submit(ctx, req)
	if resp.Err != nil {
		return domain.VisualizationRecord{}, resp.Err
	}
	return resp.Record, nil
}

// Invalidate drops the entry for noteID and marks any running computation
// for it stale.
func (c *GraphCache) Invalidate(noteID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Remove(noteID)
	if fl, ok := c.inflight[noteID]; ok {
		fl.cancel()
		delete(c.inflight, noteID)
		c.seq++
		c.latest[noteID] = c.seq
	}
}

func (c *GraphCache) Stats() StatsSnapshot {
	c.mu.Lock()
	entries := c.entries.Len()
	c.mu.Unlock()
	return c.stats.snapshot(entries)
}

// Close cancels every running computation. Pending futures resolve with
// ErrSuperseded.
func (c *GraphCache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stop()
	for noteID, fl := range c.inflight {
		delete(c.inflight, noteID)
		c.seq++
		c.latest[noteID] = c.seq
		fl.cancel()
	}
}

func (c *GraphCache) lookup(noteID string, fp domain.Fingerprint) (CacheEntry, bool) {
	entry, ok := c.entries.Get(noteID)
	if !ok || !entry.Fingerprint.Matches(fp, c.mode) {
		return CacheEntry{}, false
	}
	return entry, true
}
