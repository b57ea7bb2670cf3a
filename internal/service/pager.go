package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/JonnyWalker81/patternlog/internal/metrics"
	"github.com/JonnyWalker81/patternlog/internal/models"
)

const (
	// DefaultPageSize is the number of entries fetched per page
	DefaultPageSize = 20

	// DefaultPrefetchDistance is how close to the last loaded entry the
	// consumer must scroll before the next page is fetched
	DefaultPrefetchDistance = 5

	// MaxPageSize caps a single page request
	MaxPageSize = 200
)

// EntryLister is the part of EventSource the pager needs
type EntryLister interface {
	ListEntries(ctx context.Context, offset, limit int) ([]models.Entry, error)
}

// LoadPage fetches the entries at [offset, offset+limit) newest first and
// reports whether more entries exist past the page.
func LoadPage(ctx context.Context, source EntryLister, offset, limit int) ([]models.Entry, bool, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	// One extra row tells us whether another page exists
	rows, err := source.ListEntries(ctx, offset, limit+1)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, ctxErr
		}
		return nil, false, fmt.Errorf("%w: failed to list entries: %w", ErrRepositoryUnavailable, err)
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	if rows == nil {
		rows = []models.Entry{}
	}
	return rows, hasMore, nil
}

// PagedEntryLoader incrementally loads the journal list with offset paging.
// Entries shifted by concurrent deletes can show up twice or be skipped;
// duplicates are dropped and gaps persist until Reset.
type PagedEntryLoader struct {
	source           EntryLister
	pageSize         int
	prefetchDistance int
	metrics          *metrics.Metrics

	mu      sync.Mutex
	entries []models.Entry
	seen    map[string]struct{}
	offset  int
	hasMore bool
	loading bool
	stale   bool
	epoch   uint64 // bumped by Reset so in-flight loads are discarded
}

// NewPagedEntryLoader creates a loader. Non-positive sizes fall back to the
// defaults.
func NewPagedEntryLoader(source EntryLister, pageSize, prefetchDistance int) *PagedEntryLoader {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if prefetchDistance < 0 {
		prefetchDistance = DefaultPrefetchDistance
	}
	return &PagedEntryLoader{
		source:           source,
		pageSize:         pageSize,
		prefetchDistance: prefetchDistance,
		seen:             make(map[string]struct{}),
		hasMore:          true,
	}
}

// SetMetrics sets the metrics tracker for this loader.
func (l *PagedEntryLoader) SetMetrics(m *metrics.Metrics) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.metrics = m
}

// LoadNext fetches the next page and returns the entries it added. It is a
// no-op when a load is already running or nothing is left.
func (l *PagedEntryLoader) LoadNext(ctx context.Context) ([]models.Entry, error) {
	l.mu.Lock()
	if l.loading || !l.hasMore {
		l.mu.Unlock()
		return nil, nil
	}
	l.loading = true
	offset := l.offset
	epoch := l.epoch
	l.mu.Unlock()

	rows, hasMore, err := LoadPage(ctx, l.source, offset, l.pageSize)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.epoch != epoch {
		// Reset while loading; the page belongs to the old list
		return nil, nil
	}
	l.loading = false
	if err != nil {
		return nil, err
	}
	l.metrics.RecordPageLoaded()

	l.offset += len(rows)
	l.hasMore = hasMore

	added := make([]models.Entry, 0, len(rows))
	for _, e := range rows {
		id := entryKey(e)
		if _, dup := l.seen[id]; dup {
			continue
		}
		l.seen[id] = struct{}{}
		l.entries = append(l.entries, e)
		added = append(added, e)
	}
	return added, nil
}

// OnScrollNearEnd loads the next page when lastVisibleIndex is within the
// prefetch distance of the last loaded entry. It reports whether a load ran.
func (l *PagedEntryLoader) OnScrollNearEnd(ctx context.Context, lastVisibleIndex int) (bool, error) {
	l.mu.Lock()
	loaded := len(l.entries)
	trigger := l.hasMore && !l.loading && lastVisibleIndex >= loaded-1-l.prefetchDistance
	l.mu.Unlock()

	if !trigger {
		return false, nil
	}
	if _, err := l.LoadNext(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// Entries returns a copy of every entry loaded so far
func (l *PagedEntryLoader) Entries() []models.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// HasMore reports whether another page may exist
func (l *PagedEntryLoader) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMore
}

// Reset drops everything loaded so the next LoadNext starts from offset 0
func (l *PagedEntryLoader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	l.seen = make(map[string]struct{})
	l.offset = 0
	l.hasMore = true
	l.loading = false
	l.stale = false
	l.epoch++
}

// MarkStale flags the loaded list as out of date after a write
func (l *PagedEntryLoader) MarkStale() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stale = true
}

// Stale reports whether a write happened since the last Reset
func (l *PagedEntryLoader) Stale() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stale
}

func entryKey(e models.Entry) string {
	return string(e.Kind) + ":" + e.ID
}
