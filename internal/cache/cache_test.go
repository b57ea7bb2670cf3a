package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonnyWalker81/patternlog/internal/metrics"
	"github.com/JonnyWalker81/patternlog/internal/models"
)

var base = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(maxEntries int) (*Cache, *fakeClock) {
	clock := &fakeClock{now: base}
	c := New(5*time.Minute, maxEntries)
	c.SetClock(clock.Now)
	return c, clock
}

func shortWindow(end time.Time) models.Window {
	return models.Window{
		Start:       end.AddDate(0, 0, -7),
		End:         end,
		Granularity: models.GranularityShort,
		TimeZone:    "UTC",
	}
}

func sampleReport(w models.Window) *models.Report {
	day := models.DayCount{Date: "2025-03-09", Count: 4, Score: 1.4}
	return &models.Report{
		Window:      w,
		GeneratedAt: base,
		Statistics: models.PeriodStatistics{
			TotalCount: 4,
			CategoryCounts: []models.CategoryCount{
				{Category: models.CategorySensory, Count: 3},
				{Category: models.CategoryEmotional, Count: 1},
			},
			MostFrequentCategory: models.CategorySensory,
			MostFrequentPattern:  models.PatternSensoryOverload,
			DailyCounts:          []models.DayCount{day},
			MostActiveDay:        &day,
			BestDay:              &day,
			WorstDay:             &day,
			AverageIntensity:     3.25,
			TotalDurationMinutes: 45,
			Medication: models.MedicationSummary{
				TotalIntakes:  2,
				Taken:         1,
				Skipped:       1,
				AdherenceRate: 0.5,
			},
		},
		Trend: models.TrendDescriptor{
			Metric:      models.MetricEnergyLevel,
			Direction:   models.TrendFalling,
			SlopePerDay: -0.3333333333333333,
			SampleCount: 3,
		},
		MedicationTrends: []models.TrendDescriptor{
			{Metric: models.MetricMood, Direction: models.TrendInsufficientData, SampleCount: 1},
		},
		Findings: []models.CorrelationFinding{
			{Key: "effectiveness_high:challenging_rate", SupportingDays: 6, TotalDays: 8, Direction: models.DirectionPositive},
		},
	}
}

func TestCache_RoundTrip(t *testing.T) {
	c, _ := newTestCache(0)
	w := shortWindow(base)
	report := sampleReport(w)

	require.NoError(t, c.Put(KeyFor(w), report, 0))

	got, ok := c.Get(KeyFor(w))
	require.True(t, ok)
	assert.Equal(t, report, got)

	// The hit is a copy, mutating it must not touch the cached value
	got.Statistics.TotalCount = 99
	again, ok := c.Get(KeyFor(w))
	require.True(t, ok)
	assert.Equal(t, 4, again.Statistics.TotalCount)
}

func TestCache_KeyRoundsToMinute(t *testing.T) {
	c, _ := newTestCache(0)
	w := shortWindow(base.Add(10 * time.Second))
	require.NoError(t, c.Put(KeyFor(w), sampleReport(w), 0))

	later := shortWindow(base.Add(50 * time.Second))
	_, ok := c.Get(KeyFor(later))
	assert.True(t, ok, "windows ending in the same minute share a key")

	nextMinute := shortWindow(base.Add(61 * time.Second))
	_, ok = c.Get(KeyFor(nextMinute))
	assert.False(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	c, clock := newTestCache(0)
	w := shortWindow(base)
	require.NoError(t, c.Put(KeyFor(w), sampleReport(w), 0))

	clock.Advance(4*time.Minute + 59*time.Second)
	_, ok := c.Get(KeyFor(w))
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get(KeyFor(w))
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_CustomTTL(t *testing.T) {
	c, clock := newTestCache(0)
	w := shortWindow(base)
	require.NoError(t, c.Put(KeyFor(w), sampleReport(w), 30*time.Second))

	clock.Advance(31 * time.Second)
	_, ok := c.Get(KeyFor(w))
	assert.False(t, ok)
}

func TestCache_CorruptEntryIsMiss(t *testing.T) {
	m := metrics.New()
	c, _ := newTestCache(0)
	c.SetMetrics(m)
	w := shortWindow(base)
	key := KeyFor(w)
	require.NoError(t, c.Put(key, sampleReport(w), 0))

	c.mu.Lock()
	c.entries[key].payload = []byte(`{"window": 12`)
	c.mu.Unlock()

	got, ok := c.Get(key)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheEvictionsTotal.WithLabelValues("corrupt")))
}

func TestCache_SchemaMismatchIsMiss(t *testing.T) {
	c, _ := newTestCache(0)
	w := shortWindow(base)
	key := KeyFor(w)
	require.NoError(t, c.Put(key, sampleReport(w), 0))

	c.mu.Lock()
	c.entries[key].version = SchemaVersion - 1
	c.mu.Unlock()

	_, ok := c.Get(key)
	assert.False(t, ok)
}

func TestCache_PutNil(t *testing.T) {
	c, _ := newTestCache(0)
	assert.Error(t, c.Put(KeyFor(shortWindow(base)), nil, 0))
}

func TestCache_InvalidateContaining(t *testing.T) {
	c, _ := newTestCache(0)
	short := shortWindow(base)
	long := models.Window{
		Start:       base.AddDate(0, 0, -30),
		End:         base,
		Granularity: models.GranularityLong,
		TimeZone:    "UTC",
	}
	require.NoError(t, c.Put(KeyFor(short), sampleReport(short), 0))
	require.NoError(t, c.Put(KeyFor(long), sampleReport(long), 0))

	// Only the long window reaches back 20 days
	removed := c.InvalidateContaining(base.AddDate(0, 0, -20))
	assert.Equal(t, 1, removed)
	_, ok := c.Get(KeyFor(short))
	assert.True(t, ok)
	_, ok = c.Get(KeyFor(long))
	assert.False(t, ok)

	// A record stamped in the same minute as the window end is covered
	removed = c.InvalidateContaining(base.Add(45 * time.Second))
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, c.Len())
}

func TestCache_InvalidateOutsideWindow(t *testing.T) {
	c, _ := newTestCache(0)
	w := shortWindow(base)
	require.NoError(t, c.Put(KeyFor(w), sampleReport(w), 0))

	assert.Equal(t, 0, c.InvalidateContaining(base.AddDate(0, 0, -8)))
	assert.Equal(t, 0, c.InvalidateContaining(base.Add(2*time.Minute)))
	assert.Equal(t, 1, c.Len())
}

func TestCache_PutIfCurrent(t *testing.T) {
	c, _ := newTestCache(0)
	w := shortWindow(base)
	key := KeyFor(w)

	gen := c.Generation()
	c.InvalidateContaining(base)
	assert.Equal(t, gen+1, c.Generation(), "invalidation advances the generation even when nothing was cached")

	stored, err := c.PutIfCurrent(key, sampleReport(w), 0, gen)
	require.NoError(t, err)
	assert.False(t, stored)
	_, ok := c.Get(key)
	assert.False(t, ok)

	stored, err = c.PutIfCurrent(key, sampleReport(w), 0, c.Generation())
	require.NoError(t, err)
	assert.True(t, stored)
	_, ok = c.Get(key)
	assert.True(t, ok)
}

func TestCache_CapacityEvictsOldest(t *testing.T) {
	c, clock := newTestCache(2)

	var keys []Key
	for i := 0; i < 3; i++ {
		w := shortWindow(base.Add(time.Duration(i) * time.Hour))
		keys = append(keys, KeyFor(w))
		require.NoError(t, c.Put(KeyFor(w), sampleReport(w), time.Hour*24))
		clock.Advance(time.Second)
	}

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(keys[0])
	assert.False(t, ok)
	_, ok = c.Get(keys[2])
	assert.True(t, ok)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(time.Minute, 16)
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				w := shortWindow(base.Add(time.Duration(j%4) * time.Minute))
				if i%2 == 0 {
					_ = c.Put(KeyFor(w), sampleReport(w), 0)
				} else {
					c.Get(KeyFor(w))
				}
				if j%10 == 0 {
					c.InvalidateContaining(base)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 16)
}
