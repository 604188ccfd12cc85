package datasource

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rxtech-lab/argo-daily/internal/logger"
	"github.com/rxtech-lab/argo-daily/internal/metrics"
	"github.com/rxtech-lab/argo-daily/internal/types"
	"go.uber.org/zap"
)

// seriesSlot holds the two series variants of one instrument. Each variant is
// populated at most once; readers of a populated slot never take a lock.
type seriesSlot struct {
	mu       sync.Mutex
	raw      atomic.Pointer[Series]
	filtered atomic.Pointer[Series]
}

// SeriesCache memoizes per-instrument series for the lifetime of the process.
// There is no eviction: a backtest touches a small, fixed universe.
//
// A load that returns an error is not cached, so the next call retries it.
// A load that succeeds with zero rows is cached as an empty Series.
type SeriesCache struct {
	loader  BarLoader
	logger  *logger.Logger
	metrics *metrics.SeriesCacheMetrics
	slots   map[string]*seriesSlot
	mu      sync.RWMutex
}

// NewSeriesCache creates a SeriesCache reading from loader. m may be nil.
func NewSeriesCache(loader BarLoader, logger *logger.Logger, m *metrics.SeriesCacheMetrics) *SeriesCache {
	return &SeriesCache{
		loader:  loader,
		logger:  logger,
		metrics: m,
		slots:   make(map[string]*seriesSlot),
		mu:      sync.RWMutex{},
	}
}

// RawSeries returns every bar of the instrument, loading it on first use.
func (c *SeriesCache) RawSeries(instrument types.Instrument) (*Series, error) {
	slot := c.slot(instrument.OrderBookID)

	if s := slot.raw.Load(); s != nil {
		c.metrics.ObserveHit("raw")

		return s, nil
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()

	// Double-check after acquiring the slot lock
	if s := slot.raw.Load(); s != nil {
		c.metrics.ObserveHit("raw")

		return s, nil
	}

	start := time.Now()

	bars, err := c.loader.LoadBars(instrument)
	if err != nil {
		c.metrics.ObserveFailure(string(instrument.Type))
		c.logger.Warn("Failed to load series",
			zap.String("order_book_id", instrument.OrderBookID),
			zap.Error(err))

		return nil, err
	}

	s := NewSeries(bars)
	slot.raw.Store(s)

	c.metrics.ObserveLoad(string(instrument.Type), time.Since(start).Seconds())
	c.logger.Debug("Cached series",
		zap.String("order_book_id", instrument.OrderBookID),
		zap.Int("bars", s.Len()))

	return s, nil
}

// FilteredSeries returns the raw series without suspended (zero-volume) days.
func (c *SeriesCache) FilteredSeries(instrument types.Instrument) (*Series, error) {
	slot := c.slot(instrument.OrderBookID)

	if s := slot.filtered.Load(); s != nil {
		c.metrics.ObserveHit("filtered")

		return s, nil
	}

	raw, err := c.RawSeries(instrument)
	if err != nil {
		return nil, err
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()

	if s := slot.filtered.Load(); s != nil {
		return s, nil
	}

	s := raw.Filter(func(bar types.Bar) bool {
		return bar.Volume > 0
	})
	slot.filtered.Store(s)

	return s, nil
}

// Preload loads the raw series of each instrument, stopping at the first error.
// onLoaded, when not nil, is called after every instrument.
func (c *SeriesCache) Preload(instruments []types.Instrument, onLoaded func(types.Instrument)) error {
	for _, instrument := range instruments {
		if _, err := c.RawSeries(instrument); err != nil {
			return err
		}

		if onLoaded != nil {
			onLoaded(instrument)
		}
	}

	return nil
}

// Len returns the number of instruments with a populated raw series.
func (c *SeriesCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0

	for _, slot := range c.slots {
		if slot.raw.Load() != nil {
			n++
		}
	}

	return n
}

func (c *SeriesCache) slot(orderBookID string) *seriesSlot {
	c.mu.RLock()
	slot, ok := c.slots[orderBookID]
	c.mu.RUnlock()

	if ok {
		return slot
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if slot, ok := c.slots[orderBookID]; ok {
		return slot
	}

	slot = &seriesSlot{}
	c.slots[orderBookID] = slot

	return slot
}
