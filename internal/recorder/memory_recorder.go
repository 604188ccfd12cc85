package recorder

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-daily/internal/types"
)

// MemoryRecorder keeps everything in memory. Flush moves staged records into
// the committed lists, which is what tests and dry runs inspect.
type MemoryRecorder struct {
	mu sync.Mutex

	meta        optional.Option[types.StrategyMeta]
	stagedMeta  optional.Option[types.StrategyMeta]
	trades      []types.Trade
	portfolios  []PortfolioRecord
	benchmarks  []PortfolioRecord
	staged      []types.Trade
	stagedPorts []PortfolioRecord
	stagedBench []PortfolioRecord
	flushes     int
}

var _ Recorder = (*MemoryRecorder)(nil)

// NewMemoryRecorder creates an empty MemoryRecorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{
		meta:       optional.None[types.StrategyMeta](),
		stagedMeta: optional.None[types.StrategyMeta](),
	}
}

// WithMeta seeds the recorder with previously persisted meta.
func (r *MemoryRecorder) WithMeta(meta types.StrategyMeta) *MemoryRecorder {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.meta = optional.Some(meta)

	return r
}

func (r *MemoryRecorder) LoadMeta(_ context.Context) (optional.Option[types.StrategyMeta], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.meta, nil
}

func (r *MemoryRecorder) StoreMeta(meta types.StrategyMeta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stagedMeta = optional.Some(meta)

	return nil
}

func (r *MemoryRecorder) AppendTrade(trade types.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.staged = append(r.staged, trade)

	return nil
}

func (r *MemoryRecorder) AppendPortfolio(dt time.Time, portfolio types.Portfolio) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stagedPorts = append(r.stagedPorts, PortfolioRecord{Datetime: dt, Portfolio: portfolio})

	return nil
}

func (r *MemoryRecorder) AppendBenchmarkPortfolio(dt time.Time, portfolio types.Portfolio) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stagedBench = append(r.stagedBench, PortfolioRecord{Datetime: dt, Portfolio: portfolio})

	return nil
}

func (r *MemoryRecorder) Flush(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stagedMeta.IsSome() {
		r.meta = r.stagedMeta
		r.stagedMeta = optional.None[types.StrategyMeta]()
	}

	r.trades = append(r.trades, r.staged...)
	r.portfolios = append(r.portfolios, r.stagedPorts...)
	r.benchmarks = append(r.benchmarks, r.stagedBench...)
	r.staged, r.stagedPorts, r.stagedBench = nil, nil, nil
	r.flushes++

	return nil
}

func (r *MemoryRecorder) Close() error {
	return nil
}

// Trades returns the flushed trades.
func (r *MemoryRecorder) Trades() []types.Trade {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.trades)
}

// Portfolios returns the flushed portfolio snapshots.
func (r *MemoryRecorder) Portfolios() []PortfolioRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.portfolios)
}

// Benchmarks returns the flushed benchmark snapshots.
func (r *MemoryRecorder) Benchmarks() []PortfolioRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.benchmarks)
}

// Pending returns how many trades and portfolios are staged but not flushed.
func (r *MemoryRecorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.staged) + len(r.stagedPorts) + len(r.stagedBench)
}

// Flushes returns how many times Flush was called.
func (r *MemoryRecorder) Flushes() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.flushes
}
