// Package recorder persists what a backtest produced: filled trades, daily
// portfolio snapshots and the strategy meta that lets the next run continue
// where this one stopped.
//
// Trades and portfolios are buffered and only reach the store on Flush.
// StoreMeta is buffered the same way, so a failed run never advances the
// persisted end date.
package recorder

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-daily/internal/types"
)

// Recorder is implemented by every results store.
type Recorder interface {
	// LoadMeta returns the persisted meta of the strategy, if any.
	LoadMeta(ctx context.Context) (optional.Option[types.StrategyMeta], error)
	// StoreMeta stages meta to be written by the next Flush.
	StoreMeta(meta types.StrategyMeta) error
	AppendTrade(trade types.Trade) error
	AppendPortfolio(dt time.Time, portfolio types.Portfolio) error
	AppendBenchmarkPortfolio(dt time.Time, portfolio types.Portfolio) error
	// Flush writes everything staged since the previous Flush.
	Flush(ctx context.Context) error
	Close() error
}

// PortfolioRecord is a portfolio snapshot with its settlement date.
type PortfolioRecord struct {
	Datetime  time.Time
	Portfolio types.Portfolio
}
