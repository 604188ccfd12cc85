// Package priceboard answers "what does this instrument cost today" for the
// order matching side of a backtest.
package priceboard

import (
	"math"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-daily/internal/clock"
	"github.com/rxtech-lab/argo-daily/internal/logger"
	"github.com/rxtech-lab/argo-daily/internal/types"
	"go.uber.org/zap"
)

// BarSource is the part of the data source the price board reads.
type BarSource interface {
	GetBar(instrument types.Instrument, dt time.Time, frequency types.Frequency) (optional.Option[types.Bar], error)
}

// InstrumentProvider resolves order book ids.
type InstrumentProvider interface {
	Instrument(orderBookID string) (types.Instrument, bool)
}

// PriceBoard reads today's close and price limits. Every price is NaN when
// there is no bar for the current simulated date.
type PriceBoard struct {
	bars        BarSource
	instruments InstrumentProvider
	clock       clock.Clock
	logger      *logger.Logger
}

// NewPriceBoard creates a PriceBoard. clk supplies the simulated trading date.
func NewPriceBoard(bars BarSource, instruments InstrumentProvider, clk clock.Clock, logger *logger.Logger) *PriceBoard {
	return &PriceBoard{
		bars:        bars,
		instruments: instruments,
		clock:       clk,
		logger:      logger,
	}
}

func (p *PriceBoard) todayBar(orderBookID string) optional.Option[types.Bar] {
	instrument, ok := p.instruments.Instrument(orderBookID)
	if !ok {
		instrument = types.NewInstrument(orderBookID)
	}

	bar, err := p.bars.GetBar(instrument, p.clock.Now(), types.FrequencyDaily)
	if err != nil {
		p.logger.Warn("Failed to read bar for price board",
			zap.String("order_book_id", orderBookID),
			zap.Error(err))

		return optional.None[types.Bar]()
	}

	return bar
}

func (p *PriceBoard) field(orderBookID string, pick func(types.Bar) float64) float64 {
	bar := p.todayBar(orderBookID)
	if bar.IsNone() {
		return math.NaN()
	}

	return pick(bar.Unwrap())
}

// LastPrice returns today's close.
func (p *PriceBoard) LastPrice(orderBookID string) float64 {
	return p.field(orderBookID, func(b types.Bar) float64 { return b.Close })
}

// LimitUp returns today's upper price limit.
func (p *PriceBoard) LimitUp(orderBookID string) float64 {
	return p.field(orderBookID, func(b types.Bar) float64 { return b.LimitUp })
}

// LimitDown returns today's lower price limit.
func (p *PriceBoard) LimitDown(orderBookID string) float64 {
	return p.field(orderBookID, func(b types.Bar) float64 { return b.LimitDown })
}

// AskPrice is the last price; daily bars carry no order book.
func (p *PriceBoard) AskPrice(orderBookID string) float64 {
	return p.LastPrice(orderBookID)
}

// BidPrice is the last price; daily bars carry no order book.
func (p *PriceBoard) BidPrice(orderBookID string) float64 {
	return p.LastPrice(orderBookID)
}
