package datasource

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-daily/internal/clock"
	"github.com/rxtech-lab/argo-daily/internal/logger"
	"github.com/rxtech-lab/argo-daily/internal/types"
	"github.com/rxtech-lab/argo-daily/pkg/errors"
	"go.uber.org/zap"
)

// EarliestDate is the lower bound of AvailableDataRange.
var EarliestDate = time.Date(2005, 1, 1, 0, 0, 0, 0, time.UTC)

// HistoryRequest describes a "last N bars ending at Date" query.
type HistoryRequest struct {
	Instrument types.Instrument
	Count      int
	Frequency  types.Frequency
	Fields     FieldSelector
	Date       time.Time
	// SkipSuspended drops zero-volume days for common stocks. Defaults to true.
	SkipSuspended optional.Option[bool]
	// AdjustType defaults to AdjustPre.
	AdjustType optional.Option[AdjustType]
}

// DataSource answers the backtesting engine's bar queries from the series cache.
type DataSource struct {
	cache  *SeriesCache
	clock  clock.Clock
	logger *logger.Logger
}

// NewDataSource creates a DataSource. clk supplies "today" for AvailableDataRange.
func NewDataSource(cache *SeriesCache, clk clock.Clock, logger *logger.Logger) *DataSource {
	return &DataSource{
		cache:  cache,
		clock:  clk,
		logger: logger,
	}
}

func checkFrequency(frequency types.Frequency) error {
	if frequency != types.FrequencyDaily {
		return errors.Newf(errors.ErrCodeUnsupportedFrequency, "unsupported frequency: %s", frequency)
	}

	return nil
}

// GetBar returns the bar of instrument dated exactly dt. Suspended days are
// not hidden. A missing bar is None, not an error.
func (d *DataSource) GetBar(instrument types.Instrument, dt time.Time, frequency types.Frequency) (optional.Option[types.Bar], error) {
	if err := checkFrequency(frequency); err != nil {
		return optional.None[types.Bar](), err
	}

	series, err := d.cache.RawSeries(instrument)
	if err != nil {
		return optional.None[types.Bar](), err
	}

	return series.BarAt(types.DateKey(dt)), nil
}

// HistoryBars returns up to req.Count bars ending at req.Date, adjusted and
// projected. Requests are validated before any data is loaded.
func (d *DataSource) HistoryBars(req HistoryRequest) (Window, error) {
	if err := checkFrequency(req.Frequency); err != nil {
		return Window{}, err
	}

	if req.Count < 0 {
		return Window{}, errors.Newf(errors.ErrCodeInvalidParameter, "bar count must not be negative: %d", req.Count)
	}

	adjust := req.AdjustType.TakeOr(AdjustPre)
	if _, err := ParseAdjustType(string(adjust)); err != nil {
		return Window{}, err
	}

	schema := types.Schema(req.Instrument.Type)
	if err := req.Fields.Validate(schema); err != nil {
		return Window{}, err
	}

	var (
		series *Series
		err    error
	)

	if req.SkipSuspended.TakeOr(true) && req.Instrument.FiltersSuspension() {
		series, err = d.cache.FilteredSeries(req.Instrument)
	} else {
		series, err = d.cache.RawSeries(req.Instrument)
	}

	if err != nil {
		return Window{}, err
	}

	fields := req.Fields.Project(schema)
	bars := series.BarsEndingAt(types.DateKey(req.Date), req.Count)

	if adjust == AdjustNone || !req.Instrument.IsAdjustable() || req.Fields.skipsAdjustment() {
		adjust = AdjustNone
	}

	adjusted, err := AdjustBars(bars, fields, adjust)
	if err != nil {
		d.logger.Warn("Failed to adjust bars",
			zap.String("order_book_id", req.Instrument.OrderBookID),
			zap.String("adjust_type", string(adjust)),
			zap.Error(err))

		return Window{}, err
	}

	projectBars(adjusted, fields)

	return Window{
		selector: req.Fields,
		fields:   fields,
		bars:     adjusted,
	}, nil
}

// AvailableDataRange returns the fixed earliest date and today. The range is
// not derived from the data actually stored.
func (d *DataSource) AvailableDataRange(_ types.Frequency) (time.Time, time.Time) {
	y, m, day := d.clock.Now().Date()

	return EarliestDate, time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func notProvided(operation string) error {
	return errors.Newf(errors.ErrCodeNotProvided, "%s is not provided by the daily data source", operation)
}

// GetTradingMinutesFor is not provided: only daily bars are served.
func (d *DataSource) GetTradingMinutesFor(_ string, _ time.Time) ([]time.Time, error) {
	return nil, notProvided("trading minutes")
}

// CurrentSnapshot is not provided: there is no live market data.
func (d *DataSource) CurrentSnapshot(_ types.Instrument, _ types.Frequency, _ time.Time) (optional.Option[types.Tick], error) {
	return optional.None[types.Tick](), notProvided("current snapshot")
}

// GetTicks is not provided.
func (d *DataSource) GetTicks(_ string, _ time.Time) ([]types.Tick, error) {
	return nil, notProvided("ticks")
}

// GetMergeTicks is not provided.
func (d *DataSource) GetMergeTicks(_ []string, _ time.Time, _ optional.Option[time.Time]) ([]types.Tick, error) {
	return nil, notProvided("merged ticks")
}

// HistoryTicks is not provided.
func (d *DataSource) HistoryTicks(_ types.Instrument, _ int, _ time.Time) ([]types.Tick, error) {
	return nil, notProvided("history ticks")
}
