// Package mod wires the daily data source into a backtest run: it builds the
// loader, cache, facade and price board from the configuration, and records
// trades, portfolios and strategy meta when a strategy id is configured.
package mod

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rxtech-lab/argo-daily/internal/clock"
	"github.com/rxtech-lab/argo-daily/internal/config"
	"github.com/rxtech-lab/argo-daily/internal/datasource"
	"github.com/rxtech-lab/argo-daily/internal/logger"
	"github.com/rxtech-lab/argo-daily/internal/metrics"
	"github.com/rxtech-lab/argo-daily/internal/priceboard"
	"github.com/rxtech-lab/argo-daily/internal/recorder"
	"github.com/rxtech-lab/argo-daily/internal/types"
	"github.com/rxtech-lab/argo-daily/pkg/errors"
	"go.uber.org/zap"
)

// RecorderFactory opens the results store for a run.
type RecorderFactory func(cfg config.ModConfig, logger *logger.Logger) (recorder.Recorder, error)

// Option customizes a Mod.
type Option func(*Mod)

// WithRecorderFactory replaces OpenRecorder.
func WithRecorderFactory(factory RecorderFactory) Option {
	return func(m *Mod) {
		m.recorderFactory = factory
	}
}

// WithRegisterer registers the series cache metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(m *Mod) {
		m.registerer = reg
	}
}

// WithWallClock sets the clock used for last_run_time and for the upper bound
// of AvailableDataRange.
func WithWallClock(clk clock.Clock) Option {
	return func(m *Mod) {
		m.wallClock = clk
	}
}

// Mod owns every component of one backtest run.
type Mod struct {
	logger          *logger.Logger
	recorderFactory RecorderFactory
	registerer      prometheus.Registerer
	wallClock       clock.Clock

	runID      string
	loader     *datasource.DuckDBBarLoader
	cache      *datasource.SeriesCache
	dataSource *datasource.DataSource
	priceBoard *priceboard.PriceBoard
	simClock   *clock.FixedClock
	recorder   recorder.Recorder

	mu   sync.Mutex
	meta types.StrategyMeta
}

// NewMod creates a Mod. Nothing is opened until StartUp.
func NewMod(logger *logger.Logger, opts ...Option) *Mod {
	m := &Mod{
		logger:          logger,
		recorderFactory: OpenRecorder,
		registerer:      nil,
		wallClock:       clock.SystemClock{},
		mu:              sync.Mutex{},
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// OpenRecorder opens the recorder named by cfg.Recorder.
func OpenRecorder(cfg config.ModConfig, logger *logger.Logger) (recorder.Recorder, error) {
	switch cfg.Recorder {
	case config.RecorderMySQL, "":
		r, err := recorder.NewMySQLRecorder(cfg.StrategyID, cfg.RecorderDSN, logger)
		if err != nil {
			return nil, err
		}

		if cfg.AutoMigrate {
			if err := r.Migrate(context.Background()); err != nil {
				r.Close()

				return nil, err
			}
		}

		return r, nil
	case config.RecorderParquet:
		r := recorder.NewParquetRecorder(cfg.StrategyID, cfg.ResultsDir, logger)
		if err := r.Initialize(); err != nil {
			return nil, err
		}

		return r, nil
	case config.RecorderMemory:
		return recorder.NewMemoryRecorder(), nil
	}

	return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown recorder: %s", cfg.Recorder)
}

// StartUp opens the backing store and, when a strategy id is configured, the
// recorder. A run whose start date is not after the persisted end date of the
// same strategy is refused with ErrCodeMetaConflict.
func (m *Mod) StartUp(ctx context.Context, cfg config.Config) error {
	if cfg.Mod.DBURL == "" {
		return errors.New(errors.ErrCodeInvalidConfiguration, "missing db_url in mod config")
	}

	m.runID = uuid.New().String()

	loader, err := datasource.NewDuckDBBarLoader(cfg.Mod.DBURL, m.logger)
	if err != nil {
		return err
	}

	for table, path := range cfg.Mod.Parquet {
		if err := loader.AttachParquet(table, path); err != nil {
			loader.Close()

			return err
		}
	}

	cacheMetrics, err := metrics.NewSeriesCacheMetrics(m.registerer)
	if err != nil {
		loader.Close()

		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to register metrics", err)
	}

	m.loader = loader
	m.simClock = clock.NewFixedClock(cfg.Base.Start())
	m.cache = datasource.NewSeriesCache(loader, m.logger, cacheMetrics)
	m.dataSource = datasource.NewDataSource(m.cache, m.wallClock, m.logger)
	m.priceBoard = priceboard.NewPriceBoard(m.dataSource, types.NewInstruments(cfg.Base.Instruments...), m.simClock, m.logger)

	m.logger.Info("Daily data source started",
		zap.String("run_id", m.runID),
		zap.String("db_url", cfg.Mod.DBURL),
		zap.Int("parquet_tables", len(cfg.Mod.Parquet)))

	if cfg.Mod.StrategyID == "" {
		return nil
	}

	if err := m.startRecording(ctx, cfg); err != nil {
		m.close()

		return err
	}

	return nil
}

func (m *Mod) startRecording(ctx context.Context, cfg config.Config) error {
	rec, err := m.recorderFactory(cfg.Mod, m.logger)
	if err != nil {
		return err
	}

	m.recorder = rec

	meta := types.StrategyMeta{
		StrategyID:      cfg.Mod.StrategyID,
		OriginStartDate: cfg.Base.StartDate,
		StartDate:       cfg.Base.StartDate,
		EndDate:         cfg.Base.EndDate,
		LastRunTime:     m.wallClock.Now().Format(types.MetaTimeLayout),
		Cash:            cfg.Base.StockCash,
	}

	persisted, err := rec.LoadMeta(ctx)
	if err != nil {
		return err
	}

	if persisted.IsSome() {
		prev := persisted.Unwrap()

		// Dates are YYYY-MM-DD, so string order is date order.
		if prev.EndDate >= meta.StartDate {
			return errors.Newf(errors.ErrCodeMetaConflict,
				"current start_date %s is before last end_date %s", meta.StartDate, prev.EndDate)
		}

		meta.OriginStartDate = prev.OriginStartDate
		meta.Cash = prev.Cash

		m.logger.Info("Continuing strategy",
			zap.String("strategy_id", meta.StrategyID),
			zap.String("origin_start_date", meta.OriginStartDate),
			zap.String("last_end_date", prev.EndDate),
			zap.Float64("cash", meta.Cash))
	}

	m.mu.Lock()
	m.meta = meta
	m.mu.Unlock()

	return nil
}

// Advance moves the simulated date seen by the price board and the data source.
func (m *Mod) Advance(dt time.Time) {
	m.simClock.Set(dt)
}

// OnTrade records a fill. It is a no-op when no strategy id is configured.
func (m *Mod) OnTrade(trade types.Trade) error {
	if m.recorder == nil {
		return nil
	}

	return m.recorder.AppendTrade(trade)
}

// OnSettlement records the portfolio after the settlement of dt and tracks
// its cash for the meta written at tear down.
func (m *Mod) OnSettlement(dt time.Time, portfolio types.Portfolio) error {
	if m.recorder == nil {
		return nil
	}

	if err := m.recorder.AppendPortfolio(dt, portfolio); err != nil {
		return err
	}

	m.mu.Lock()
	m.meta.Cash = portfolio.Cash
	m.mu.Unlock()

	return nil
}

// OnBenchmarkSettlement records the benchmark portfolio of dt.
func (m *Mod) OnBenchmarkSettlement(dt time.Time, portfolio types.Portfolio) error {
	if m.recorder == nil {
		return nil
	}

	return m.recorder.AppendBenchmarkPortfolio(dt, portfolio)
}

// TearDown persists meta and buffered records only when runErr is nil, then
// releases every resource.
func (m *Mod) TearDown(ctx context.Context, runErr error) error {
	var persistErr error

	if runErr == nil && m.recorder != nil {
		persistErr = m.persist(ctx)
	}

	if runErr != nil {
		m.logger.Warn("Run failed, results are not recorded", zap.String("run_id", m.runID), zap.Error(runErr))
	}

	return stderrors.Join(persistErr, m.close())
}

func (m *Mod) persist(ctx context.Context) error {
	if err := m.recorder.StoreMeta(m.Meta()); err != nil {
		return err
	}

	return m.recorder.Flush(ctx)
}

func (m *Mod) close() error {
	var errs []error

	if m.recorder != nil {
		errs = append(errs, m.recorder.Close())
		m.recorder = nil
	}

	if m.loader != nil {
		errs = append(errs, m.loader.Close())
		m.loader = nil
	}

	return stderrors.Join(errs...)
}

// ReadSQLQuery runs an ad-hoc query against the backing store.
func (m *Mod) ReadSQLQuery(query string, params ...interface{}) ([]datasource.SQLResult, error) {
	if m.loader == nil {
		return nil, errors.New(errors.ErrCodeDataSourceUnavailable, "data source not started")
	}

	return m.loader.ExecuteSQL(query, params...)
}

// RunID returns the id assigned by StartUp.
func (m *Mod) RunID() string {
	return m.runID
}

// DataSource returns the bar facade, nil before StartUp.
func (m *Mod) DataSource() *datasource.DataSource {
	return m.dataSource
}

// PriceBoard returns the price board driven by the simulated clock.
func (m *Mod) PriceBoard() *priceboard.PriceBoard {
	return m.priceBoard
}

// SeriesCache returns the cache behind DataSource.
func (m *Mod) SeriesCache() *datasource.SeriesCache {
	return m.cache
}

// Meta returns the meta that TearDown will store.
func (m *Mod) Meta() types.StrategyMeta {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.meta
}
