package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-daily/internal/logger"
	"github.com/rxtech-lab/argo-daily/internal/types"
	"github.com/rxtech-lab/argo-daily/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	tradesFile     = "trades.parquet"
	portfoliosFile = "portfolios.parquet"
	metaFile       = "meta.yaml"

	portfolioKindAccount   = "portfolio"
	portfolioKindBenchmark = "benchmark"
)

const createTradesTable = `
	CREATE TABLE IF NOT EXISTS trades (
		strategy_id TEXT,
		order_id TEXT,
		exec_id TEXT,
		order_book_id TEXT,
		datetime TIMESTAMP,
		last_price DOUBLE,
		last_quantity DOUBLE,
		transaction_cost DOUBLE,
		side INTEGER,
		position_effect TEXT
	)
`

const createPortfoliosTable = `
	CREATE TABLE IF NOT EXISTS portfolios (
		strategy_id TEXT,
		kind TEXT,
		datetime TIMESTAMP,
		portfolio_value DOUBLE,
		market_value DOUBLE,
		cash DOUBLE,
		daily_pnl DOUBLE,
		daily_returns DOUBLE,
		total_returns DOUBLE
	)
`

// ParquetRecorder keeps results in an in-memory DuckDB and exports them to
// parquet files inside a results directory on Flush. Meta lives next to them
// in meta.yaml.
type ParquetRecorder struct {
	db         *sql.DB
	dir        string
	strategyID string
	logger     *logger.Logger

	mu   sync.Mutex
	meta optional.Option[types.StrategyMeta]
}

var _ Recorder = (*ParquetRecorder)(nil)

// NewParquetRecorder creates a ParquetRecorder writing into dir.
func NewParquetRecorder(strategyID string, dir string, logger *logger.Logger) *ParquetRecorder {
	return &ParquetRecorder{
		db:         nil,
		dir:        dir,
		strategyID: strategyID,
		logger:     logger,
		mu:         sync.Mutex{},
		meta:       optional.None[types.StrategyMeta](),
	}
}

// Initialize creates the results directory and the in-memory tables. Results
// already exported to dir are loaded back so that a continued run appends.
func (r *ParquetRecorder) Initialize() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeRecorderFailed, "failed to create results directory", err)
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeRecorderFailed, "failed to open DuckDB connection", err)
	}

	r.db = db

	for _, ddl := range []string{createTradesTable, createPortfoliosTable} {
		if _, err = r.db.Exec(ddl); err != nil {
			r.db.Close()
			r.db = nil

			return errors.Wrap(errors.ErrCodeRecorderFailed, "failed to create result tables", err)
		}
	}

	for table, file := range map[string]string{"trades": tradesFile, "portfolios": portfoliosFile} {
		path := filepath.Join(r.dir, file)
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}

		_, err = r.db.Exec(fmt.Sprintf(`INSERT INTO %s SELECT * FROM read_parquet('%s')`, table, quote(path)))
		if err != nil {
			r.logger.Warn("Ignoring unreadable results file", zap.String("path", path), zap.Error(err))
		}
	}

	return nil
}

func quote(path string) string {
	return strings.ReplaceAll(path, "'", "''")
}

func (r *ParquetRecorder) LoadMeta(_ context.Context) (optional.Option[types.StrategyMeta], error) {
	data, err := os.ReadFile(filepath.Join(r.dir, metaFile))
	if os.IsNotExist(err) {
		return optional.None[types.StrategyMeta](), nil
	}

	if err != nil {
		return optional.None[types.StrategyMeta](), errors.Wrap(errors.ErrCodeRecorderFailed, "failed to read meta", err)
	}

	var meta types.StrategyMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return optional.None[types.StrategyMeta](), errors.Wrap(errors.ErrCodeRecorderFailed, "failed to parse meta", err)
	}

	return optional.Some(meta), nil
}

func (r *ParquetRecorder) StoreMeta(meta types.StrategyMeta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	meta.StrategyID = r.strategyID
	r.meta = optional.Some(meta)

	return nil
}

func (r *ParquetRecorder) AppendTrade(trade types.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return errors.New(errors.ErrCodeRecorderFailed, "recorder not initialized")
	}

	_, err := r.db.Exec(`
		INSERT INTO trades (strategy_id, order_id, exec_id, order_book_id, datetime,
			last_price, last_quantity, transaction_cost, side, position_effect)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.strategyID, trade.OrderID, trade.ExecID, trade.OrderBookID, trade.Datetime,
		trade.LastPrice, trade.LastQuantity, trade.TransactionCost, trade.Side.Sign(), trade.PositionEffect)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRecorderFailed, "failed to insert trade", err)
	}

	return nil
}

func (r *ParquetRecorder) AppendPortfolio(dt time.Time, portfolio types.Portfolio) error {
	return r.appendPortfolio(portfolioKindAccount, dt, portfolio)
}

func (r *ParquetRecorder) AppendBenchmarkPortfolio(dt time.Time, portfolio types.Portfolio) error {
	return r.appendPortfolio(portfolioKindBenchmark, dt, portfolio)
}

func (r *ParquetRecorder) appendPortfolio(kind string, dt time.Time, p types.Portfolio) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return errors.New(errors.ErrCodeRecorderFailed, "recorder not initialized")
	}

	_, err := r.db.Exec(`
		INSERT INTO portfolios (strategy_id, kind, datetime, portfolio_value, market_value,
			cash, daily_pnl, daily_returns, total_returns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.strategyID, kind, dt, p.PortfolioValue, p.MarketValue, p.Cash, p.DailyPnL, p.DailyReturns, p.TotalReturns)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRecorderFailed, "failed to insert portfolio", err)
	}

	return nil
}

// Flush exports both tables to parquet and writes the staged meta.
func (r *ParquetRecorder) Flush(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return errors.New(errors.ErrCodeRecorderFailed, "recorder not initialized")
	}

	exports := []struct {
		query string
		file  string
	}{
		{query: "SELECT * FROM trades ORDER BY datetime ASC", file: tradesFile},
		{query: "SELECT * FROM portfolios ORDER BY kind ASC, datetime ASC", file: portfoliosFile},
	}

	for _, export := range exports {
		path := filepath.Join(r.dir, export.file)

		_, err := r.db.Exec(fmt.Sprintf(`COPY (%s) TO '%s' (FORMAT PARQUET)`, export.query, quote(path)))
		if err != nil {
			return errors.Wrapf(errors.ErrCodeRecorderFailed, err, "failed to export %s", export.file)
		}
	}

	if r.meta.IsSome() {
		data, err := yaml.Marshal(r.meta.Unwrap())
		if err != nil {
			return errors.Wrap(errors.ErrCodeRecorderFailed, "failed to encode meta", err)
		}

		if err := os.WriteFile(filepath.Join(r.dir, metaFile), data, 0644); err != nil {
			return errors.Wrap(errors.ErrCodeRecorderFailed, "failed to write meta", err)
		}

		r.meta = optional.None[types.StrategyMeta]()
	}

	r.logger.Info("Exported strategy results", zap.String("strategy_id", r.strategyID), zap.String("dir", r.dir))

	return nil
}

// TradeCount returns the number of trades held, exported or not.
func (r *ParquetRecorder) TradeCount() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return 0, errors.New(errors.ErrCodeRecorderFailed, "recorder not initialized")
	}

	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM trades").Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeRecorderFailed, "failed to count trades", err)
	}

	return count, nil
}

// Dir returns the results directory.
func (r *ParquetRecorder) Dir() string {
	return r.dir
}

func (r *ParquetRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db != nil {
		if err := r.db.Close(); err != nil {
			return errors.Wrap(errors.ErrCodeRecorderFailed, "failed to close database", err)
		}

		r.db = nil
	}

	return nil
}
