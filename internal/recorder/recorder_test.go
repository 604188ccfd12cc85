package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-daily/internal/logger"
	"github.com/rxtech-lab/argo-daily/internal/types"
	"github.com/rxtech-lab/argo-daily/pkg/errors"
	"github.com/stretchr/testify/suite"
)

func sampleTrade(orderID string, side types.Side) types.Trade {
	return types.Trade{
		ExecID:          "exec-" + orderID,
		OrderID:         orderID,
		OrderBookID:     "600000.XSHG",
		Datetime:        time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC),
		LastPrice:       10.5,
		LastQuantity:    100,
		TransactionCost: 5,
		Side:            side,
		PositionEffect:  "OPEN",
	}
}

func samplePortfolio(cash float64) types.Portfolio {
	return types.Portfolio{
		PortfolioValue: 100000,
		MarketValue:    100000 - cash,
		Cash:           cash,
		DailyPnL:       12,
		DailyReturns:   0.0012,
		TotalReturns:   0.05,
	}
}

type MemoryRecorderTestSuite struct {
	suite.Suite
}

func TestMemoryRecorderSuite(t *testing.T) {
	suite.Run(t, new(MemoryRecorderTestSuite))
}

func (suite *MemoryRecorderTestSuite) TestStagesUntilFlush() {
	r := NewMemoryRecorder()
	ctx := context.Background()

	suite.NoError(r.AppendTrade(sampleTrade("1", types.SideBuy)))
	suite.NoError(r.AppendPortfolio(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), samplePortfolio(5000)))
	suite.NoError(r.AppendBenchmarkPortfolio(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), samplePortfolio(0)))
	suite.NoError(r.StoreMeta(types.StrategyMeta{StrategyID: "s1", EndDate: "2024-01-02"}))

	suite.Equal(3, r.Pending())
	suite.Empty(r.Trades())

	meta, err := r.LoadMeta(ctx)
	suite.NoError(err)
	suite.True(meta.IsNone())

	suite.NoError(r.Flush(ctx))
	suite.Equal(0, r.Pending())
	suite.Len(r.Trades(), 1)
	suite.Len(r.Portfolios(), 1)
	suite.Len(r.Benchmarks(), 1)
	suite.Equal(1, r.Flushes())

	meta, err = r.LoadMeta(ctx)
	suite.NoError(err)
	suite.Equal("2024-01-02", meta.Unwrap().EndDate)
}

func (suite *MemoryRecorderTestSuite) TestWithMeta() {
	r := NewMemoryRecorder().WithMeta(types.StrategyMeta{StrategyID: "s1", Cash: 42})

	meta, err := r.LoadMeta(context.Background())
	suite.NoError(err)
	suite.Equal(42.0, meta.Unwrap().Cash)
}

type ParquetRecorderTestSuite struct {
	suite.Suite
	tempDir string
	dir     string
}

func TestParquetRecorderSuite(t *testing.T) {
	suite.Run(t, new(ParquetRecorderTestSuite))
}

func (suite *ParquetRecorderTestSuite) SetupTest() {
	tempDir, err := os.MkdirTemp("", "recorder_test_*")
	suite.Require().NoError(err)
	suite.tempDir = tempDir
	suite.dir = filepath.Join(tempDir, "results")
}

func (suite *ParquetRecorderTestSuite) TearDownTest() {
	if suite.tempDir != "" {
		os.RemoveAll(suite.tempDir)
	}
}

func (suite *ParquetRecorderTestSuite) countRows(file string, where string) int {
	db, err := sql.Open("duckdb", ":memory:")
	suite.Require().NoError(err)
	defer db.Close()

	var count int

	query := fmt.Sprintf("SELECT COUNT(*) FROM read_parquet('%s') %s", filepath.Join(suite.dir, file), where)
	suite.Require().NoError(db.QueryRow(query).Scan(&count))

	return count
}

func (suite *ParquetRecorderTestSuite) TestNotInitialized() {
	r := NewParquetRecorder("s1", suite.dir, logger.NewNopLogger())

	err := r.AppendTrade(sampleTrade("1", types.SideBuy))
	suite.Error(err)
	suite.Contains(err.Error(), "recorder not initialized")

	err = r.Flush(context.Background())
	suite.True(errors.HasCode(err, errors.ErrCodeRecorderFailed))
}

func (suite *ParquetRecorderTestSuite) TestFlushExportsParquetAndMeta() {
	ctx := context.Background()
	r := NewParquetRecorder("s1", suite.dir, logger.NewNopLogger())
	suite.Require().NoError(r.Initialize())
	defer r.Close()

	suite.NoError(r.AppendTrade(sampleTrade("1", types.SideBuy)))
	suite.NoError(r.AppendTrade(sampleTrade("2", types.SideSell)))
	suite.NoError(r.AppendPortfolio(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), samplePortfolio(5000)))
	suite.NoError(r.AppendBenchmarkPortfolio(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), samplePortfolio(0)))
	suite.NoError(r.StoreMeta(types.StrategyMeta{OriginStartDate: "2024-01-01", StartDate: "2024-01-01", EndDate: "2024-01-02", Cash: 5000}))

	count, err := r.TradeCount()
	suite.NoError(err)
	suite.Equal(2, count)

	suite.Require().NoError(r.Flush(ctx))

	suite.Equal(2, suite.countRows(tradesFile, ""))
	suite.Equal(1, suite.countRows(tradesFile, "WHERE side = -1"))
	suite.Equal(1, suite.countRows(portfoliosFile, "WHERE kind = 'benchmark'"))

	meta, err := r.LoadMeta(ctx)
	suite.NoError(err)
	suite.Require().True(meta.IsSome())
	suite.Equal("s1", meta.Unwrap().StrategyID)
	suite.Equal("2024-01-02", meta.Unwrap().EndDate)
	suite.Equal(5000.0, meta.Unwrap().Cash)
}

func (suite *ParquetRecorderTestSuite) TestContinuedRunAppends() {
	ctx := context.Background()

	first := NewParquetRecorder("s1", suite.dir, logger.NewNopLogger())
	suite.Require().NoError(first.Initialize())
	suite.NoError(first.AppendTrade(sampleTrade("1", types.SideBuy)))
	suite.Require().NoError(first.Flush(ctx))
	suite.NoError(first.Close())

	second := NewParquetRecorder("s1", suite.dir, logger.NewNopLogger())
	suite.Require().NoError(second.Initialize())
	defer second.Close()

	suite.NoError(second.AppendTrade(sampleTrade("2", types.SideSell)))
	suite.Require().NoError(second.Flush(ctx))

	suite.Equal(2, suite.countRows(tradesFile, ""))
}

func (suite *ParquetRecorderTestSuite) TestLoadMetaWithoutFile() {
	r := NewParquetRecorder("s1", suite.dir, logger.NewNopLogger())

	meta, err := r.LoadMeta(context.Background())
	suite.NoError(err)
	suite.True(meta.IsNone())
}

type GormModelsTestSuite struct {
	suite.Suite
}

func TestGormModelsSuite(t *testing.T) {
	suite.Run(t, new(GormModelsTestSuite))
}

func (suite *GormModelsTestSuite) TestTableNames() {
	suite.Equal("strategy_trade", tradeModel{}.TableName())
	suite.Equal("strategy_portfolio", portfolioModel{}.TableName())
	suite.Equal("strategy_portfolio_bm", benchmarkModel{}.TableName())
	suite.Equal("strategy_meta", metaModel{}.TableName())
}

func (suite *GormModelsTestSuite) TestTradeSideIsSigned() {
	buy := toTradeModel("s1", sampleTrade("1", types.SideBuy))
	sell := toTradeModel("s1", sampleTrade("2", types.SideSell))

	suite.Equal(1, buy.Side)
	suite.Equal(-1, sell.Side)
	suite.Equal("s1", buy.StrategyID)
	suite.Equal("exec-1", buy.ExecID)
	suite.Equal("OPEN", buy.PositionEffect)
}

func (suite *GormModelsTestSuite) TestPortfolioColumns() {
	dt := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	cols := toPortfolioColumns("s1", dt, samplePortfolio(5000))

	suite.Equal(dt, cols.Datetime)
	suite.Equal(5000.0, cols.Cash)
	suite.Equal(95000.0, cols.MarketValue)
}

func (suite *GormModelsTestSuite) TestMetaRoundTrip() {
	meta := types.StrategyMeta{
		StrategyID:      "s1",
		OriginStartDate: "2020-01-01",
		StartDate:       "2024-01-01",
		EndDate:         "2024-06-30",
		LastRunTime:     "2024-07-01 08:00:00",
		Cash:            1234.5,
	}

	suite.Equal(meta, toMetaModel(meta).toMeta())
}

// TestMySQLRecorder runs against a real MySQL server when ARGO_MYSQL_DSN is set.
func (suite *GormModelsTestSuite) TestMySQLRecorder() {
	dsn := os.Getenv("ARGO_MYSQL_DSN")
	if dsn == "" {
		suite.T().Skip("ARGO_MYSQL_DSN not set")
	}

	ctx := context.Background()
	strategyID := fmt.Sprintf("test-%d", time.Now().UnixNano())

	r, err := NewMySQLRecorder(strategyID, dsn, logger.NewNopLogger())
	suite.Require().NoError(err)
	defer r.Close()

	suite.Require().NoError(r.Migrate(ctx))

	meta, err := r.LoadMeta(ctx)
	suite.Require().NoError(err)
	suite.True(meta.IsNone())

	suite.NoError(r.AppendTrade(sampleTrade("1", types.SideBuy)))
	suite.NoError(r.AppendPortfolio(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), samplePortfolio(5000)))
	suite.NoError(r.StoreMeta(types.StrategyMeta{EndDate: "2024-01-02", Cash: 5000}))
	suite.Require().NoError(r.Flush(ctx))

	suite.NoError(r.StoreMeta(types.StrategyMeta{EndDate: "2024-01-05", Cash: 6000}))
	suite.Require().NoError(r.Flush(ctx))

	meta, err = r.LoadMeta(ctx)
	suite.Require().NoError(err)
	suite.Equal("2024-01-05", meta.Unwrap().EndDate)
	suite.Equal(6000.0, meta.Unwrap().Cash)
}
