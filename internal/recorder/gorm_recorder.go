package recorder

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-daily/internal/logger"
	"github.com/rxtech-lab/argo-daily/internal/types"
	"github.com/rxtech-lab/argo-daily/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const insertBatchSize = 500

// GormRecorder writes results to the strategy_* tables through gorm.
type GormRecorder struct {
	db         *gorm.DB
	strategyID string
	logger     *logger.Logger

	mu         sync.Mutex
	meta       optional.Option[types.StrategyMeta]
	trades     []tradeModel
	portfolios []portfolioModel
	benchmarks []benchmarkModel
}

var _ Recorder = (*GormRecorder)(nil)

// NewMySQLRecorder opens dsn with the MySQL driver.
func NewMySQLRecorder(strategyID string, dsn string, logger *logger.Logger) (*GormRecorder, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRecorderFailed, "failed to open mysql recorder", err)
	}

	return NewGormRecorder(strategyID, db, logger), nil
}

// NewGormRecorder records for strategyID on an already opened connection.
func NewGormRecorder(strategyID string, db *gorm.DB, logger *logger.Logger) *GormRecorder {
	return &GormRecorder{
		db:         db,
		strategyID: strategyID,
		logger:     logger,
		mu:         sync.Mutex{},
		meta:       optional.None[types.StrategyMeta](),
	}
}

// Migrate creates or updates the strategy_* tables.
func (r *GormRecorder) Migrate(ctx context.Context) error {
	err := r.db.WithContext(ctx).AutoMigrate(&tradeModel{}, &portfolioModel{}, &benchmarkModel{}, &metaModel{})
	if err != nil {
		return errors.Wrap(errors.ErrCodeRecorderFailed, "failed to migrate recorder tables", err)
	}

	return nil
}

// LoadMeta reads the persisted meta of the strategy. A missing row is None.
func (r *GormRecorder) LoadMeta(ctx context.Context) (optional.Option[types.StrategyMeta], error) {
	var row metaModel

	err := r.db.WithContext(ctx).Where("strategy_id = ?", r.strategyID).First(&row).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return optional.None[types.StrategyMeta](), nil
	}

	if err != nil {
		return optional.None[types.StrategyMeta](), errors.Wrapf(errors.ErrCodeRecorderFailed, err,
			"failed to load meta of strategy %s", r.strategyID)
	}

	return optional.Some(row.toMeta()), nil
}

// StoreMeta stages meta for the next Flush.
func (r *GormRecorder) StoreMeta(meta types.StrategyMeta) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	meta.StrategyID = r.strategyID
	r.meta = optional.Some(meta)

	return nil
}

// AppendTrade buffers a trade until Flush.
func (r *GormRecorder) AppendTrade(trade types.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.trades = append(r.trades, toTradeModel(r.strategyID, trade))

	return nil
}

// AppendPortfolio buffers a portfolio snapshot until Flush.
func (r *GormRecorder) AppendPortfolio(dt time.Time, portfolio types.Portfolio) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.portfolios = append(r.portfolios, portfolioModel{toPortfolioColumns(r.strategyID, dt, portfolio)})

	return nil
}

// AppendBenchmarkPortfolio buffers a benchmark snapshot until Flush.
func (r *GormRecorder) AppendBenchmarkPortfolio(dt time.Time, portfolio types.Portfolio) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.benchmarks = append(r.benchmarks, benchmarkModel{toPortfolioColumns(r.strategyID, dt, portfolio)})

	return nil
}

// Flush writes the staged meta, trades and portfolios in one transaction.
// Staged records are kept when the transaction fails.
func (r *GormRecorder) Flush(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.meta.IsSome() {
			if err := upsertMeta(tx, toMetaModel(r.meta.Unwrap())); err != nil {
				return err
			}
		}

		if len(r.trades) > 0 {
			if err := tx.CreateInBatches(&r.trades, insertBatchSize).Error; err != nil {
				return err
			}
		}

		if len(r.portfolios) > 0 {
			if err := tx.CreateInBatches(&r.portfolios, insertBatchSize).Error; err != nil {
				return err
			}
		}

		if len(r.benchmarks) > 0 {
			if err := tx.CreateInBatches(&r.benchmarks, insertBatchSize).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return errors.Wrapf(errors.ErrCodeRecorderFailed, err, "failed to flush results of strategy %s", r.strategyID)
	}

	r.logger.Info("Flushed strategy results",
		zap.String("strategy_id", r.strategyID),
		zap.Int("trades", len(r.trades)),
		zap.Int("portfolios", len(r.portfolios)),
		zap.Int("benchmarks", len(r.benchmarks)))

	r.meta = optional.None[types.StrategyMeta]()
	r.trades, r.portfolios, r.benchmarks = nil, nil, nil

	return nil
}

// upsertMeta updates the existing meta row or inserts a new one.
func upsertMeta(tx *gorm.DB, row metaModel) error {
	var count int64
	if err := tx.Model(&metaModel{}).Where("strategy_id = ?", row.StrategyID).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return tx.Create(&row).Error
	}

	return tx.Model(&metaModel{}).Where("strategy_id = ?", row.StrategyID).Updates(map[string]any{
		"origin_start_date": row.OriginStartDate,
		"start_date":        row.StartDate,
		"end_date":          row.EndDate,
		"last_run_time":     row.LastRunTime,
		"cash":              row.Cash,
	}).Error
}

// Close releases the database connection. Unflushed records are dropped.
func (r *GormRecorder) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return errors.Wrap(errors.ErrCodeRecorderFailed, "failed to get recorder connection", err)
	}

	return sqlDB.Close()
}
