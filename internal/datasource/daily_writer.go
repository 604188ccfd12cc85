package datasource

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-daily/internal/logger"
	"github.com/rxtech-lab/argo-daily/pkg/errors"
	"go.uber.org/zap"
)

// DailyRow is one row of a backing table in the tushare daily layout. The
// adjustment and net value columns are null for categories that lack them.
type DailyRow struct {
	TsCode       string   `parquet:"ts_code"`
	TradeDate    string   `parquet:"trade_date"`
	Open         float64  `parquet:"open"`
	High         float64  `parquet:"high"`
	Low          float64  `parquet:"low"`
	Close        float64  `parquet:"close"`
	PreClose     float64  `parquet:"pre_close"`
	Vol          float64  `parquet:"vol"`
	Amount       float64  `parquet:"amount"`
	AdjFactor    *float64 `parquet:"adj_factor,optional"`
	AccNetValue  *float64 `parquet:"acc_net_value,optional"`
	UnitNetValue *float64 `parquet:"unit_net_value,optional"`
}

// DailyWriter appends rows to a backing table of a DuckDB database inside a
// single transaction.
type DailyWriter struct {
	db     *sql.DB
	tx     *sql.Tx
	stmt   *sql.Stmt
	path   string
	table  string
	count  int
	logger *logger.Logger
}

// NewDailyWriter creates a DailyWriter for table in the database at path.
func NewDailyWriter(path string, table string, logger *logger.Logger) *DailyWriter {
	return &DailyWriter{
		path:   path,
		table:  table,
		logger: logger,
	}
}

// Initialize opens the database, creates the table and begins the transaction.
func (w *DailyWriter) Initialize() (err error) {
	if !isKnownTable(w.table) {
		return errors.Newf(errors.ErrCodeInvalidParameter, "unknown bar table: %s", w.table)
	}

	w.db, err = sql.Open("duckdb", w.path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to open duckdb at %s", w.path)
	}

	// Squirrel doesn't support CREATE TABLE
	_, err = w.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			ts_code TEXT,
			trade_date TEXT,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			pre_close DOUBLE,
			vol DOUBLE,
			amount DOUBLE,
			adj_factor DOUBLE,
			acc_net_value DOUBLE,
			unit_net_value DOUBLE
		)
	`, w.table))
	if err != nil {
		w.db.Close()

		return errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to create table %s", w.table)
	}

	w.tx, err = w.db.Begin()
	if err != nil {
		w.db.Close()

		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to begin transaction", err)
	}

	w.stmt, err = w.tx.Prepare(fmt.Sprintf(`
		INSERT INTO %s (ts_code, trade_date, open, high, low, close, pre_close, vol, amount,
			adj_factor, acc_net_value, unit_net_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, w.table))
	if err != nil {
		w.tx.Rollback()
		w.db.Close()

		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to prepare statement", err)
	}

	return nil
}

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}

	return sql.NullFloat64{Float64: *v, Valid: true}
}

// Write stages one row.
func (w *DailyWriter) Write(row DailyRow) error {
	if w.stmt == nil {
		return errors.New(errors.ErrCodeQueryFailed, "writer not initialized")
	}

	_, err := w.stmt.Exec(
		row.TsCode, row.TradeDate,
		row.Open, row.High, row.Low, row.Close, row.PreClose, row.Vol, row.Amount,
		nullable(row.AdjFactor), nullable(row.AccNetValue), nullable(row.UnitNetValue),
	)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to insert %s %s", row.TsCode, row.TradeDate)
	}

	w.count++

	return nil
}

// Finalize commits the staged rows and returns how many were written.
func (w *DailyWriter) Finalize() (int, error) {
	if w.tx == nil {
		return 0, errors.New(errors.ErrCodeQueryFailed, "writer not initialized")
	}

	if err := w.stmt.Close(); err != nil {
		w.logger.Warn("Failed to close insert statement", zap.Error(err))
	}

	w.stmt = nil

	if err := w.tx.Commit(); err != nil {
		w.tx.Rollback()
		w.tx = nil

		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to commit transaction", err)
	}

	w.tx = nil

	w.logger.Info("Imported daily rows", zap.String("table", w.table), zap.Int("rows", w.count))

	return w.count, nil
}

// Close rolls back anything not finalized and closes the database.
func (w *DailyWriter) Close() error {
	var closeErrors []error

	if w.stmt != nil {
		if err := w.stmt.Close(); err != nil {
			closeErrors = append(closeErrors, err)
		}

		w.stmt = nil
	}

	if w.tx != nil {
		if err := w.tx.Rollback(); err != nil {
			closeErrors = append(closeErrors, err)
		}

		w.tx = nil
	}

	if w.db != nil {
		if err := w.db.Close(); err != nil {
			closeErrors = append(closeErrors, err)
		}

		w.db = nil
	}

	if len(closeErrors) > 0 {
		return errors.Wrapf(errors.ErrCodeQueryFailed, closeErrors[0], "errors during close: %v", closeErrors)
	}

	return nil
}
