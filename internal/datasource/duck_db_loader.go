package datasource

import (
	"cmp"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-daily/internal/logger"
	"github.com/rxtech-lab/argo-daily/internal/types"
	"github.com/rxtech-lab/argo-daily/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Backing tables, one per instrument category. Rows follow the tushare daily
// layout: ts_code, trade_date, open, high, low, close, pre_close, vol, amount
// and, where the category is adjustable, adj_factor.
const (
	TableDaily       = "daily"
	TableIndexDaily  = "index_daily"
	TableFutureDaily = "future_daily"
	TableFundDaily   = "fund_daily"
)

var (
	limitUpRatio   = decimal.RequireFromString("1.1")
	limitDownRatio = decimal.RequireFromString("0.9")
)

// TableFor returns the backing table that holds bars of the given category.
func TableFor(t types.InstrumentType) string {
	switch t {
	case types.InstrumentTypeIndex:
		return TableIndexDaily
	case types.InstrumentTypeFuture:
		return TableFutureDaily
	case types.InstrumentTypeFund:
		return TableFundDaily
	case types.InstrumentTypeCommonStock:
		return TableDaily
	}

	return TableDaily
}

func isKnownTable(table string) bool {
	switch table {
	case TableDaily, TableIndexDaily, TableFutureDaily, TableFundDaily:
		return true
	}

	return false
}

// DuckDBBarLoader loads daily bars from DuckDB tables or parquet-backed views.
type DuckDBBarLoader struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBBarLoader opens the DuckDB database at path. Use ":memory:" together
// with AttachParquet to serve bars straight from parquet files.
func NewDuckDBBarLoader(path string, logger *logger.Logger) (*DuckDBBarLoader, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to open duckdb at %s", path)
	}

	return &DuckDBBarLoader{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// AttachParquet exposes a parquet file as one of the backing tables.
func (d *DuckDBBarLoader) AttachParquet(table string, path string) error {
	if !isKnownTable(table) {
		return errors.Newf(errors.ErrCodeInvalidParameter, "unknown bar table: %s", table)
	}

	d.logger.Debug("Attaching parquet file", zap.String("table", table), zap.String("path", path))

	_, err := d.db.Exec(fmt.Sprintf(`DROP VIEW IF EXISTS %s;`, table))
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to drop existing view", err)
	}

	// Squirrel doesn't support CREATE VIEW
	query := fmt.Sprintf(`
		CREATE VIEW %s AS
		SELECT * FROM read_parquet('%s');
	`, table, strings.ReplaceAll(path, "'", "''"))

	_, err = d.db.Exec(query)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to attach %s", path)
	}

	return nil
}

// dailyRow is one backing-store row before conversion. Every column is
// nullable; rows with a NULL in any selected column are dropped.
type dailyRow struct {
	tradeDate    sql.NullInt64
	open         sql.NullFloat64
	high         sql.NullFloat64
	low          sql.NullFloat64
	close        sql.NullFloat64
	preClose     sql.NullFloat64
	vol          sql.NullFloat64
	amount       sql.NullFloat64
	adjFactor    sql.NullFloat64
	accNetValue  sql.NullFloat64
	unitNetValue sql.NullFloat64
}

func selectColumns(t types.InstrumentType) []string {
	columns := []string{
		"CAST(trade_date AS BIGINT) AS trade_date",
		"open", "high", "low", "close", "pre_close", "vol", "amount",
	}

	switch t {
	case types.InstrumentTypeCommonStock:
		columns = append(columns, "adj_factor")
	case types.InstrumentTypeFund:
		columns = append(columns, "adj_factor", "acc_net_value", "unit_net_value")
	case types.InstrumentTypeIndex, types.InstrumentTypeFuture:
	}

	return columns
}

func (r *dailyRow) scanTargets(t types.InstrumentType) []interface{} {
	targets := []interface{}{
		&r.tradeDate, &r.open, &r.high, &r.low, &r.close, &r.preClose, &r.vol, &r.amount,
	}

	switch t {
	case types.InstrumentTypeCommonStock:
		targets = append(targets, &r.adjFactor)
	case types.InstrumentTypeFund:
		targets = append(targets, &r.adjFactor, &r.accNetValue, &r.unitNetValue)
	case types.InstrumentTypeIndex, types.InstrumentTypeFuture:
	}

	return targets
}

func (r *dailyRow) valid(t types.InstrumentType) bool {
	if !r.tradeDate.Valid || !r.open.Valid || !r.high.Valid || !r.low.Valid || !r.close.Valid ||
		!r.preClose.Valid || !r.vol.Valid || !r.amount.Valid {
		return false
	}

	switch t {
	case types.InstrumentTypeCommonStock:
		return r.adjFactor.Valid
	case types.InstrumentTypeFund:
		return r.adjFactor.Valid && r.accNetValue.Valid && r.unitNetValue.Valid
	case types.InstrumentTypeIndex, types.InstrumentTypeFuture:
	}

	return true
}

// toBar converts a raw row. Limits are derived from the previous close.
func (r *dailyRow) toBar() types.Bar {
	preClose := decimal.NewFromFloat(r.preClose.Float64)

	return types.Bar{
		Datetime:      types.DateKeyFromYYYYMMDD(r.tradeDate.Int64),
		Open:          r.open.Float64,
		Close:         r.close.Float64,
		High:          r.high.Float64,
		Low:           r.low.Float64,
		LimitUp:       preClose.Mul(limitUpRatio).InexactFloat64(),
		LimitDown:     preClose.Mul(limitDownRatio).InexactFloat64(),
		Volume:        r.vol.Float64,
		TotalTurnover: r.amount.Float64,
		AdjFactor:     r.adjFactor.Float64,
		AccNetValue:   r.accNetValue.Float64,
		UnitNetValue:  r.unitNetValue.Float64,
	}
}

// LoadBars implements BarLoader.
func (d *DuckDBBarLoader) LoadBars(instrument types.Instrument) ([]types.Bar, error) {
	table := TableFor(instrument.Type)

	query, args, err := d.sq.
		Select(selectColumns(instrument.Type)...).
		From(table).
		Where(squirrel.Eq{"ts_code": instrument.OrderBookID}).
		OrderBy("trade_date ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	start := time.Now()

	stmt, err := d.db.Prepare(query)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to prepare query on %s", table)
	}
	defer stmt.Close()

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to query %s for %s", table, instrument.OrderBookID)
	}
	defer rows.Close()

	result := make([]types.Bar, 0, 256)
	dropped := 0

	for rows.Next() {
		var row dailyRow

		if err := rows.Scan(row.scanTargets(instrument.Type)...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
		}

		if !row.valid(instrument.Type) {
			dropped++

			continue
		}

		result = append(result, row.toBar())
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	result = sortAndDedupe(result)

	d.logger.Debug("Loaded daily bars",
		zap.String("order_book_id", instrument.OrderBookID),
		zap.String("table", table),
		zap.Int("rows", len(result)),
		zap.Int("dropped", dropped),
		zap.Duration("duration", time.Since(start)))

	return result, nil
}

// sortAndDedupe orders bars by date and keeps the first bar of each date.
func sortAndDedupe(bars []types.Bar) []types.Bar {
	slices.SortStableFunc(bars, func(a, b types.Bar) int {
		return cmp.Compare(a.Datetime, b.Datetime)
	})

	return slices.CompactFunc(bars, func(a, b types.Bar) bool {
		return a.Datetime == b.Datetime
	})
}

// ExecuteSQL implements SQLExecutor.
func (d *DuckDBBarLoader) ExecuteSQL(query string, params ...interface{}) ([]SQLResult, error) {
	d.logger.Debug("Executing SQL query", zap.String("query", query))

	stmt, err := d.db.Prepare(query)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to prepare query", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(params...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to execute query", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to get columns", err)
	}

	result := make([]SQLResult, 0, 64)

	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))

		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan row", err)
		}

		rowMap := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			rowMap[col] = values[i]
		}

		result = append(result, SQLResult{Values: rowMap})
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating rows", err)
	}

	return result, nil
}

// Close implements io.Closer.
func (d *DuckDBBarLoader) Close() error {
	if d.db != nil {
		return d.db.Close()
	}

	return nil
}
