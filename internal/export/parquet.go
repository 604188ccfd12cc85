// Package export writes history windows to files for offline analysis.
package export

import (
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/rxtech-lab/argo-daily/internal/datasource"
	"github.com/rxtech-lab/argo-daily/internal/types"
	"github.com/rxtech-lab/argo-daily/pkg/errors"
)

// WindowRow is one exported bar. Columns outside the window's projection are null.
type WindowRow struct {
	Datetime      int64    `parquet:"datetime"`
	Date          string   `parquet:"date"`
	Open          *float64 `parquet:"open,optional"`
	Close         *float64 `parquet:"close,optional"`
	High          *float64 `parquet:"high,optional"`
	Low           *float64 `parquet:"low,optional"`
	LimitUp       *float64 `parquet:"limit_up,optional"`
	LimitDown     *float64 `parquet:"limit_down,optional"`
	Volume        *float64 `parquet:"volume,optional"`
	TotalTurnover *float64 `parquet:"total_turnover,optional"`
	AdjFactor     *float64 `parquet:"adj_factor,optional"`
	AccNetValue   *float64 `parquet:"acc_net_value,optional"`
	UnitNetValue  *float64 `parquet:"unit_net_value,optional"`
}

func (r *WindowRow) column(f types.Field) **float64 {
	switch f {
	case types.FieldOpen:
		return &r.Open
	case types.FieldClose:
		return &r.Close
	case types.FieldHigh:
		return &r.High
	case types.FieldLow:
		return &r.Low
	case types.FieldLimitUp:
		return &r.LimitUp
	case types.FieldLimitDown:
		return &r.LimitDown
	case types.FieldVolume:
		return &r.Volume
	case types.FieldTotalTurnover:
		return &r.TotalTurnover
	case types.FieldAdjFactor:
		return &r.AdjFactor
	case types.FieldAccNetValue:
		return &r.AccNetValue
	case types.FieldUnitNetValue:
		return &r.UnitNetValue
	case types.FieldDatetime:
	}

	return nil
}

// WindowRows converts a window into rows, oldest first.
func WindowRows(window datasource.Window) []WindowRow {
	fields := window.Fields()
	bars := window.Bars()
	rows := make([]WindowRow, len(bars))

	for i, bar := range bars {
		row := WindowRow{
			Datetime: int64(bar.Datetime),
			Date:     types.DateFromKey(bar.Datetime).Format(types.MetaDateLayout),
		}

		for _, f := range fields {
			col := row.column(f)
			if col == nil {
				continue
			}

			v, _ := bar.Value(f)
			*col = &v
		}

		rows[i] = row
	}

	return rows
}

// WriteWindowParquet writes window to path, creating parent directories.
func WriteWindowParquet(path string, window datasource.Window) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to create export directory", err)
	}

	if err := parquet.WriteFile(path, WindowRows(window)); err != nil {
		return errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to write %s", path)
	}

	return nil
}
