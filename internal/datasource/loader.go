package datasource

import (
	"github.com/rxtech-lab/argo-daily/internal/types"
)

// SQLResult represents a row of data from a SQL query
type SQLResult struct {
	Values map[string]interface{}
}

// BarLoader reads the complete daily history of an instrument from the
// backing store. Bars are returned ascending by date without duplicates. An
// instrument without rows yields an empty slice and a nil error.
type BarLoader interface {
	LoadBars(instrument types.Instrument) ([]types.Bar, error)
}

// SQLExecutor runs ad-hoc queries against the backing store.
type SQLExecutor interface {
	ExecuteSQL(query string, params ...interface{}) ([]SQLResult, error)
}
