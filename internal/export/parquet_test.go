package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/parquet-go/parquet-go"
	"github.com/rxtech-lab/argo-daily/internal/clock"
	"github.com/rxtech-lab/argo-daily/internal/datasource"
	"github.com/rxtech-lab/argo-daily/internal/logger"
	"github.com/rxtech-lab/argo-daily/internal/types"
	"github.com/stretchr/testify/suite"
)

type staticLoader []types.Bar

func (l staticLoader) LoadBars(types.Instrument) ([]types.Bar, error) {
	return l, nil
}

type ExportTestSuite struct {
	suite.Suite
	ds    *datasource.DataSource
	stock types.Instrument
}

func TestExportSuite(t *testing.T) {
	suite.Run(t, new(ExportTestSuite))
}

func (suite *ExportTestSuite) SetupTest() {
	loader := staticLoader{
		{Datetime: types.DateKeyFromYYYYMMDD(20240102), Open: 9, Close: 10, Volume: 100, AdjFactor: 1},
		{Datetime: types.DateKeyFromYYYYMMDD(20240103), Open: 10, Close: 21, Volume: 200, AdjFactor: 2},
	}

	nop := logger.NewNopLogger()
	suite.ds = datasource.NewDataSource(datasource.NewSeriesCache(loader, nop, nil), clock.SystemClock{}, nop)
	suite.stock = types.Instrument{OrderBookID: "600000.XSHG", Type: types.InstrumentTypeCommonStock}
}

func (suite *ExportTestSuite) window(fields datasource.FieldSelector) datasource.Window {
	window, err := suite.ds.HistoryBars(datasource.HistoryRequest{
		Instrument:    suite.stock,
		Count:         2,
		Frequency:     types.FrequencyDaily,
		Fields:        fields,
		Date:          time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		SkipSuspended: optional.None[bool](),
		AdjustType:    optional.Some(datasource.AdjustPost),
	})
	suite.Require().NoError(err)

	return window
}

func (suite *ExportTestSuite) TestWindowRowsLeaveUnselectedColumnsNull() {
	rows := WindowRows(suite.window(datasource.FieldSet(types.FieldClose, types.FieldVolume)))
	suite.Require().Len(rows, 2)

	suite.Equal("2024-01-03", rows[1].Date)
	suite.Equal(int64(20240103000000), rows[1].Datetime)
	suite.Require().NotNil(rows[1].Close)
	suite.Equal(42.0, *rows[1].Close)
	suite.Equal(200.0, *rows[1].Volume)
	suite.Nil(rows[1].Open)
	suite.Nil(rows[1].AdjFactor)
}

func (suite *ExportTestSuite) TestWriteWindowParquet() {
	path := filepath.Join(suite.T().TempDir(), "out", "600000.parquet")

	suite.Require().NoError(WriteWindowParquet(path, suite.window(datasource.AllFields())))

	rows, err := parquet.ReadFile[WindowRow](path)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 2)
	suite.Equal("2024-01-02", rows[0].Date)
	suite.Equal(10.0, *rows[0].Close)
	suite.Equal(2.0, *rows[1].AdjFactor)
	suite.Nil(rows[1].AccNetValue)
}
