package main

import (
	"math"
	"testing"
	"time"

	"github.com/moznion/go-optional"
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

type StylesTestSuite struct {
	suite.Suite
}

func TestStylesSuite(t *testing.T) {
	suite.Run(t, new(StylesTestSuite))
}

func (suite *StylesTestSuite) TestFormatValue() {
	suite.Equal("-", FormatValue(math.NaN()))
	suite.Equal("10.5000", FormatValue(10.5))
}

func (suite *StylesTestSuite) TestFormatPriceWithChange() {
	suite.Equal("11.0000 ▲", FormatPriceWithChange(11, 10))
	suite.Equal("9.0000 ▼", FormatPriceWithChange(9, 10))
	suite.Equal("10.0000", FormatPriceWithChange(10, 10))
	suite.Equal("10.0000", FormatPriceWithChange(10, 0))
}

func (suite *StylesTestSuite) TestRenderWindow() {
	loader := staticLoader{
		{Datetime: types.DateKeyFromYYYYMMDD(20240102), Close: 10, Volume: 100, AdjFactor: 1},
		{Datetime: types.DateKeyFromYYYYMMDD(20240103), Close: 21, Volume: 200, AdjFactor: 2},
	}
	nop := logger.NewNopLogger()
	ds := datasource.NewDataSource(datasource.NewSeriesCache(loader, nop, nil), clock.SystemClock{}, nop)

	window, err := ds.HistoryBars(datasource.HistoryRequest{
		Instrument:    types.Instrument{OrderBookID: "600000.XSHG", Type: types.InstrumentTypeCommonStock},
		Count:         2,
		Frequency:     types.FrequencyDaily,
		Fields:        datasource.FieldSet(types.FieldClose, types.FieldVolume),
		Date:          time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		SkipSuspended: optional.None[bool](),
		AdjustType:    optional.Some(datasource.AdjustPost),
	})
	suite.Require().NoError(err)

	out := RenderWindow(window)
	suite.Contains(out, "2024-01-03")
	suite.Contains(out, "42.0000 ▲")
	suite.Contains(out, "volume")
	suite.NotContains(out, "open")
}

func (suite *StylesTestSuite) TestRenderBar() {
	out := RenderBar(types.Instrument{OrderBookID: "000300.XSHG", Type: types.InstrumentTypeIndex},
		types.Bar{Datetime: types.DateKeyFromYYYYMMDD(20240102), Close: 3400})

	suite.Contains(out, "000300.XSHG")
	suite.Contains(out, "3400.0000")
	suite.NotContains(out, "adj_factor")
}
