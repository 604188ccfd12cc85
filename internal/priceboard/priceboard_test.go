package priceboard

import (
	"math"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-daily/internal/clock"
	"github.com/rxtech-lab/argo-daily/internal/datasource"
	"github.com/rxtech-lab/argo-daily/internal/logger"
	"github.com/rxtech-lab/argo-daily/internal/types"
	"github.com/rxtech-lab/argo-daily/mocks"
	"github.com/rxtech-lab/argo-daily/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PriceBoardTestSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	loader *mocks.MockBarLoader
	clock  *clock.FixedClock
	board  *PriceBoard
}

func TestPriceBoardSuite(t *testing.T) {
	suite.Run(t, new(PriceBoardTestSuite))
}

func (suite *PriceBoardTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.loader = mocks.NewMockBarLoader(suite.ctrl)
	suite.clock = clock.NewFixedClock(time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC))

	stock := types.Instrument{OrderBookID: "600000.XSHG", Type: types.InstrumentTypeCommonStock}
	suite.loader.EXPECT().LoadBars(stock).Return([]types.Bar{
		{Datetime: types.DateKeyFromYYYYMMDD(20240102), Close: 10, LimitUp: 11, LimitDown: 9, AdjFactor: 1},
		{Datetime: types.DateKeyFromYYYYMMDD(20240103), Close: 10.5, LimitUp: 11, LimitDown: 9, AdjFactor: 1},
	}, nil).MaxTimes(1)

	nop := logger.NewNopLogger()
	ds := datasource.NewDataSource(datasource.NewSeriesCache(suite.loader, nop, nil), suite.clock, nop)
	suite.board = NewPriceBoard(ds, types.NewInstruments(stock), suite.clock, nop)
}

func (suite *PriceBoardTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *PriceBoardTestSuite) TestFollowsTheClock() {
	suite.Equal(10.0, suite.board.LastPrice("600000.XSHG"))
	suite.Equal(11.0, suite.board.LimitUp("600000.XSHG"))
	suite.Equal(9.0, suite.board.LimitDown("600000.XSHG"))

	suite.clock.Set(time.Date(2024, 1, 3, 15, 0, 0, 0, time.UTC))
	suite.Equal(10.5, suite.board.LastPrice("600000.XSHG"))
	suite.Equal(10.5, suite.board.AskPrice("600000.XSHG"))
	suite.Equal(10.5, suite.board.BidPrice("600000.XSHG"))
}

func (suite *PriceBoardTestSuite) TestMissingBarIsNaN() {
	suite.clock.Set(time.Date(2024, 1, 6, 15, 0, 0, 0, time.UTC))

	suite.True(math.IsNaN(suite.board.LastPrice("600000.XSHG")))
	suite.True(math.IsNaN(suite.board.LimitUp("600000.XSHG")))
	suite.True(math.IsNaN(suite.board.LimitDown("600000.XSHG")))
}

type failingSource struct{}

func (failingSource) GetBar(types.Instrument, time.Time, types.Frequency) (optional.Option[types.Bar], error) {
	return optional.None[types.Bar](), errors.New(errors.ErrCodeDataSourceUnavailable, "store closed")
}

func (suite *PriceBoardTestSuite) TestSourceErrorIsNaN() {
	board := NewPriceBoard(failingSource{}, types.NewInstruments(), suite.clock, logger.NewNopLogger())
	suite.True(math.IsNaN(board.LastPrice("000001.XSHE")))
}
