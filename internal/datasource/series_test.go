package datasource

import (
	"testing"

	"github.com/rxtech-lab/argo-daily/internal/types"
	"github.com/stretchr/testify/suite"
)

type SeriesTestSuite struct {
	suite.Suite
	series *Series
}

func TestSeriesSuite(t *testing.T) {
	suite.Run(t, new(SeriesTestSuite))
}

func key(yyyymmdd int64) uint64 {
	return types.DateKeyFromYYYYMMDD(yyyymmdd)
}

func (suite *SeriesTestSuite) SetupTest() {
	suite.series = NewSeries([]types.Bar{
		{Datetime: key(20240102), Close: 10},
		{Datetime: key(20240103), Close: 11},
		{Datetime: key(20240105), Close: 12},
		{Datetime: key(20240108), Close: 13},
	})
}

func (suite *SeriesTestSuite) TestBarAt() {
	tests := []struct {
		name    string
		date    uint64
		want    float64
		present bool
	}{
		{name: "first bar", date: key(20240102), want: 10, present: true},
		{name: "last bar", date: key(20240108), want: 13, present: true},
		{name: "gap between trading days", date: key(20240104), present: false},
		{name: "before history", date: key(20231231), present: false},
		{name: "after history", date: key(20240109), present: false},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			bar := suite.series.BarAt(tc.date)
			suite.Equal(tc.present, bar.IsSome())

			if tc.present {
				suite.Equal(tc.want, bar.Unwrap().Close)
				suite.Equal(tc.date, bar.Unwrap().Datetime)
			}
		})
	}
}

func (suite *SeriesTestSuite) TestBarsEndingAt() {
	tests := []struct {
		name  string
		date  uint64
		count int
		want  []float64
	}{
		{name: "inclusive of exact date", date: key(20240105), count: 2, want: []float64{11, 12}},
		{name: "date inside a gap", date: key(20240104), count: 5, want: []float64{10, 11}},
		{name: "count larger than history", date: key(20240108), count: 10, want: []float64{10, 11, 12, 13}},
		{name: "zero count", date: key(20240108), count: 0, want: []float64{}},
		{name: "before any bar", date: key(20231201), count: 3, want: []float64{}},
		{name: "after the last bar", date: key(20250101), count: 1, want: []float64{13}},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			bars := suite.series.BarsEndingAt(tc.date, tc.count)
			closes := make([]float64, len(bars))

			for i, bar := range bars {
				closes[i] = bar.Close
				suite.LessOrEqual(bar.Datetime, tc.date)
			}

			suite.Equal(tc.want, closes)
		})
	}
}

func (suite *SeriesTestSuite) TestBarsEndingAtCannotGrowIntoSeries() {
	bars := suite.series.BarsEndingAt(key(20240103), 1)
	suite.Equal(1, cap(bars))

	bars = append(bars, types.Bar{Datetime: key(20990101), Close: -1})
	suite.Len(bars, 2)
	suite.Equal(12.0, suite.series.BarAt(key(20240105)).Unwrap().Close)
}

func (suite *SeriesTestSuite) TestEmptySeries() {
	empty := NewSeries(nil)
	suite.True(empty.IsEmpty())
	suite.True(empty.BarAt(key(20240102)).IsNone())
	suite.Empty(empty.BarsEndingAt(key(20240102), 5))
}

func (suite *SeriesTestSuite) TestFilter() {
	filtered := suite.series.Filter(func(bar types.Bar) bool {
		return bar.Close != 11
	})

	suite.Equal(3, filtered.Len())
	suite.Equal(4, suite.series.Len())
	suite.True(filtered.BarAt(key(20240103)).IsNone())
	suite.Equal([]uint64{key(20240102), key(20240105), key(20240108)}, filtered.Dates())
}
