package datasource

import (
	"sort"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-daily/internal/types"
)

// Series is the full ascending-by-date history of one instrument. A Series is
// never mutated after construction and may be shared between goroutines.
type Series struct {
	bars  []types.Bar
	dates []uint64
}

// NewSeries builds a Series from bars already sorted by strictly increasing date.
func NewSeries(bars []types.Bar) *Series {
	dates := make([]uint64, len(bars))
	for i, bar := range bars {
		dates[i] = bar.Datetime
	}

	return &Series{bars: bars, dates: dates}
}

// Len returns the number of bars.
func (s *Series) Len() int {
	return len(s.bars)
}

// IsEmpty reports whether the instrument has no data.
func (s *Series) IsEmpty() bool {
	return len(s.bars) == 0
}

// Dates returns the date axis. Callers must not modify it.
func (s *Series) Dates() []uint64 {
	return s.dates
}

// Filter returns a new Series holding the bars that satisfy keep, in order.
func (s *Series) Filter(keep func(types.Bar) bool) *Series {
	bars := make([]types.Bar, 0, len(s.bars))
	for _, bar := range s.bars {
		if keep(bar) {
			bars = append(bars, bar)
		}
	}

	return NewSeries(bars)
}

// BarAt returns the bar dated exactly date. There is no forward or backward
// fill: a date between two trading days is absent.
func (s *Series) BarAt(date uint64) optional.Option[types.Bar] {
	pos := sort.Search(len(s.dates), func(i int) bool {
		return s.dates[i] >= date
	})

	if pos >= len(s.dates) || s.dates[pos] != date {
		return optional.None[types.Bar]()
	}

	return optional.Some(s.bars[pos])
}

// BarsEndingAt returns up to count bars dated at or before date, oldest first.
// A bar dated exactly date is the last element. The result aliases the Series
// and must be treated as read-only.
func (s *Series) BarsEndingAt(date uint64, count int) []types.Bar {
	end := sort.Search(len(s.dates), func(i int) bool {
		return s.dates[i] > date
	})

	start := end - count
	if start < 0 {
		start = 0
	}

	if start > end {
		start = end
	}

	return s.bars[start:end:end]
}
