package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ClockTestSuite struct {
	suite.Suite
}

func TestClockSuite(t *testing.T) {
	suite.Run(t, new(ClockTestSuite))
}

func (suite *ClockTestSuite) TestFixedClock() {
	start := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	c := NewFixedClock(start)
	suite.Equal(start, c.Now())

	next := start.AddDate(0, 0, 1)
	c.Set(next)
	suite.Equal(next, c.Now())
}

func (suite *ClockTestSuite) TestSystemClock() {
	before := time.Now()
	now := SystemClock{}.Now()
	suite.False(now.Before(before))
}
