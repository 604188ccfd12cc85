package types

import "time"

// Frequency is the bar frequency requested by the engine.
type Frequency string

const (
	FrequencyDaily  Frequency = "1d"
	FrequencyMinute Frequency = "1m"
	FrequencyTick   Frequency = "tick"
)

// dateKeyScale leaves room for an HHMMSS suffix should intraday keys ever be needed.
const dateKeyScale = 1_000_000

// DateKey encodes the calendar date of t as YYYYMMDD * 1_000_000. The time of
// day is ignored.
func DateKey(t time.Time) uint64 {
	y, m, d := t.Date()

	return (uint64(y)*10000 + uint64(m)*100 + uint64(d)) * dateKeyScale
}

// DateKeyFromYYYYMMDD scales an integer trade date such as 20200103.
func DateKeyFromYYYYMMDD(yyyymmdd int64) uint64 {
	return uint64(yyyymmdd) * dateKeyScale
}

// DateFromKey decodes a DateKey back to midnight UTC of that day.
func DateFromKey(key uint64) time.Time {
	day := key / dateKeyScale

	return time.Date(int(day/10000), time.Month(day/100%100), int(day%100), 0, 0, 0, 0, time.UTC)
}
