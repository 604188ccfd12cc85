package types

import "time"

// Tick is a single trade print. Daily data sources do not provide ticks; the
// type exists so that the tick operations have a concrete signature.
type Tick struct {
	OrderBookID string    `json:"order_book_id"`
	Datetime    time.Time `json:"datetime"`
	Last        float64   `json:"last"`
	Volume      float64   `json:"volume"`
}
