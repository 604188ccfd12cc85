package types

import "time"

// Side is the direction of a fill.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Sign returns 1 for buys and -1 for sells, the encoding used by the trade table.
func (s Side) Sign() int {
	if s == SideBuy {
		return 1
	}

	return -1
}

// Trade is a finalized fill reported by the backtesting engine.
type Trade struct {
	ExecID          string    `json:"exec_id" yaml:"exec_id"`
	OrderID         string    `json:"order_id" yaml:"order_id"`
	OrderBookID     string    `json:"order_book_id" yaml:"order_book_id"`
	Datetime        time.Time `json:"datetime" yaml:"datetime"`
	LastPrice       float64   `json:"last_price" yaml:"last_price"`
	LastQuantity    float64   `json:"last_quantity" yaml:"last_quantity"`
	TransactionCost float64   `json:"transaction_cost" yaml:"transaction_cost"`
	Side            Side      `json:"side" yaml:"side"`
	PositionEffect  string    `json:"position_effect" yaml:"position_effect"`
}

// Portfolio is the account snapshot taken after daily settlement.
type Portfolio struct {
	PortfolioValue float64 `json:"portfolio_value" yaml:"portfolio_value"`
	MarketValue    float64 `json:"market_value" yaml:"market_value"`
	Cash           float64 `json:"cash" yaml:"cash"`
	DailyPnL       float64 `json:"daily_pnl" yaml:"daily_pnl"`
	DailyReturns   float64 `json:"daily_returns" yaml:"daily_returns"`
	TotalReturns   float64 `json:"total_returns" yaml:"total_returns"`
}

// StrategyMeta tracks how far a strategy has been run so that a later run
// can continue from where the previous one stopped.
type StrategyMeta struct {
	StrategyID      string  `json:"strategy_id" yaml:"strategy_id"`
	OriginStartDate string  `json:"origin_start_date" yaml:"origin_start_date"`
	StartDate       string  `json:"start_date" yaml:"start_date"`
	EndDate         string  `json:"end_date" yaml:"end_date"`
	LastRunTime     string  `json:"last_run_time" yaml:"last_run_time"`
	Cash            float64 `json:"cash" yaml:"cash"`
}

const (
	// MetaDateLayout formats the date fields of StrategyMeta.
	MetaDateLayout = "2006-01-02"
	// MetaTimeLayout formats StrategyMeta.LastRunTime.
	MetaTimeLayout = "2006-01-02 15:04:05"
)
