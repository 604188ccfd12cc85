package recorder

import (
	"time"

	"github.com/rxtech-lab/argo-daily/internal/types"
)

type tradeModel struct {
	StrategyID      string    `gorm:"column:strategy_id;primaryKey;size:50"`
	OrderID         string    `gorm:"column:order_id;primaryKey;size:20"`
	ExecID          string    `gorm:"column:exec_id;size:20"`
	OrderBookID     string    `gorm:"column:order_book_id;size:20"`
	Datetime        time.Time `gorm:"column:datetime"`
	LastPrice       float64   `gorm:"column:last_price"`
	LastQuantity    float64   `gorm:"column:last_quantity"`
	TransactionCost float64   `gorm:"column:transaction_cost"`
	Side            int       `gorm:"column:side"`
	PositionEffect  string    `gorm:"column:position_effect;size:30"`
}

func (tradeModel) TableName() string {
	return "strategy_trade"
}

type portfolioColumns struct {
	StrategyID     string    `gorm:"column:strategy_id;primaryKey;size:50"`
	Datetime       time.Time `gorm:"column:datetime;primaryKey"`
	PortfolioValue float64   `gorm:"column:portfolio_value"`
	MarketValue    float64   `gorm:"column:market_value"`
	Cash           float64   `gorm:"column:cash"`
	DailyPnL       float64   `gorm:"column:daily_pnl"`
	DailyReturns   float64   `gorm:"column:daily_returns"`
	TotalReturns   float64   `gorm:"column:total_returns"`
}

type portfolioModel struct {
	portfolioColumns `gorm:"embedded"`
}

func (portfolioModel) TableName() string {
	return "strategy_portfolio"
}

type benchmarkModel struct {
	portfolioColumns `gorm:"embedded"`
}

func (benchmarkModel) TableName() string {
	return "strategy_portfolio_bm"
}

type metaModel struct {
	StrategyID      string  `gorm:"column:strategy_id;primaryKey;size:50"`
	OriginStartDate string  `gorm:"column:origin_start_date;size:20"`
	StartDate       string  `gorm:"column:start_date;size:20"`
	EndDate         string  `gorm:"column:end_date;size:20"`
	LastRunTime     string  `gorm:"column:last_run_time;size:20"`
	Cash            float64 `gorm:"column:cash"`
}

func (metaModel) TableName() string {
	return "strategy_meta"
}

func toTradeModel(strategyID string, trade types.Trade) tradeModel {
	return tradeModel{
		StrategyID:      strategyID,
		OrderID:         trade.OrderID,
		ExecID:          trade.ExecID,
		OrderBookID:     trade.OrderBookID,
		Datetime:        trade.Datetime,
		LastPrice:       trade.LastPrice,
		LastQuantity:    trade.LastQuantity,
		TransactionCost: trade.TransactionCost,
		Side:            trade.Side.Sign(),
		PositionEffect:  trade.PositionEffect,
	}
}

func toPortfolioColumns(strategyID string, dt time.Time, p types.Portfolio) portfolioColumns {
	return portfolioColumns{
		StrategyID:     strategyID,
		Datetime:       dt,
		PortfolioValue: p.PortfolioValue,
		MarketValue:    p.MarketValue,
		Cash:           p.Cash,
		DailyPnL:       p.DailyPnL,
		DailyReturns:   p.DailyReturns,
		TotalReturns:   p.TotalReturns,
	}
}

func toMetaModel(meta types.StrategyMeta) metaModel {
	return metaModel{
		StrategyID:      meta.StrategyID,
		OriginStartDate: meta.OriginStartDate,
		StartDate:       meta.StartDate,
		EndDate:         meta.EndDate,
		LastRunTime:     meta.LastRunTime,
		Cash:            meta.Cash,
	}
}

func (m metaModel) toMeta() types.StrategyMeta {
	return types.StrategyMeta{
		StrategyID:      m.StrategyID,
		OriginStartDate: m.OriginStartDate,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		LastRunTime:     m.LastRunTime,
		Cash:            m.Cash,
	}
}
