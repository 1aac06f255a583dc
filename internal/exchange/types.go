package exchange

import (
	"github.com/shopspring/decimal"
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

type OrderType string

const (
	OrderTypeLimit  OrderType = "limit"
	OrderTypeMarket OrderType = "market"
)

type OrderStatus string

const (
	OrderStatusOpen     OrderStatus = "open"
	OrderStatusFilled   OrderStatus = "filled"
	OrderStatusCanceled OrderStatus = "canceled"
)

type TimeInForce string

const (
	TimeInForceGTC TimeInForce = "gtc"
	TimeInForceIOC TimeInForce = "ioc"
)

// Market is the venue's reference data for one perpetual contract.
// TickSize and LotSize are kept as exact decimals; every price/amount
// quantization runs against them, never against float reconstructions.
type Market struct {
	Symbol          string // unified, e.g. "SUI/USDC:USDC"
	Base            string
	Quote           string
	Settle          string
	VendorSymbol    string // bare base symbol the venue uses, e.g. "SUI"
	TickSize        decimal.Decimal
	LotSize         decimal.Decimal
	PricePrecision  int
	AmountPrecision int
	MinOrderSize    float64
	MaxOrderSize    float64
}

type Ticker struct {
	Symbol     string
	Timestamp  int64 // ms
	Last       float64
	Bid        float64
	Ask        float64
	Mark       float64
	BaseVolume float64
}

type Balance struct {
	Currency string
	Free     float64
	Used     float64
	Total    float64
}

type Fee struct {
	Cost     float64
	Currency string
	Rate     float64
}

type Order struct {
	ID            string
	ClientOrderID string
	Symbol        string
	Side          Side
	Type          OrderType
	Price         float64
	Amount        float64
	Filled        float64
	Remaining     float64
	Status        OrderStatus
	Fee           *Fee
	Timestamp     int64 // ms
}

// TriggerPrice attaches a take-profit or stop-loss leg to an order.
type TriggerPrice struct {
	StopPrice  float64
	LimitPrice float64
}

type OrderRequest struct {
	Symbol     string
	Side       Side
	Type       OrderType
	Amount     float64
	Price      float64
	ReduceOnly bool
	TakeProfit *TriggerPrice
	StopLoss   *TriggerPrice
}

type Position struct {
	Symbol        string
	Side          Side
	Size          float64
	EntryPrice    float64
	MarkPrice     float64
	UnrealizedPnL float64
	Notional      float64
	Leverage      float64
	MarginMode    string
}

type Trade struct {
	ID        string
	Symbol    string
	Side      Side
	Price     float64
	Amount    float64
	Cost      float64
	Fee       float64
	Timestamp int64 // ms
}

type FundingRate struct {
	Symbol     string
	Rate       float64
	Annualized float64 // Rate * 24 * 365, hourly compounding assumption
	Timestamp  int64
	Interval   string
}

// OrderBook levels are [price, amount] pairs. The Pacifica connector has no
// depth endpoint and returns ErrNotSupported; the type exists so the unified
// surface stays uniform across venues.
type OrderBook struct {
	Symbol    string
	Timestamp int64
	Bids      [][2]float64
	Asks      [][2]float64
}

type Candle struct {
	Timestamp int64 // ms, open time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}
