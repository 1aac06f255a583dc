package exchange

import "context"

// Exchange defines the common interface for all exchanges
type Exchange interface {
	Name() string

	// Market Data
	FetchMarkets(ctx context.Context) ([]Market, error)
	FetchTicker(ctx context.Context, symbol string) (*Ticker, error)
	FetchTickers(ctx context.Context) ([]Ticker, error)
	FetchFundingRate(ctx context.Context, symbol string) (*FundingRate, error)
	FetchCandles(ctx context.Context, symbol, interval string, since int64) ([]Candle, error)
	FetchOrderBook(ctx context.Context, symbol string) (*OrderBook, error)

	// Account
	FetchBalance(ctx context.Context) (*Balance, error)
	FetchPositions(ctx context.Context) ([]Position, error)
	FetchPosition(ctx context.Context, symbol string) (*Position, error)
	FetchMyTrades(ctx context.Context, symbol string) ([]Trade, error)
	FetchLeverage(ctx context.Context, symbol string) (float64, error)
	SetLeverage(ctx context.Context, symbol string, leverage int) error
	FetchMarginMode(ctx context.Context, symbol string) (string, error)
	SetMarginMode(ctx context.Context, symbol, marginMode string) error

	// Trading
	CreateOrder(ctx context.Context, req *OrderRequest) (*Order, error)
	CancelOrder(ctx context.Context, id, symbol string) error
	FetchOrders(ctx context.Context, symbol string) ([]Order, error)
	FetchOrder(ctx context.Context, id string) (*Order, error)
}
