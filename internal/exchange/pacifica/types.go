package pacifica

import (
	json "github.com/goccy/go-json"
)

// apiResponse is the venue's response envelope. A missing success flag counts
// as success; error text only accompanies success=false.
type apiResponse struct {
	Success *bool           `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (r *apiResponse) ok() bool {
	return r.Success == nil || *r.Success
}

type marketInfo struct {
	Symbol       string `json:"symbol"`
	TickSize     string `json:"tick_size"`
	LotSize      string `json:"lot_size"`
	MinOrderSize string `json:"min_order_size"`
	MaxOrderSize string `json:"max_order_size"`
}

type priceInfo struct {
	Symbol    string `json:"symbol"`
	Mid       string `json:"mid"`
	Mark      string `json:"mark"`
	Volume24h string `json:"volume_24h"`
	Timestamp int64  `json:"timestamp"`
}

type orderInfo struct {
	OrderID       int64  `json:"order_id"`
	ClientOrderID string `json:"client_order_id"`
	Symbol        string `json:"symbol"`
	Side          string `json:"side"`
	OrderType     string `json:"order_type"`
	Price         string `json:"price"`
	InitialAmount string `json:"initial_amount"`
	FilledAmount  string `json:"filled_amount"`
	CreatedAt     int64  `json:"created_at"`
}

type createOrderResult struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

type positionInfo struct {
	Symbol     string `json:"symbol"`
	Side       string `json:"side"`
	Amount     string `json:"amount"`
	EntryPrice string `json:"entry_price"`
}

type accountInfo struct {
	Balance          string `json:"balance"`
	AvailableToSpend string `json:"available_to_spend"`
	TotalMarginUsed  string `json:"total_margin_used"`
}

type accountSetting struct {
	Symbol   string `json:"symbol"`
	Leverage string `json:"leverage"`
}

type tradeInfo struct {
	TradeID   int64   `json:"trade_id"`
	Symbol    string  `json:"symbol"`
	Side      string  `json:"side"`
	Price     string  `json:"price"`
	Size      string  `json:"size"`
	Fee       string  `json:"fee"`
	Timestamp float64 `json:"timestamp"` // seconds
}

type fundingInfo struct {
	FundingRate string `json:"funding_rate"`
	CreatedAt   int64  `json:"created_at"`
}

type klineInfo struct {
	T int64  `json:"t"`
	O string `json:"o"`
	H string `json:"h"`
	L string `json:"l"`
	C string `json:"c"`
	V string `json:"v"`
}
