package pacifica

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/shopspring/decimal"

	"pacifica-connector/internal/config"
	"pacifica-connector/internal/exchange"
)

const (
	defaultBaseURL = "https://api.pacifica.fi/api/v1"
	requestTimeout = 15 * time.Second
	expiryWindowMs = 30000
	maxBodyBytes   = 1 << 20

	takerFeeRate = 0.0002
	makerFeeRate = 0.0002

	// The venue reports no per-symbol setting for accounts that never changed
	// leverage; 10 matches what a fresh account trades at. Venue-default
	// assumption, not business logic.
	defaultLeverage = 10
)

// Client is the Pacifica connector. All operations are single-attempt,
// blocking HTTP calls; callers needing retries or rate limiting wrap the
// client themselves. The only mutable state is the read-mostly market table.
type Client struct {
	baseURL    string
	httpClient *http.Client

	account     string
	agentKey    ed25519.PrivateKey
	agentPubKey string

	mu      sync.RWMutex
	markets map[string]exchange.Market // unified symbol -> market
}

var _ exchange.Exchange = (*Client)(nil)

// NewClient validates credentials and builds a connector. No network I/O
// happens here; the market table loads lazily on first use.
func NewClient(cfg config.PacificaConfig) (*Client, error) {
	if cfg.WalletAddress == "" || cfg.AgentPrivateKey == "" {
		return nil, &exchange.AuthenticationError{
			Reason: "pacifica requires wallet_address and agent_private_key",
		}
	}
	key, err := parseAgentKey(cfg.AgentPrivateKey)
	if err != nil {
		return nil, &exchange.AuthenticationError{Reason: err.Error()}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: requestTimeout},
		account:     cfg.WalletAddress,
		agentKey:    key,
		agentPubKey: base58.Encode(key.Public().(ed25519.PublicKey)),
	}, nil
}

func (c *Client) Name() string {
	return "pacifica"
}

// get performs an unauthenticated GET and decodes the envelope's data field
// into out (the whole body when the venue sends no data field).
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &exchange.ExchangeError{
			Venue:  c.Name(),
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	if !envelope.ok() {
		return &exchange.ExchangeError{Venue: c.Name(), Body: envelope.Error}
	}
	data := envelope.Data
	if data == nil {
		data = body
	}
	return json.Unmarshal(data, out)
}

// signedPost canonicalizes the payload under a fresh signature header, signs
// it with the agent key and sends the authenticated envelope. The signature
// covers only header+payload; the account and agent_wallet fields are added
// afterwards, and payload fields are spread at the envelope's top level.
// Exactly one attempt per call.
func (c *Client) signedPost(ctx context.Context, endpoint string, payload map[string]any, opType string) (json.RawMessage, error) {
	header := map[string]any{
		"type":          opType,
		"timestamp":     time.Now().UnixMilli(),
		"expiry_window": expiryWindowMs,
	}
	message, err := prepareMessage(header, payload)
	if err != nil {
		return nil, err
	}

	envelope := map[string]any{
		"account":       c.account,
		"agent_wallet":  c.agentPubKey,
		"signature":     signMessage(message, c.agentKey),
		"timestamp":     header["timestamp"],
		"expiry_window": header["expiry_window"],
	}
	for k, v := range payload {
		envelope[k] = v
	}

	encoded, err := json.Marshal(envelope)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &exchange.ExchangeError{
			Venue:  c.Name(),
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	if !parsed.ok() {
		return nil, &exchange.ExchangeError{Venue: c.Name(), Body: parsed.Error}
	}
	if parsed.Data != nil {
		return parsed.Data, nil
	}
	return body, nil
}

// FetchMarkets lists the venue's perpetual contracts and refreshes the
// market table.
func (c *Client) FetchMarkets(ctx context.Context) ([]exchange.Market, error) {
	var infos []marketInfo
	if err := c.get(ctx, "/info", nil, &infos); err != nil {
		return nil, err
	}

	markets := make([]exchange.Market, 0, len(infos))
	for _, m := range infos {
		tick, err := decimal.NewFromString(m.TickSize)
		if err != nil {
			return nil, fmt.Errorf("market %s: parse tick_size %q: %w", m.Symbol, m.TickSize, err)
		}
		lot, err := decimal.NewFromString(m.LotSize)
		if err != nil {
			return nil, fmt.Errorf("market %s: parse lot_size %q: %w", m.Symbol, m.LotSize, err)
		}
		base, quote := splitVendorSymbol(m.Symbol)
		markets = append(markets, exchange.Market{
			Symbol:          unifiedSymbol(m.Symbol),
			Base:            base,
			Quote:           quote,
			Settle:          quote,
			VendorSymbol:    m.Symbol,
			TickSize:        tick,
			LotSize:         lot,
			PricePrecision:  decimalPlaces(tick),
			AmountPrecision: decimalPlaces(lot),
			MinOrderSize:    parseFloat(m.MinOrderSize),
			MaxOrderSize:    parseFloat(m.MaxOrderSize),
		})
	}

	table := make(map[string]exchange.Market, len(markets))
	for _, m := range markets {
		table[m.Symbol] = m
	}
	c.mu.Lock()
	c.markets = table
	c.mu.Unlock()

	return markets, nil
}

// market resolves a unified symbol against the market table, loading it on
// first use.
func (c *Client) market(ctx context.Context, symbol string) (*exchange.Market, error) {
	c.mu.RLock()
	m, ok := c.markets[symbol]
	c.mu.RUnlock()
	if ok {
		return &m, nil
	}
	if _, err := c.FetchMarkets(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	m, ok = c.markets[symbol]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("pacifica: unknown market %s", symbol)
	}
	return &m, nil
}

func (c *Client) FetchTickers(ctx context.Context) ([]exchange.Ticker, error) {
	var prices []priceInfo
	if err := c.get(ctx, "/info/prices", nil, &prices); err != nil {
		return nil, err
	}
	tickers := make([]exchange.Ticker, 0, len(prices))
	for _, p := range prices {
		tickers = append(tickers, tickerFromPrice(p, unifiedSymbol(p.Symbol)))
	}
	return tickers, nil
}

func (c *Client) FetchTicker(ctx context.Context, symbol string) (*exchange.Ticker, error) {
	var prices []priceInfo
	if err := c.get(ctx, "/info/prices", nil, &prices); err != nil {
		return nil, err
	}
	want := baseSymbol(symbol)
	for _, p := range prices {
		if p.Symbol == want {
			t := tickerFromPrice(p, symbol)
			return &t, nil
		}
	}
	return nil, fmt.Errorf("pacifica: no price published for %s", symbol)
}

// tickerFromPrice maps the venue's price record. The venue publishes mid and
// mark only, so mark stands in for both bid and ask.
func tickerFromPrice(p priceInfo, symbol string) exchange.Ticker {
	mark := parseFloat(p.Mark)
	return exchange.Ticker{
		Symbol:     symbol,
		Timestamp:  p.Timestamp,
		Last:       parseFloat(p.Mid),
		Bid:        mark,
		Ask:        mark,
		Mark:       mark,
		BaseVolume: parseFloat(p.Volume24h),
	}
}

func (c *Client) FetchBalance(ctx context.Context) (*exchange.Balance, error) {
	var acct accountInfo
	if err := c.get(ctx, "/account", url.Values{"account": {c.account}}, &acct); err != nil {
		return nil, err
	}
	return &exchange.Balance{
		Currency: settleCurrency,
		Free:     parseFloat(acct.AvailableToSpend),
		Used:     parseFloat(acct.TotalMarginUsed),
		Total:    parseFloat(acct.Balance),
	}, nil
}

// FetchOrders lists open orders, optionally filtered to one unified symbol
// (empty symbol means all).
func (c *Client) FetchOrders(ctx context.Context, symbol string) ([]exchange.Order, error) {
	var infos []orderInfo
	if err := c.get(ctx, "/orders", url.Values{"account": {c.account}}, &infos); err != nil {
		return nil, err
	}
	orders := make([]exchange.Order, 0, len(infos))
	for _, o := range infos {
		sym := unifiedSymbol(o.Symbol)
		if symbol != "" && sym != symbol {
			continue
		}
		amount := parseFloat(o.InitialAmount)
		filled := parseFloat(o.FilledAmount)
		orders = append(orders, exchange.Order{
			ID:            strconv.FormatInt(o.OrderID, 10),
			ClientOrderID: o.ClientOrderID,
			Symbol:        sym,
			Side:          unifiedSide(o.Side),
			Type:          exchange.OrderType(o.OrderType),
			Price:         parseFloat(o.Price),
			Amount:        amount,
			Filled:        filled,
			Remaining:     amount - filled,
			Status:        exchange.OrderStatusOpen,
			Timestamp:     o.CreatedAt,
		})
	}
	return orders, nil
}

// FetchOrder looks an order up by id. The venue has no single-order endpoint,
// so this lists open orders and scans — O(open-order-count) per lookup.
func (c *Client) FetchOrder(ctx context.Context, id string) (*exchange.Order, error) {
	orders, err := c.FetchOrders(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, &exchange.OrderNotFoundError{OrderID: id}
}

// CreateOrder quantizes the request to the market's tick and lot steps and
// submits it signed. A "market" order is emulated as an IOC limit priced 0.1%
// through the given reference price; the venue accepts only priced orders.
func (c *Client) CreateOrder(ctx context.Context, req *exchange.OrderRequest) (*exchange.Order, error) {
	m, err := c.market(ctx, req.Symbol)
	if err != nil {
		return nil, err
	}

	price := decimal.NewFromFloat(req.Price)
	amount := decimal.NewFromFloat(req.Amount)

	tif := exchange.TimeInForceGTC
	if req.Type == exchange.OrderTypeMarket {
		if req.Price <= 0 {
			return nil, &exchange.InvalidOrderError{
				Err: fmt.Errorf("market orders need a reference price to be priced through"),
			}
		}
		tif = exchange.TimeInForceIOC
		price = marketOrderPrice(price, req.Side)
	}
	price, amount = normalizeOrder(m, price, amount, req.Side)

	clientOrderID := uuid.NewString()
	payload := map[string]any{
		"symbol":          m.VendorSymbol,
		"side":            vendorSide(req.Side),
		"amount":          amount.String(),
		"price":           price.String(),
		"client_order_id": clientOrderID,
		"tif":             string(tif),
		"reduce_only":     req.ReduceOnly,
	}
	if req.TakeProfit != nil {
		payload["take_profit"] = triggerPayload(req.TakeProfit)
	}
	if req.StopLoss != nil {
		payload["stop_loss"] = triggerPayload(req.StopLoss)
	}

	data, err := c.signedPost(ctx, "/orders/create", payload, "create_order")
	if err != nil {
		return nil, &exchange.InvalidOrderError{Err: err}
	}
	var result createOrderResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode create order response: %w", err)
	}

	priceF, _ := price.Float64()
	amountF, _ := amount.Float64()
	status := exchange.OrderStatusOpen
	if result.Status != "" {
		status = exchange.OrderStatus(result.Status)
	}
	return &exchange.Order{
		ID:            strconv.FormatInt(result.OrderID, 10),
		ClientOrderID: clientOrderID,
		Symbol:        req.Symbol,
		Side:          req.Side,
		Type:          req.Type,
		Price:         priceF,
		Amount:        amountF,
		Remaining:     amountF,
		Status:        status,
		Fee: &exchange.Fee{
			Cost:     takerFeeRate * amountF * priceF,
			Currency: settleCurrency,
			Rate:     takerFeeRate,
		},
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// triggerPayload builds a take-profit or stop-loss leg. The limit price
// defaults to the stop price when not set separately.
func triggerPayload(t *exchange.TriggerPrice) map[string]any {
	stop := decimal.NewFromFloat(t.StopPrice)
	limit := stop
	if t.LimitPrice > 0 {
		limit = decimal.NewFromFloat(t.LimitPrice)
	}
	return map[string]any{
		"stop_price":      stop.String(),
		"limit_price":     limit.String(),
		"client_order_id": uuid.NewString(),
	}
}

// CancelOrder cancels one order. The venue rejects cancels for ids it does
// not know; any rejection surfaces as order-not-found, matching lookup
// semantics.
func (c *Client) CancelOrder(ctx context.Context, id, symbol string) error {
	orderID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || symbol == "" {
		return &exchange.OrderNotFoundError{OrderID: id}
	}
	payload := map[string]any{
		"order_id": orderID,
		"symbol":   baseSymbol(symbol),
	}
	if _, err := c.signedPost(ctx, "/cancel", payload, "cancel_order"); err != nil {
		return &exchange.OrderNotFoundError{OrderID: id}
	}
	return nil
}

// FetchPositions lists open positions. Unrealized PnL is always computed
// here as (mark - entry) * size rather than trusted from the venue; mark
// prices cost one extra request per position.
func (c *Client) FetchPositions(ctx context.Context) ([]exchange.Position, error) {
	var infos []positionInfo
	if err := c.get(ctx, "/positions", url.Values{"account": {c.account}}, &infos); err != nil {
		return nil, err
	}
	leverages, err := c.accountLeverages(ctx)
	if err != nil {
		return nil, err
	}

	positions := make([]exchange.Position, 0, len(infos))
	for _, p := range infos {
		symbol := unifiedSymbol(p.Symbol)
		ticker, err := c.FetchTicker(ctx, symbol)
		if err != nil {
			return nil, err
		}
		size := parseFloat(p.Amount)
		entry := parseFloat(p.EntryPrice)
		mark := ticker.Last
		leverage, ok := leverages[baseSymbol(symbol)]
		if !ok {
			leverage = defaultLeverage
		}
		positions = append(positions, exchange.Position{
			Symbol:        symbol,
			Side:          unifiedSide(p.Side),
			Size:          size,
			EntryPrice:    entry,
			MarkPrice:     mark,
			UnrealizedPnL: (mark - entry) * size,
			Notional:      size * mark,
			Leverage:      leverage,
			MarginMode:    "cross",
		})
	}
	return positions, nil
}

// FetchPosition returns the open position for one symbol, or nil when the
// account holds none.
func (c *Client) FetchPosition(ctx context.Context, symbol string) (*exchange.Position, error) {
	positions, err := c.FetchPositions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range positions {
		if positions[i].Symbol == symbol {
			return &positions[i], nil
		}
	}
	return nil, nil
}

func (c *Client) accountLeverages(ctx context.Context) (map[string]float64, error) {
	var settings []accountSetting
	if err := c.get(ctx, "/account/settings", url.Values{"account": {c.account}}, &settings); err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(settings))
	for _, s := range settings {
		out[s.Symbol] = parseFloat(s.Leverage)
	}
	return out, nil
}

func (c *Client) FetchLeverage(ctx context.Context, symbol string) (float64, error) {
	leverages, err := c.accountLeverages(ctx)
	if err != nil {
		return 0, err
	}
	if l, ok := leverages[baseSymbol(symbol)]; ok {
		return l, nil
	}
	return defaultLeverage, nil
}

func (c *Client) SetLeverage(ctx context.Context, symbol string, leverage int) error {
	payload := map[string]any{
		"symbol":   baseSymbol(symbol),
		"leverage": leverage,
	}
	_, err := c.signedPost(ctx, "/account/leverage", payload, "update_leverage")
	return err
}

// FetchMarginMode always reports cross; the venue supports nothing else.
func (c *Client) FetchMarginMode(ctx context.Context, symbol string) (string, error) {
	return "cross", nil
}

// SetMarginMode is a no-op: margin mode cannot be changed on this venue.
func (c *Client) SetMarginMode(ctx context.Context, symbol, marginMode string) error {
	return nil
}

// FetchMyTrades lists the account's fills, optionally scoped to one symbol.
func (c *Client) FetchMyTrades(ctx context.Context, symbol string) ([]exchange.Trade, error) {
	payload := map[string]any{}
	if symbol != "" {
		payload["symbol"] = marketName(symbol)
	}
	data, err := c.signedPost(ctx, "/trades", payload, "get_trades")
	if err != nil {
		return nil, err
	}
	var infos []tradeInfo
	if err := json.Unmarshal(data, &infos); err != nil {
		return nil, fmt.Errorf("decode trades response: %w", err)
	}

	trades := make([]exchange.Trade, 0, len(infos))
	for _, t := range infos {
		price := parseFloat(t.Price)
		size := parseFloat(t.Size)
		trades = append(trades, exchange.Trade{
			ID:        strconv.FormatInt(t.TradeID, 10),
			Symbol:    unifiedSymbol(t.Symbol),
			Side:      unifiedSide(t.Side),
			Price:     price,
			Amount:    size,
			Cost:      price * size,
			Fee:       parseFloat(t.Fee),
			Timestamp: int64(t.Timestamp * 1000),
		})
	}
	return trades, nil
}

// FetchTrades aliases FetchMyTrades: the venue publishes no public trade
// feed, only the account's own fills.
func (c *Client) FetchTrades(ctx context.Context, symbol string) ([]exchange.Trade, error) {
	return c.FetchMyTrades(ctx, symbol)
}

func (c *Client) FetchFundingRate(ctx context.Context, symbol string) (*exchange.FundingRate, error) {
	query := url.Values{"symbol": {baseSymbol(symbol)}, "limit": {"1"}}
	var history []fundingInfo
	if err := c.get(ctx, "/funding_rate/history", query, &history); err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("pacifica: no funding history for %s", symbol)
	}

	rate := parseFloat(history[0].FundingRate)
	ts := history[0].CreatedAt
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}
	return &exchange.FundingRate{
		Symbol:     symbol,
		Rate:       rate,
		Annualized: rate * 24 * 365,
		Timestamp:  ts,
		Interval:   "1h",
	}, nil
}

func (c *Client) FetchCandles(ctx context.Context, symbol, interval string, since int64) ([]exchange.Candle, error) {
	query := url.Values{
		"symbol":   {marketName(symbol)},
		"interval": {interval},
	}
	if since > 0 {
		query.Set("start_time", strconv.FormatInt(since, 10))
	}
	var klines []klineInfo
	if err := c.get(ctx, "/kline", query, &klines); err != nil {
		return nil, err
	}

	candles := make([]exchange.Candle, 0, len(klines))
	for _, k := range klines {
		candles = append(candles, exchange.Candle{
			Timestamp: k.T,
			Open:      parseFloat(k.O),
			High:      parseFloat(k.H),
			Low:       parseFloat(k.L),
			Close:     parseFloat(k.C),
			Volume:    parseFloat(k.V),
		})
	}
	return candles, nil
}

// FetchOrderBook is unsupported: the venue exposes no REST depth endpoint.
func (c *Client) FetchOrderBook(ctx context.Context, symbol string) (*exchange.OrderBook, error) {
	return nil, exchange.ErrNotSupported
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
