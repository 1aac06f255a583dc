package pacifica

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"pacifica-connector/internal/exchange"
)

func testMarket(tick, lot string) *exchange.Market {
	t := decimal.RequireFromString(tick)
	l := decimal.RequireFromString(lot)
	return &exchange.Market{
		Symbol:          "SUI/USDC:USDC",
		Base:            "SUI",
		Quote:           "USDC",
		Settle:          "USDC",
		VendorSymbol:    "SUI",
		TickSize:        t,
		LotSize:         l,
		PricePrecision:  decimalPlaces(t),
		AmountPrecision: decimalPlaces(l),
	}
}

func TestNormalizeOrderPriceRoundsTowardMarket(t *testing.T) {
	m := testMarket("0.01", "0.1")
	raw := decimal.RequireFromString("10.004")
	amount := decimal.RequireFromString("1")

	sellPrice, _ := normalizeOrder(m, raw, amount, exchange.SideSell)
	assert.True(t, sellPrice.Equal(decimal.RequireFromString("10.01")),
		"sell price must round up, got %s", sellPrice)

	buyPrice, _ := normalizeOrder(m, raw, amount, exchange.SideBuy)
	assert.True(t, buyPrice.Equal(decimal.RequireFromString("10.00")),
		"buy price must round down, got %s", buyPrice)
}

func TestNormalizeOrderAmountAlwaysFloors(t *testing.T) {
	m := testMarket("0.01", "0.1")
	price := decimal.RequireFromString("10")
	raw := decimal.RequireFromString("1.27")

	for _, side := range []exchange.Side{exchange.SideBuy, exchange.SideSell} {
		_, amount := normalizeOrder(m, price, raw, side)
		assert.True(t, amount.Equal(decimal.RequireFromString("1.2")),
			"amount must floor for side %s, got %s", side, amount)
	}
}

func TestNormalizeOrderExactOnStep(t *testing.T) {
	m := testMarket("0.01", "0.1")
	price, amount := normalizeOrder(m,
		decimal.RequireFromString("10.01"),
		decimal.RequireFromString("1.3"),
		exchange.SideBuy)
	assert.True(t, price.Equal(decimal.RequireFromString("10.01")))
	assert.True(t, amount.Equal(decimal.RequireFromString("1.3")))
}

func TestMarketOrderPrice(t *testing.T) {
	ref := decimal.RequireFromString("100")

	buy := marketOrderPrice(ref, exchange.SideBuy)
	assert.True(t, buy.Equal(decimal.RequireFromString("100.1")), "got %s", buy)

	sell := marketOrderPrice(ref, exchange.SideSell)
	assert.True(t, sell.Equal(decimal.RequireFromString("99.9")), "got %s", sell)
}

func TestSymbolMappingRoundTrip(t *testing.T) {
	assert.Equal(t, "SUI/USDC:USDC", unifiedSymbol("SUI"))
	assert.Equal(t, "SUI", baseSymbol("SUI/USDC:USDC"))
	assert.Equal(t, "SUI/USDC:USDC", unifiedSymbol(baseSymbol("SUI/USDC:USDC")))

	// BASE-QUOTE vendor form
	assert.Equal(t, "BTC/USDC:USDC", unifiedSymbol("BTC-USDC"))
	assert.Equal(t, "SUI-USDC", marketName("SUI/USDC:USDC"))

	// already-bare input passes through
	assert.Equal(t, "SUI", baseSymbol("SUI"))
}

func TestSideMappingRoundTrip(t *testing.T) {
	assert.Equal(t, "bid", vendorSide(exchange.SideBuy))
	assert.Equal(t, "ask", vendorSide(exchange.SideSell))
	assert.Equal(t, exchange.SideBuy, unifiedSide("bid"))
	assert.Equal(t, exchange.SideSell, unifiedSide("ask"))

	assert.Equal(t, exchange.SideBuy, unifiedSide(vendorSide(exchange.SideBuy)))
	assert.Equal(t, exchange.SideSell, unifiedSide(vendorSide(exchange.SideSell)))
}

func TestDecimalPlaces(t *testing.T) {
	assert.Equal(t, 2, decimalPlaces(decimal.RequireFromString("0.01")))
	assert.Equal(t, 3, decimalPlaces(decimal.RequireFromString("0.001")))
	assert.Equal(t, 0, decimalPlaces(decimal.RequireFromString("1")))
	assert.Equal(t, 0, decimalPlaces(decimal.RequireFromString("10")))
}
