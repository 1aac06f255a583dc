package pacifica

import (
	"strings"

	"github.com/shopspring/decimal"

	"pacifica-connector/internal/exchange"
)

const settleCurrency = "USDC"

var (
	marketBuyAdjust  = decimal.RequireFromString("1.001")
	marketSellAdjust = decimal.RequireFromString("0.999")
)

// splitVendorSymbol splits a vendor market name into base and quote. The venue
// usually sends the bare base symbol ("SUI"); some endpoints use "SUI-USDC".
func splitVendorSymbol(market string) (base, quote string) {
	if i := strings.IndexByte(market, '-'); i >= 0 {
		return market[:i], market[i+1:]
	}
	return market, settleCurrency
}

// unifiedSymbol maps a vendor market name to the unified BASE/QUOTE:SETTLE form.
func unifiedSymbol(market string) string {
	base, quote := splitVendorSymbol(market)
	return base + "/" + quote + ":" + quote
}

// baseSymbol maps a unified symbol to the bare base symbol the venue wants on
// most endpoints: "SUI/USDC:USDC" -> "SUI".
func baseSymbol(symbol string) string {
	if i := strings.IndexByte(symbol, '/'); i >= 0 {
		return symbol[:i]
	}
	return symbol
}

// marketName maps a unified symbol to the BASE-QUOTE form used by the kline
// and trade endpoints: "SUI/USDC:USDC" -> "SUI-USDC".
func marketName(symbol string) string {
	s := strings.ReplaceAll(symbol, "/", "-")
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	return s
}

func vendorSide(side exchange.Side) string {
	if side == exchange.SideBuy {
		return "bid"
	}
	return "ask"
}

func unifiedSide(side string) exchange.Side {
	if side == "bid" {
		return exchange.SideBuy
	}
	return exchange.SideSell
}

// normalizeOrder quantizes price to the market's tick size and amount to its
// lot size. Price rounds toward the market (ceiling for sells, floor for
// buys) so a resting limit order never crosses more aggressively than
// requested; amount is always floored, an order size is never rounded up.
func normalizeOrder(m *exchange.Market, price, amount decimal.Decimal, side exchange.Side) (decimal.Decimal, decimal.Decimal) {
	return roundToStep(price, m.TickSize, side == exchange.SideSell),
		roundToStep(amount, m.LotSize, false)
}

func roundToStep(value, step decimal.Decimal, ceil bool) decimal.Decimal {
	steps := value.Div(step)
	if ceil {
		steps = steps.Ceil()
	} else {
		steps = steps.Floor()
	}
	return steps.Mul(step)
}

// marketOrderPrice prices the IOC limit that emulates a market order: 0.1%
// through the touch in the order's favor, guaranteeing a fill while bounding
// slippage. The order can miss if the market moves more than 0.1% before it
// lands; that trade-off is deliberate.
func marketOrderPrice(reference decimal.Decimal, side exchange.Side) decimal.Decimal {
	if side == exchange.SideBuy {
		return reference.Mul(marketBuyAdjust)
	}
	return reference.Mul(marketSellAdjust)
}

// decimalPlaces derives display precision from a step size: "0.01" -> 2.
func decimalPlaces(step decimal.Decimal) int {
	if e := step.Exponent(); e < 0 {
		return int(-e)
	}
	return 0
}
