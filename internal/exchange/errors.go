package exchange

import (
	"errors"
	"fmt"
)

// ErrNotSupported marks operations the venue has no endpoint for,
// such as order book snapshots.
var ErrNotSupported = errors.New("operation not supported by exchange")

// AuthenticationError is returned at construction when credentials are
// missing or malformed. It is fatal: no client is handed back.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return "authentication: " + e.Reason
}

// ExchangeError covers any non-2xx HTTP status or an application-level
// failure flag from the venue. Body carries the raw error text so callers
// can classify; no retryable/permanent distinction is made.
type ExchangeError struct {
	Venue  string
	Status int
	Body   string
}

func (e *ExchangeError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Venue, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: %s", e.Venue, e.Body)
}

// InvalidOrderError wraps the exchange error behind a rejected
// order-creation request.
type InvalidOrderError struct {
	Err error
}

func (e *InvalidOrderError) Error() string {
	return "invalid order: " + e.Err.Error()
}

func (e *InvalidOrderError) Unwrap() error {
	return e.Err
}

// OrderNotFoundError is returned when an order lookup or cancel references
// an id the venue does not know.
type OrderNotFoundError struct {
	OrderID string
}

func (e *OrderNotFoundError) Error() string {
	return "order not found: " + e.OrderID
}

func IsOrderNotFound(err error) bool {
	var nf *OrderNotFoundError
	return errors.As(err, &nf)
}
