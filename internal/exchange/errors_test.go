package exchange

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidOrderErrorUnwrapsExchangeError(t *testing.T) {
	inner := &ExchangeError{Venue: "pacifica", Body: "bad size"}
	err := error(&InvalidOrderError{Err: inner})

	var exErr *ExchangeError
	require.True(t, errors.As(err, &exErr))
	assert.Equal(t, "bad size", exErr.Body)
	assert.Contains(t, err.Error(), "bad size")
}

func TestExchangeErrorMessageCarriesStatus(t *testing.T) {
	err := &ExchangeError{Venue: "pacifica", Status: 500, Body: "boom"}
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "boom")
}

func TestIsOrderNotFound(t *testing.T) {
	err := fmt.Errorf("lookup: %w", &OrderNotFoundError{OrderID: "42"})
	assert.True(t, IsOrderNotFound(err))
	assert.False(t, IsOrderNotFound(errors.New("other")))
}
