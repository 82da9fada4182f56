package core

import (
	"time"

	"github.com/cockroachdb/apd/v3"

	"hitbtc/pkg/coin"
)

// CreateOrder is a typed order placement command. Pointer fields are
// optional and are sent only when set.
type CreateOrder struct {
	Symbol   coin.Symbol
	Side     OrderSide
	Quantity apd.Decimal

	// Type defaults to limit on the exchange when nil.
	Type *OrderType
	// TimeInForce defaults to GTC on the exchange when nil.
	TimeInForce *TimeInForce
	// Price is required for limit and stop-limit orders.
	Price *apd.Decimal
	// StopPrice is required for stop-limit and stop-market orders.
	StopPrice *apd.Decimal
	// ExpireTime is required for GTD orders.
	ExpireTime *time.Time

	ClientOrderID  string
	StrictValidate *bool
	PostOnly       *bool
}

// NewMarketOrder creates a market order command.
func NewMarketOrder(symbol coin.Symbol, side OrderSide, quantity apd.Decimal) *CreateOrder {
	t := TypeMarket
	return &CreateOrder{
		Symbol:   symbol,
		Side:     side,
		Quantity: quantity,
		Type:     &t,
	}
}

// NewLimitOrder creates a limit order command. The type field is left
// unset because limit is the exchange default.
func NewLimitOrder(symbol coin.Symbol, side OrderSide, quantity, price apd.Decimal) *CreateOrder {
	return &CreateOrder{
		Symbol:   symbol,
		Side:     side,
		Quantity: quantity,
		Price:    &price,
	}
}

// EffectiveType returns the order type the exchange will apply.
func (o *CreateOrder) EffectiveType() OrderType {
	if o.Type == nil {
		return TypeLimit
	}
	return *o.Type
}

// EffectiveTimeInForce returns the time in force the exchange will apply.
func (o *CreateOrder) EffectiveTimeInForce() TimeInForce {
	if o.TimeInForce == nil {
		return GoodTillCancelled
	}
	return *o.TimeInForce
}
