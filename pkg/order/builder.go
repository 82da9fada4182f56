// Package order provides a fluent builder for order commands and a
// manager that tracks orders placed through an exchange.
package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/apd/v3"

	"hitbtc/pkg/coin"
	"hitbtc/pkg/core"
)

// MaxClientOrderIDLen is the longest client order id the exchange accepts.
const MaxClientOrderIDLen = 32

var (
	ErrSideRequired       = errors.New("order side is required")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrPriceRequired      = errors.New("price is required for this order type")
	ErrPriceNotAllowed    = errors.New("price is not allowed for this order type")
	ErrStopPriceRequired  = errors.New("stop price is required for this order type")
	ErrExpireTimeRequired = errors.New("expire time is required for GTD orders")
	ErrInvalidClientID    = errors.New("invalid client order id")
)

// Builder provides a fluent interface for constructing order commands.
// The first parse error is kept and reported on Build.
//
// Example:
//
//	cmd, err := order.NewBuilder(coin.NewSymbol(coin.ETH, coin.BTC)).
//	    Sell().
//	    Limit().
//	    Price("0.046016").
//	    Quantity("0.063").
//	    Build()
type Builder struct {
	cmd     core.CreateOrder
	sideSet bool
	err     error
}

// NewBuilder creates a builder for symbol.
func NewBuilder(symbol coin.Symbol) *Builder {
	return &Builder{cmd: core.CreateOrder{Symbol: symbol}}
}

// Side sets the order side.
func (b *Builder) Side(side core.OrderSide) *Builder {
	b.cmd.Side = side
	b.sideSet = true
	return b
}

func (b *Builder) Buy() *Builder {
	return b.Side(core.SideBuy)
}

func (b *Builder) Sell() *Builder {
	return b.Side(core.SideSell)
}

// Type sets the order type explicitly. Without it the exchange applies limit.
func (b *Builder) Type(orderType core.OrderType) *Builder {
	b.cmd.Type = &orderType
	return b
}

func (b *Builder) Market() *Builder {
	return b.Type(core.TypeMarket)
}

func (b *Builder) Limit() *Builder {
	return b.Type(core.TypeLimit)
}

func (b *Builder) StopLimit() *Builder {
	return b.Type(core.TypeStopLimit)
}

func (b *Builder) StopMarket() *Builder {
	return b.Type(core.TypeStopMarket)
}

// Price sets the limit price from its string representation.
func (b *Builder) Price(price string) *Builder {
	if d, ok := b.parse("price", price); ok {
		b.cmd.Price = d
	}
	return b
}

// PriceDecimal sets the limit price.
func (b *Builder) PriceDecimal(price apd.Decimal) *Builder {
	b.cmd.Price = &price
	return b
}

// StopPrice sets the trigger price of stop orders.
func (b *Builder) StopPrice(price string) *Builder {
	if d, ok := b.parse("stop price", price); ok {
		b.cmd.StopPrice = d
	}
	return b
}

// Quantity sets the order quantity from its string representation.
func (b *Builder) Quantity(qty string) *Builder {
	if d, ok := b.parse("quantity", qty); ok {
		b.cmd.Quantity = *d
	}
	return b
}

// QuantityDecimal sets the order quantity.
func (b *Builder) QuantityDecimal(qty apd.Decimal) *Builder {
	b.cmd.Quantity = qty
	return b
}

// TimeInForce sets the time-in-force policy.
func (b *Builder) TimeInForce(tif core.TimeInForce) *Builder {
	b.cmd.TimeInForce = &tif
	return b
}

func (b *Builder) GTC() *Builder {
	return b.TimeInForce(core.GoodTillCancelled)
}

func (b *Builder) IOC() *Builder {
	return b.TimeInForce(core.ImmediateOrCancel)
}

func (b *Builder) FOK() *Builder {
	return b.TimeInForce(core.FillOrKill)
}

func (b *Builder) Day() *Builder {
	return b.TimeInForce(core.Day)
}

// GoodTill sets GTD with the given expire time.
func (b *Builder) GoodTill(expire time.Time) *Builder {
	b.cmd.ExpireTime = &expire
	return b.TimeInForce(core.GoodTillDate)
}

// ClientOrderID sets a client-assigned identifier.
func (b *Builder) ClientOrderID(id string) *Builder {
	b.cmd.ClientOrderID = id
	return b
}

// StrictValidate asks the exchange to reject price and quantity that are
// not multiples of the market increments instead of rounding them.
func (b *Builder) StrictValidate(strict bool) *Builder {
	b.cmd.StrictValidate = &strict
	return b
}

// PostOnly makes the order maker-only.
func (b *Builder) PostOnly(postOnly bool) *Builder {
	b.cmd.PostOnly = &postOnly
	return b
}

// Build validates and returns the command. Each call returns a new copy.
func (b *Builder) Build() (*core.CreateOrder, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	cmd := b.cmd
	return &cmd, nil
}

func (b *Builder) parse(field, s string) (*apd.Decimal, bool) {
	if b.err != nil {
		return nil, false
	}
	d, _, err := apd.NewFromString(s)
	if err != nil {
		b.err = fmt.Errorf("parse %s: %w", field, err)
		return nil, false
	}
	return d, true
}

func (b *Builder) validate() error {
	cmd := &b.cmd
	if !b.sideSet {
		return ErrSideRequired
	}
	if cmd.Quantity.Sign() <= 0 {
		return ErrInvalidQuantity
	}

	orderType := cmd.EffectiveType()
	if orderType.RequiresPrice() {
		if cmd.Price == nil || cmd.Price.Sign() <= 0 {
			return fmt.Errorf("%w: %s", ErrPriceRequired, orderType)
		}
	} else if cmd.Price != nil {
		return fmt.Errorf("%w: %s", ErrPriceNotAllowed, orderType)
	}
	if orderType.RequiresStopPrice() && (cmd.StopPrice == nil || cmd.StopPrice.Sign() <= 0) {
		return fmt.Errorf("%w: %s", ErrStopPriceRequired, orderType)
	}

	if cmd.EffectiveTimeInForce() == core.GoodTillDate && cmd.ExpireTime == nil {
		return ErrExpireTimeRequired
	}
	if len(cmd.ClientOrderID) > MaxClientOrderIDLen {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidClientID, MaxClientOrderIDLen)
	}
	return nil
}
