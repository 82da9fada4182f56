package exchange

import (
	"time"

	"github.com/cockroachdb/apd/v3"

	"hitbtc/pkg/coin"
)

type Option func(*Options)

// Options carries the optional query parameters of a call. Nil fields are
// not sent.
type Options struct {
	Limit   *int
	Volume  *apd.Decimal
	Wait    time.Duration
	Symbol  *coin.Symbol
	Symbols []coin.Symbol
}

// WithLimit caps the number of order book levels. Zero requests the full book.
func WithLimit(limit int) Option {
	return func(o *Options) {
		o.Limit = &limit
	}
}

// WithVolume asks for the levels needed to fill volume. It takes
// precedence over WithLimit for a single order book.
func WithVolume(volume apd.Decimal) Option {
	return func(o *Options) {
		o.Volume = &volume
	}
}

// WithWait makes an order lookup long-poll until the order changes or the
// wait elapses. It is sent in milliseconds.
func WithWait(wait time.Duration) Option {
	return func(o *Options) {
		o.Wait = wait
	}
}

// WithSymbol filters by one market.
func WithSymbol(symbol coin.Symbol) Option {
	return func(o *Options) {
		o.Symbol = &symbol
	}
}

// WithSymbols selects several markets, in the given order.
func WithSymbols(symbols ...coin.Symbol) Option {
	return func(o *Options) {
		o.Symbols = append(o.Symbols, symbols...)
	}
}

func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
