package exchange

import (
	"context"

	"hitbtc/pkg/coin"
	"hitbtc/pkg/core"
)

// Exchange is the REST surface of a spot exchange account.
type Exchange interface {
	Name() string
	Version() string

	GetAccountBalance(ctx context.Context) ([]core.Balance, error)
	GetTradingBalance(ctx context.Context) ([]core.Balance, error)

	GetActiveOrders(ctx context.Context, opts ...Option) ([]core.Order, error)
	GetActiveOrder(ctx context.Context, clientOrderID string, opts ...Option) (*core.Order, error)
	CreateOrder(ctx context.Context, cmd *core.CreateOrder) (*core.Order, error)
	CancelOrders(ctx context.Context, opts ...Option) ([]core.Order, error)
	CancelOrder(ctx context.Context, clientOrderID string) (*core.Order, error)
	GetTradingFee(ctx context.Context, symbol coin.Symbol) (*core.TradingFee, error)

	GetSymbols(ctx context.Context) ([]core.SymbolInfo, error)
	GetCurrencies(ctx context.Context) ([]core.Currency, error)
	GetOrderBooks(ctx context.Context, opts ...Option) (core.OrderBooks, error)
	GetOrderBook(ctx context.Context, symbol coin.Symbol, opts ...Option) (*core.OrderBook, error)

	Close() error
}
