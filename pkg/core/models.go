package core

import (
	"time"

	"github.com/cockroachdb/apd/v3"

	"hitbtc/pkg/coin"
)

// Balance represents the balance of a single currency.
type Balance struct {
	// Currency is the asset this balance is held in.
	Currency coin.Coin `json:"currency"`
	// Available is the amount free for trading or withdrawal.
	Available apd.Decimal `json:"available"`
	// Reserved is the amount locked in open orders or pending operations.
	Reserved apd.Decimal `json:"reserved"`
}

// Order represents an exchange order as reported by the API.
type Order struct {
	// ID is the exchange-assigned order identifier.
	ID int64 `json:"id"`
	// ClientOrderID is the client-assigned identifier used for lookups and cancels.
	ClientOrderID string `json:"client_order_id"`
	// Symbol is the exchange's resolved market identifier, e.g. "BTCUSDT".
	Symbol string      `json:"symbol"`
	Side   OrderSide   `json:"side"`
	Type   OrderType   `json:"type"`
	Status OrderStatus `json:"status"`
	// TimeInForce defines how long the order remains active.
	TimeInForce TimeInForce `json:"time_in_force"`
	Quantity    apd.Decimal `json:"quantity"`
	// Price is nil for market orders.
	Price *apd.Decimal `json:"price,omitempty"`
	// StopPrice is set for stop orders only.
	StopPrice *apd.Decimal `json:"stop_price,omitempty"`
	// CumQuantity is the executed quantity.
	CumQuantity apd.Decimal `json:"cum_quantity"`
	PostOnly    bool        `json:"post_only"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	// ExpireTime is set for GTD orders only.
	ExpireTime *time.Time `json:"expire_time,omitempty"`
}

// SymbolInfo describes a market listed by the exchange.
type SymbolInfo struct {
	// ID is the wire identifier of the market; it is the only reliable key.
	ID                   string      `json:"id"`
	BaseCurrency         coin.Coin   `json:"base_currency"`
	QuoteCurrency        coin.Coin   `json:"quote_currency"`
	QuantityIncrement    apd.Decimal `json:"quantity_increment"`
	TickSize             apd.Decimal `json:"tick_size"`
	TakeLiquidityRate    apd.Decimal `json:"take_liquidity_rate"`
	ProvideLiquidityRate apd.Decimal `json:"provide_liquidity_rate"`
	FeeCurrency          coin.Coin   `json:"fee_currency"`
}

// Symbol returns the typed pair for this market.
func (s *SymbolInfo) Symbol() coin.Symbol {
	return coin.NewSymbol(s.BaseCurrency, s.QuoteCurrency)
}

// Currency describes a currency listed by the exchange.
type Currency struct {
	ID                  coin.Coin    `json:"id"`
	FullName            string       `json:"full_name"`
	Crypto              bool         `json:"crypto"`
	PayinEnabled        bool         `json:"payin_enabled"`
	PayinPaymentID      bool         `json:"payin_payment_id"`
	PayinConfirmations  int          `json:"payin_confirmations"`
	PayoutEnabled       bool         `json:"payout_enabled"`
	PayoutIsPaymentID   bool         `json:"payout_is_payment_id"`
	TransferEnabled     bool         `json:"transfer_enabled"`
	Delisted            bool         `json:"delisted"`
	PayoutFee           *apd.Decimal `json:"payout_fee,omitempty"`
	PayoutMinimalAmount *apd.Decimal `json:"payout_minimal_amount,omitempty"`
	PrecisionPayout     int          `json:"precision_payout"`
	PrecisionTransfer   int          `json:"precision_transfer"`
}

// TradingFee holds the maker/taker rates for one market.
type TradingFee struct {
	TakeLiquidityRate    apd.Decimal `json:"take_liquidity_rate"`
	ProvideLiquidityRate apd.Decimal `json:"provide_liquidity_rate"`
}

// OrderBookLevel represents a single price level in the order book.
type OrderBookLevel struct {
	// Price is the limit price for this level.
	Price apd.Decimal `json:"price"`
	// Size is the total quantity available at this price.
	Size apd.Decimal `json:"size"`
}

// OrderBook represents the order book of one market.
type OrderBook struct {
	// Symbol is the resolved market identifier.
	Symbol string `json:"symbol"`
	// Asks are sell orders sorted by price ascending.
	Asks []OrderBookLevel `json:"asks"`
	// Bids are buy orders sorted by price descending.
	Bids      []OrderBookLevel `json:"bids"`
	Timestamp time.Time        `json:"timestamp"`
	// AskAveragePrice and BidAveragePrice are only reported for volume queries.
	AskAveragePrice *apd.Decimal `json:"ask_average_price,omitempty"`
	BidAveragePrice *apd.Decimal `json:"bid_average_price,omitempty"`
}

// Levels returns the bids for SideBuy and the asks for SideSell.
func (ob *OrderBook) Levels(side OrderSide) []OrderBookLevel {
	if side == SideBuy {
		return ob.Bids
	}
	return ob.Asks
}

// OrderBooks maps resolved market identifiers to their books.
type OrderBooks map[string]*OrderBook

// Page returns the price levels for one market and side.
// The boolean is false when the market is not in the response.
func (obs OrderBooks) Page(symbolID string, side OrderSide) ([]OrderBookLevel, bool) {
	ob, ok := obs[symbolID]
	if !ok {
		return nil, false
	}
	return ob.Levels(side), true
}
