package hitbtc

import "hitbtc/pkg/core"

// hitbtcBalance is one currency row of /account/balance and /trading/balance.
type hitbtcBalance struct {
	Currency  string `json:"currency"`
	Available string `json:"available"`
	Reserved  string `json:"reserved"`
}

// hitbtcOrder represents the raw order response from HitBTC API.
type hitbtcOrder struct {
	ID            int64   `json:"id"`
	ClientOrderID string  `json:"clientOrderId"`
	Symbol        string  `json:"symbol"`
	Side          string  `json:"side"`
	Status        string  `json:"status"`
	Type          string  `json:"type"`
	TimeInForce   string  `json:"timeInForce"`
	Quantity      string  `json:"quantity"`
	Price         *string `json:"price"`
	StopPrice     *string `json:"stopPrice"`
	CumQuantity   string  `json:"cumQuantity"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
	PostOnly      bool    `json:"postOnly"`
	ExpireTime    *string `json:"expireTime"`
}

// hitbtcCreateOrder is the POST /order body. Optional fields are omitted
// when empty so the exchange applies its defaults. Enum fields marshal
// through their wire tables, so out-of-range values fail serialization.
type hitbtcCreateOrder struct {
	ClientOrderID  string            `json:"clientOrderId,omitempty"`
	Symbol         string            `json:"symbol"`
	Side           core.OrderSide    `json:"side"`
	Type           *core.OrderType   `json:"type,omitempty"`
	TimeInForce    *core.TimeInForce `json:"timeInForce,omitempty"`
	Quantity       string            `json:"quantity"`
	Price          string            `json:"price,omitempty"`
	StopPrice      string            `json:"stopPrice,omitempty"`
	ExpireTime     string            `json:"expireTime,omitempty"`
	StrictValidate *bool             `json:"strictValidate,omitempty"`
	PostOnly       *bool             `json:"postOnly,omitempty"`
}

// hitbtcSymbol represents a market from /public/symbol.
type hitbtcSymbol struct {
	ID                   string `json:"id"`
	BaseCurrency         string `json:"baseCurrency"`
	QuoteCurrency        string `json:"quoteCurrency"`
	QuantityIncrement    string `json:"quantityIncrement"`
	TickSize             string `json:"tickSize"`
	TakeLiquidityRate    string `json:"takeLiquidityRate"`
	ProvideLiquidityRate string `json:"provideLiquidityRate"`
	FeeCurrency          string `json:"feeCurrency"`
}

// hitbtcCurrency represents a currency from /public/currency.
type hitbtcCurrency struct {
	ID                  string  `json:"id"`
	FullName            string  `json:"fullName"`
	Crypto              bool    `json:"crypto"`
	PayinEnabled        bool    `json:"payinEnabled"`
	PayinPaymentID      bool    `json:"payinPaymentId"`
	PayinConfirmations  int     `json:"payinConfirmations"`
	PayoutEnabled       bool    `json:"payoutEnabled"`
	PayoutIsPaymentID   bool    `json:"payoutIsPaymentId"`
	TransferEnabled     bool    `json:"transferEnabled"`
	Delisted            bool    `json:"delisted"`
	PayoutFee           *string `json:"payoutFee"`
	PayoutMinimalAmount *string `json:"payoutMinimalAmount"`
	PrecisionPayout     int     `json:"precisionPayout"`
	PrecisionTransfer   int     `json:"precisionTransfer"`
}

// hitbtcTradingFee is the /trading/fee/{symbol} response.
type hitbtcTradingFee struct {
	TakeLiquidityRate    string `json:"takeLiquidityRate"`
	ProvideLiquidityRate string `json:"provideLiquidityRate"`
}

type hitbtcPriceLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// hitbtcOrderBook is one book of /public/orderbook, or the whole
// /public/orderbook/{symbol} response. The single-symbol form has no
// symbol field and adds the average prices when queried by volume.
type hitbtcOrderBook struct {
	Symbol          string             `json:"symbol"`
	Ask             []hitbtcPriceLevel `json:"ask"`
	Bid             []hitbtcPriceLevel `json:"bid"`
	Timestamp       string             `json:"timestamp"`
	AskAveragePrice *string            `json:"askAveragePrice"`
	BidAveragePrice *string            `json:"bidAveragePrice"`
}

// hitbtcError is the envelope of every non-2xx response.
type hitbtcError struct {
	Error *struct {
		Code        int    `json:"code"`
		Message     string `json:"message"`
		Description string `json:"description"`
	} `json:"error"`
}
