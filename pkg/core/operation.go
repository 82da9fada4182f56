package core

// Operation represents a REST call the client can make.
type Operation int

// Operation constants define all supported exchange operations.
const (
	// OpGetAccountBalance retrieves the main account balance.
	OpGetAccountBalance Operation = iota
	// OpGetTradingBalance retrieves the trading account balance.
	OpGetTradingBalance
	// OpGetActiveOrders retrieves all active orders, optionally for one symbol.
	OpGetActiveOrders
	// OpGetActiveOrder retrieves one active order by client order id.
	OpGetActiveOrder
	// OpCreateOrder submits a new order.
	OpCreateOrder
	// OpCancelOrders cancels all active orders, optionally for one symbol.
	OpCancelOrders
	// OpCancelOrder cancels one order by client order id.
	OpCancelOrder
	// OpGetTradingFee retrieves the fee rates for one symbol.
	OpGetTradingFee
	// OpGetSymbols retrieves all listed markets.
	OpGetSymbols
	// OpGetCurrencies retrieves all listed currencies.
	OpGetCurrencies
	// OpGetOrderBooks retrieves the books of several markets.
	OpGetOrderBooks
	// OpGetOrderBook retrieves the book of one market.
	OpGetOrderBook
)

var operationNames = [...]string{
	"GET_ACCOUNT_BALANCE",
	"GET_TRADING_BALANCE",
	"GET_ACTIVE_ORDERS",
	"GET_ACTIVE_ORDER",
	"CREATE_ORDER",
	"CANCEL_ORDERS",
	"CANCEL_ORDER",
	"GET_TRADING_FEE",
	"GET_SYMBOLS",
	"GET_CURRENCIES",
	"GET_ORDER_BOOKS",
	"GET_ORDER_BOOK",
}

// String returns the string representation of the operation.
func (o Operation) String() string {
	if o < 0 || int(o) >= len(operationNames) {
		return "UNKNOWN"
	}
	return operationNames[o]
}

// RequiresAuth reports whether the operation hits a private endpoint.
func (o Operation) RequiresAuth() bool {
	switch o {
	case OpGetSymbols, OpGetCurrencies, OpGetOrderBooks, OpGetOrderBook:
		return false
	default:
		return true
	}
}

// RequestState tracks one request through the pipeline.
type RequestState int

// Request states. Decoded, DecodeFailed and TransportFailed are terminal.
const (
	StateBuilt RequestState = iota
	StateSigned
	StateSent
	StateDecoded
	StateDecodeFailed
	StateTransportFailed
)

// String returns the string representation of the state.
func (s RequestState) String() string {
	names := [...]string{"BUILT", "SIGNED", "SENT", "DECODED", "DECODE_FAILED", "TRANSPORT_FAILED"}
	if s < 0 || int(s) >= len(names) {
		return "UNKNOWN"
	}
	return names[s]
}

// IsTerminal reports whether no further transition is possible.
func (s RequestState) IsTerminal() bool {
	return s == StateDecoded || s == StateDecodeFailed || s == StateTransportFailed
}
