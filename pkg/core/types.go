package core

import (
	"fmt"
	"strconv"
)

// OrderSide represents the direction of an order (buy or sell).
type OrderSide int

// Order side constants define the direction of a trade.
const (
	// SideBuy indicates an order to purchase an asset.
	SideBuy OrderSide = iota
	// SideSell indicates an order to sell an asset.
	SideSell
)

var sideWire = [...]string{"buy", "sell"}

// String returns the wire representation of the order side.
func (s OrderSide) String() string {
	return wireName(sideWire[:], int(s))
}

// ParseOrderSide resolves a wire string such as "sell".
func ParseOrderSide(s string) (OrderSide, error) {
	i, err := parseWire(sideWire[:], s, "order side")
	return OrderSide(i), err
}

// MarshalJSON implements json.Marshaler for OrderSide.
func (s OrderSide) MarshalJSON() ([]byte, error) {
	return marshalWire(sideWire[:], int(s), "order side")
}

// UnmarshalJSON implements json.Unmarshaler for OrderSide.
func (s *OrderSide) UnmarshalJSON(data []byte) error {
	i, err := unmarshalWire(sideWire[:], data, "order side")
	if err != nil {
		return err
	}
	*s = OrderSide(i)
	return nil
}

// OrderType represents the type of order to place on the exchange.
type OrderType int

// Order type constants define how an order is executed.
const (
	// TypeLimit executes at a specified price or better.
	TypeLimit OrderType = iota
	// TypeMarket executes immediately at the best available price.
	TypeMarket
	// TypeStopLimit places a limit order once the stop price is reached.
	TypeStopLimit
	// TypeStopMarket places a market order once the stop price is reached.
	TypeStopMarket
)

var orderTypeWire = [...]string{"limit", "market", "stopLimit", "stopMarket"}

// String returns the wire representation of the order type.
func (t OrderType) String() string {
	return wireName(orderTypeWire[:], int(t))
}

// RequiresPrice reports whether orders of this type carry a limit price.
func (t OrderType) RequiresPrice() bool {
	return t == TypeLimit || t == TypeStopLimit
}

// RequiresStopPrice reports whether orders of this type carry a stop price.
func (t OrderType) RequiresStopPrice() bool {
	return t == TypeStopLimit || t == TypeStopMarket
}

// ParseOrderType resolves a wire string such as "stopLimit".
func ParseOrderType(s string) (OrderType, error) {
	i, err := parseWire(orderTypeWire[:], s, "order type")
	return OrderType(i), err
}

// MarshalJSON implements json.Marshaler for OrderType.
func (t OrderType) MarshalJSON() ([]byte, error) {
	return marshalWire(orderTypeWire[:], int(t), "order type")
}

// UnmarshalJSON implements json.Unmarshaler for OrderType.
func (t *OrderType) UnmarshalJSON(data []byte) error {
	i, err := unmarshalWire(orderTypeWire[:], data, "order type")
	if err != nil {
		return err
	}
	*t = OrderType(i)
	return nil
}

// TimeInForce defines how long an order remains active.
type TimeInForce int

// Time in force constants define order lifetime behavior.
const (
	// GoodTillCancelled keeps the order active until filled or canceled.
	GoodTillCancelled TimeInForce = iota
	// ImmediateOrCancel requires immediate execution; the unfilled portion is canceled.
	ImmediateOrCancel
	// FillOrKill requires complete immediate execution or cancellation.
	FillOrKill
	// Day keeps the order active until the end of the trading day.
	Day
	// GoodTillDate keeps the order active until its expire time.
	GoodTillDate
)

var timeInForceWire = [...]string{"GTC", "IOC", "FOK", "Day", "GTD"}

// String returns the wire representation of time in force.
func (t TimeInForce) String() string {
	return wireName(timeInForceWire[:], int(t))
}

// ParseTimeInForce resolves a wire string such as "GTD".
func ParseTimeInForce(s string) (TimeInForce, error) {
	i, err := parseWire(timeInForceWire[:], s, "time in force")
	return TimeInForce(i), err
}

// MarshalJSON implements json.Marshaler for TimeInForce.
func (t TimeInForce) MarshalJSON() ([]byte, error) {
	return marshalWire(timeInForceWire[:], int(t), "time in force")
}

// UnmarshalJSON implements json.Unmarshaler for TimeInForce.
func (t *TimeInForce) UnmarshalJSON(data []byte) error {
	i, err := unmarshalWire(timeInForceWire[:], data, "time in force")
	if err != nil {
		return err
	}
	*t = TimeInForce(i)
	return nil
}

// OrderStatus represents the current state of an order.
type OrderStatus int

// Order status constants define the lifecycle state of an order.
const (
	// StatusNew indicates the order has been accepted by the exchange.
	StatusNew OrderStatus = iota
	// StatusSuspended indicates a stop order waiting for its trigger.
	StatusSuspended
	// StatusPartiallyFilled indicates the order has been partially filled.
	StatusPartiallyFilled
	// StatusFilled indicates the order has been completely filled.
	StatusFilled
	// StatusCanceled indicates the order has been canceled.
	StatusCanceled
	// StatusExpired indicates the order has expired.
	StatusExpired
)

var orderStatusWire = [...]string{"new", "suspended", "partiallyFilled", "filled", "canceled", "expired"}

// String returns the wire representation of the order status.
func (s OrderStatus) String() string {
	return wireName(orderStatusWire[:], int(s))
}

// IsTerminal returns true if the order is in a terminal state (no further changes possible).
func (s OrderStatus) IsTerminal() bool {
	return s == StatusFilled || s == StatusCanceled || s == StatusExpired
}

// ParseOrderStatus resolves a wire string such as "partiallyFilled".
func ParseOrderStatus(s string) (OrderStatus, error) {
	i, err := parseWire(orderStatusWire[:], s, "order status")
	return OrderStatus(i), err
}

// MarshalJSON implements json.Marshaler for OrderStatus.
func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return marshalWire(orderStatusWire[:], int(s), "order status")
}

// UnmarshalJSON implements json.Unmarshaler for OrderStatus.
func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	i, err := unmarshalWire(orderStatusWire[:], data, "order status")
	if err != nil {
		return err
	}
	*s = OrderStatus(i)
	return nil
}

func wireName(table []string, i int) string {
	if i < 0 || i >= len(table) {
		return "unknown(" + strconv.Itoa(i) + ")"
	}
	return table[i]
}

func parseWire(table []string, s, kind string) (int, error) {
	for i, name := range table {
		if name == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}

func marshalWire(table []string, i int, kind string) ([]byte, error) {
	if i < 0 || i >= len(table) {
		return nil, fmt.Errorf("invalid %s %d", kind, i)
	}
	return []byte(strconv.Quote(table[i])), nil
}

func unmarshalWire(table []string, data []byte, kind string) (int, error) {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return 0, fmt.Errorf("%s must be a JSON string: %w", kind, err)
	}
	return parseWire(table, s, kind)
}
