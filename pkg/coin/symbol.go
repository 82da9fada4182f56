package coin

// Symbol is a directional trading pair. (BTC, USDT) and (USDT, BTC) are
// different markets. Symbols are never parsed from wire identifiers because
// the boundary between the two codes is not recoverable from the
// concatenation.
type Symbol struct {
	Left  Coin
	Right Coin
}

// NewSymbol creates a trading pair.
func NewSymbol(left, right Coin) Symbol {
	return Symbol{Left: left, Right: right}
}

// Reversed returns the pair with its sides swapped. The receiver is unchanged.
func (s Symbol) Reversed() Symbol {
	return Symbol{Left: s.Right, Right: s.Left}
}

// String returns a human readable form such as "BTC/USDT".
func (s Symbol) String() string {
	return s.Left.String() + "/" + s.Right.String()
}
