// Package coin defines tradable currencies and trading pairs together with the
// versioned code tables that map them to exchange wire codes.
package coin

// Kind identifies a currency the client knows by name.
// KindUnknown marks a Coin that carries an opaque exchange code instead.
type Kind int

// Known currency kinds.
const (
	KindUnknown Kind = iota
	KindBTC
	KindETH
	KindTON
	KindUSDT
	KindUSDC
	KindLTC
	KindXRP
	KindEOS
	KindDAI
)

var kindNames = [...]string{
	"UNKNOWN",
	"BTC",
	"ETH",
	"TON",
	"USDT",
	"USDC",
	"LTC",
	"XRP",
	"EOS",
	"DAI",
}

// String returns the canonical name of the kind. It is not a wire code;
// wire codes come from a Table.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// Kinds returns every known kind, excluding KindUnknown.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames)-1)
	for k := KindBTC; int(k) < len(kindNames); k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// KindByName resolves a canonical name such as "USDT" to its kind.
func KindByName(name string) (Kind, bool) {
	for i, n := range kindNames {
		if i == int(KindUnknown) {
			continue
		}
		if n == name {
			return Kind(i), true
		}
	}
	return KindUnknown, false
}

// Coin is either a known currency or an opaque code the client does not
// recognize. Coin values are comparable.
type Coin struct {
	kind Kind
	code string
}

// Well-known coins.
var (
	BTC  = Known(KindBTC)
	ETH  = Known(KindETH)
	TON  = Known(KindTON)
	USDT = Known(KindUSDT)
	USDC = Known(KindUSDC)
	LTC  = Known(KindLTC)
	XRP  = Known(KindXRP)
	EOS  = Known(KindEOS)
	DAI  = Known(KindDAI)
)

// Known returns the coin for a known kind.
func Known(kind Kind) Coin {
	return Coin{kind: kind}
}

// Unknown returns a coin carrying an exchange code verbatim.
func Unknown(code string) Coin {
	return Coin{kind: KindUnknown, code: code}
}

// Kind returns the coin's kind, KindUnknown for opaque codes.
func (c Coin) Kind() Kind {
	return c.kind
}

// IsKnown reports whether the coin is one the client knows by name.
func (c Coin) IsKnown() bool {
	return c.kind != KindUnknown
}

// Code returns the opaque code of an unknown coin, or "" for known coins.
func (c Coin) Code() string {
	return c.code
}

// String returns the canonical name for known coins and the raw code otherwise.
func (c Coin) String() string {
	if c.kind == KindUnknown {
		return c.code
	}
	return c.kind.String()
}
