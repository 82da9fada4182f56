package hitbtc

import (
	"net/http"

	"hitbtc/pkg/coin"
	"hitbtc/pkg/core"
	"hitbtc/pkg/exchange"
)

const (
	ProductionURL = core.DefaultBaseURL
	SandboxURL    = core.SandboxBaseURL
)

// Path segments of the REST resources.
const (
	segAccount   = "account"
	segTrading   = "trading"
	segBalance   = "balance"
	segOrder     = "order"
	segFee       = "fee"
	segPublic    = "public"
	segSymbol    = "symbol"
	segCurrency  = "currency"
	segOrderBook = "orderbook"
)

// Protocol lays out the HitBTC endpoints. It only assembles request
// builders; signing and sending are left to the caller.
type Protocol struct {
	baseURL string
	table   *coin.Table
}

// NewProtocol creates a Protocol for baseURL. Market identifiers are
// spelled with table.
func NewProtocol(baseURL string, table *coin.Table) *Protocol {
	return &Protocol{baseURL: baseURL, table: table}
}

// Name returns the protocol identifier "hitbtc".
func (p *Protocol) Name() string {
	return "hitbtc"
}

// Version returns the coin table version, which follows the API generation.
func (p *Protocol) Version() string {
	return p.table.Version()
}

// BaseURL returns the endpoint the protocol builds requests against.
func (p *Protocol) BaseURL() string {
	return p.baseURL
}

func (p *Protocol) newRequest(op core.Operation, method string, segments ...string) *core.RequestBuilder {
	return core.NewRequestBuilder(method, p.baseURL).Op(op).Segments(segments...)
}

func (p *Protocol) BuildGetAccountBalance() *core.RequestBuilder {
	return p.newRequest(core.OpGetAccountBalance, http.MethodGet, segAccount, segBalance)
}

func (p *Protocol) BuildGetTradingBalance() *core.RequestBuilder {
	return p.newRequest(core.OpGetTradingBalance, http.MethodGet, segTrading, segBalance)
}

// BuildGetActiveOrders adds the symbol filter only when one is given.
func (p *Protocol) BuildGetActiveOrders(o *exchange.Options) *core.RequestBuilder {
	b := p.newRequest(core.OpGetActiveOrders, http.MethodGet, segOrder)
	if o.Symbol != nil {
		b.Query("symbol", p.table.SymbolCode(*o.Symbol))
	}
	return b
}

// BuildGetActiveOrder adds wait, in milliseconds, only when positive.
func (p *Protocol) BuildGetActiveOrder(clientOrderID string, o *exchange.Options) *core.RequestBuilder {
	b := p.newRequest(core.OpGetActiveOrder, http.MethodGet, segOrder, clientOrderID)
	if o.Wait > 0 {
		b.QueryInt("wait", int(o.Wait.Milliseconds()))
	}
	return b
}

func (p *Protocol) BuildCreateOrder(body *hitbtcCreateOrder) *core.RequestBuilder {
	return p.newRequest(core.OpCreateOrder, http.MethodPost, segOrder).JSONBody(body)
}

func (p *Protocol) BuildCancelOrders(o *exchange.Options) *core.RequestBuilder {
	b := p.newRequest(core.OpCancelOrders, http.MethodDelete, segOrder)
	if o.Symbol != nil {
		b.Query("symbol", p.table.SymbolCode(*o.Symbol))
	}
	return b
}

func (p *Protocol) BuildCancelOrder(clientOrderID string) *core.RequestBuilder {
	return p.newRequest(core.OpCancelOrder, http.MethodDelete, segOrder, clientOrderID)
}

func (p *Protocol) BuildGetTradingFee(symbol coin.Symbol) *core.RequestBuilder {
	return p.newRequest(core.OpGetTradingFee, http.MethodGet, segTrading, segFee, p.table.SymbolCode(symbol))
}

func (p *Protocol) BuildGetSymbols() *core.RequestBuilder {
	return p.newRequest(core.OpGetSymbols, http.MethodGet, segPublic, segSymbol)
}

func (p *Protocol) BuildGetCurrencies() *core.RequestBuilder {
	return p.newRequest(core.OpGetCurrencies, http.MethodGet, segPublic, segCurrency)
}

// BuildGetOrderBooks emits symbols first, then limit, each only when set.
func (p *Protocol) BuildGetOrderBooks(o *exchange.Options) *core.RequestBuilder {
	b := p.newRequest(core.OpGetOrderBooks, http.MethodGet, segPublic, segOrderBook)
	b.QueryList("symbols", p.table.SymbolCodes(o.Symbols))
	if o.Limit != nil {
		b.QueryInt("limit", *o.Limit)
	}
	return b
}

// BuildGetOrderBook sends volume when set and limit otherwise.
func (p *Protocol) BuildGetOrderBook(symbol coin.Symbol, o *exchange.Options) *core.RequestBuilder {
	b := p.newRequest(core.OpGetOrderBook, http.MethodGet, segPublic, segOrderBook, p.table.SymbolCode(symbol))
	switch {
	case o.Volume != nil:
		b.Query("volume", formatDecimal(o.Volume))
	case o.Limit != nil:
		b.QueryInt("limit", *o.Limit)
	}
	return b
}
