package hitbtc

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	httpClient "hitbtc/internal/http"
	"hitbtc/pkg/auth"
	"hitbtc/pkg/coin"
	"hitbtc/pkg/core"
	"hitbtc/pkg/exchange"
)

// Client implements exchange.Exchange for the HitBTC REST API.
// It is safe for concurrent use; requests share no mutable state.
type Client struct {
	config     *core.Config
	transport  core.Transport
	signer     core.Signer
	logger     zerolog.Logger
	normalizer *Normalizer
	protocol   *Protocol
	clock      func() time.Time
}

var _ exchange.Exchange = (*Client)(nil)

// Option is a functional option for configuring the Client.
type Option func(*Options)

// Options holds configuration options for the Client.
type Options struct {
	Logger    zerolog.Logger
	Transport core.Transport
	CoinTable *coin.Table
	Clock     func() time.Time
}

// WithLogger returns an option that sets the logger for the client.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithTransport replaces the default resty transport.
func WithTransport(t core.Transport) Option {
	return func(o *Options) {
		o.Transport = t
	}
}

// WithCoinTable overrides the coin table selected by the config.
func WithCoinTable(t *coin.Table) Option {
	return func(o *Options) {
		o.CoinTable = t
	}
}

// WithClock sets the time source used for request timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *Options) {
		o.Clock = clock
	}
}

// New creates a Client. Without credentials in config only the public
// market data operations succeed.
func New(config *core.Config, opts ...Option) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	options := &Options{
		Logger: zerolog.Nop(),
		Clock:  time.Now,
	}
	for _, opt := range opts {
		opt(options)
	}

	table := options.CoinTable
	if table == nil {
		var err error
		if table, err = config.ResolveCoinTable(); err != nil {
			return nil, fmt.Errorf("resolve coin table: %w", err)
		}
	}

	transport := options.Transport
	if transport == nil {
		var err error
		transport, err = httpClient.NewClient(&httpClient.Config{
			Timeout: config.Timeout,
			Logger:  options.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create http client: %w", err)
		}
	}

	var signer core.Signer
	if config.Credentials != nil {
		s, err := auth.NewSigner(config.Credentials)
		if err != nil {
			return nil, fmt.Errorf("create signer: %w", err)
		}
		signer = s
	}

	return &Client{
		config:     config,
		transport:  transport,
		signer:     signer,
		logger:     options.Logger,
		normalizer: NewNormalizer(table),
		protocol:   NewProtocol(config.ResolveBaseURL(), table),
		clock:      options.Clock,
	}, nil
}

// Register creates a Client and registers it with the container under name.
func Register(container *exchange.Container, name string, config *core.Config, opts ...Option) error {
	c, err := New(config, opts...)
	if err != nil {
		return fmt.Errorf("create hitbtc client: %w", err)
	}
	if err := container.Register(name, c); err != nil {
		c.Close()
		return err
	}
	return nil
}

// Name returns the exchange identifier "hitbtc".
func (c *Client) Name() string {
	return c.protocol.Name()
}

// Version returns the API generation of the coin table in use.
func (c *Client) Version() string {
	return c.protocol.Version()
}

// Close releases the transport if it owns resources.
func (c *Client) Close() error {
	if closer, ok := c.transport.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// GetAccountBalance returns the main account balances.
func (c *Client) GetAccountBalance(ctx context.Context) ([]core.Balance, error) {
	return c.getBalance(ctx, c.protocol.BuildGetAccountBalance())
}

// GetTradingBalance returns the trading account balances.
func (c *Client) GetTradingBalance(ctx context.Context) ([]core.Balance, error) {
	return c.getBalance(ctx, c.protocol.BuildGetTradingBalance())
}

func (c *Client) getBalance(ctx context.Context, b *core.RequestBuilder) ([]core.Balance, error) {
	data, resp, err := send[[]hitbtcBalance](ctx, c, b)
	if err != nil {
		return nil, err
	}
	balances, err := c.normalizer.NormalizeBalances(data)
	if err != nil {
		return nil, decodeFailed(resp, err)
	}
	return balances, nil
}

// GetActiveOrders returns open orders, filtered by exchange.WithSymbol.
func (c *Client) GetActiveOrders(ctx context.Context, opts ...exchange.Option) ([]core.Order, error) {
	return c.getOrders(ctx, c.protocol.BuildGetActiveOrders(exchange.ApplyOptions(opts...)))
}

// GetActiveOrder returns one open order. exchange.WithWait long-polls.
func (c *Client) GetActiveOrder(ctx context.Context, clientOrderID string, opts ...exchange.Option) (*core.Order, error) {
	return c.getOrder(ctx, c.protocol.BuildGetActiveOrder(clientOrderID, exchange.ApplyOptions(opts...)))
}

// CreateOrder places cmd and returns the order as accepted by the exchange.
func (c *Client) CreateOrder(ctx context.Context, cmd *core.CreateOrder) (*core.Order, error) {
	if cmd == nil {
		return nil, core.NewRequestBuildError("create order", core.ErrNilOrder)
	}
	return c.getOrder(ctx, c.protocol.BuildCreateOrder(c.normalizer.DenormalizeCreateOrder(cmd)))
}

// CancelOrders cancels all open orders, filtered by exchange.WithSymbol.
func (c *Client) CancelOrders(ctx context.Context, opts ...exchange.Option) ([]core.Order, error) {
	return c.getOrders(ctx, c.protocol.BuildCancelOrders(exchange.ApplyOptions(opts...)))
}

// CancelOrder cancels one order by client order id.
func (c *Client) CancelOrder(ctx context.Context, clientOrderID string) (*core.Order, error) {
	return c.getOrder(ctx, c.protocol.BuildCancelOrder(clientOrderID))
}

func (c *Client) getOrder(ctx context.Context, b *core.RequestBuilder) (*core.Order, error) {
	data, resp, err := send[hitbtcOrder](ctx, c, b)
	if err != nil {
		return nil, err
	}
	order, err := c.normalizer.NormalizeOrder(&data)
	if err != nil {
		return nil, decodeFailed(resp, err)
	}
	return order, nil
}

func (c *Client) getOrders(ctx context.Context, b *core.RequestBuilder) ([]core.Order, error) {
	data, resp, err := send[[]hitbtcOrder](ctx, c, b)
	if err != nil {
		return nil, err
	}
	orders, err := c.normalizer.NormalizeOrders(data)
	if err != nil {
		return nil, decodeFailed(resp, err)
	}
	return orders, nil
}

// GetTradingFee returns the fee rates applied to the account for symbol.
func (c *Client) GetTradingFee(ctx context.Context, symbol coin.Symbol) (*core.TradingFee, error) {
	data, resp, err := send[hitbtcTradingFee](ctx, c, c.protocol.BuildGetTradingFee(symbol))
	if err != nil {
		return nil, err
	}
	fee, err := c.normalizer.NormalizeTradingFee(&data)
	if err != nil {
		return nil, decodeFailed(resp, err)
	}
	return fee, nil
}

// GetSymbols returns all listed markets.
func (c *Client) GetSymbols(ctx context.Context) ([]core.SymbolInfo, error) {
	data, resp, err := send[[]hitbtcSymbol](ctx, c, c.protocol.BuildGetSymbols())
	if err != nil {
		return nil, err
	}
	symbols, err := c.normalizer.NormalizeSymbols(data)
	if err != nil {
		return nil, decodeFailed(resp, err)
	}
	return symbols, nil
}

// GetCurrencies returns all listed currencies.
func (c *Client) GetCurrencies(ctx context.Context) ([]core.Currency, error) {
	data, resp, err := send[[]hitbtcCurrency](ctx, c, c.protocol.BuildGetCurrencies())
	if err != nil {
		return nil, err
	}
	currencies, err := c.normalizer.NormalizeCurrencies(data)
	if err != nil {
		return nil, decodeFailed(resp, err)
	}
	return currencies, nil
}

// GetOrderBooks returns the books of the markets given with
// exchange.WithSymbols, or of all markets. exchange.WithLimit caps depth.
func (c *Client) GetOrderBooks(ctx context.Context, opts ...exchange.Option) (core.OrderBooks, error) {
	data, resp, err := send[map[string]hitbtcOrderBook](ctx, c, c.protocol.BuildGetOrderBooks(exchange.ApplyOptions(opts...)))
	if err != nil {
		return nil, err
	}
	books, err := c.normalizer.NormalizeOrderBooks(data)
	if err != nil {
		return nil, decodeFailed(resp, err)
	}
	return books, nil
}

// GetOrderBook returns the book of one market, by exchange.WithVolume or
// exchange.WithLimit.
func (c *Client) GetOrderBook(ctx context.Context, symbol coin.Symbol, opts ...exchange.Option) (*core.OrderBook, error) {
	data, resp, err := send[hitbtcOrderBook](ctx, c, c.protocol.BuildGetOrderBook(symbol, exchange.ApplyOptions(opts...)))
	if err != nil {
		return nil, err
	}
	ob, err := c.normalizer.NormalizeOrderBook(&data, c.protocol.table.SymbolCode(symbol))
	if err != nil {
		return nil, decodeFailed(resp, err)
	}
	return ob, nil
}

// send builds, signs when the operation is private, sends and decodes one
// request. The clock is read once per request.
func send[T any](ctx context.Context, c *Client, b *core.RequestBuilder) (T, *core.Response, error) {
	var zero T
	op := b.Operation()

	var signer core.Signer
	if op.RequiresAuth() {
		if c.signer == nil {
			return zero, nil, core.NewRequestBuildError(op.String(), core.ErrNoCredentials)
		}
		signer = c.signer
	}

	req, err := b.Build(signer, c.clock())
	if err != nil {
		c.logger.Error().Err(err).Str("op", op.String()).Msg("build request")
		return zero, nil, err
	}

	resp, err := c.transport.Do(ctx, req)
	if err != nil {
		req.State = core.StateTransportFailed
		c.logRequest(req, nil)
		if !core.IsTransportError(err) {
			err = &core.TransportError{Op: op, Err: err}
		}
		return zero, nil, err
	}
	req.State = core.StateSent

	result, err := ExtractResponse[T](resp)
	if err != nil {
		req.State = core.StateDecodeFailed
		c.logRequest(req, resp)
		return zero, resp, err
	}
	req.State = core.StateDecoded
	c.logRequest(req, resp)

	return result, resp, nil
}

func (c *Client) logRequest(req *core.Request, resp *core.Response) {
	event := c.logger.Debug()
	if req.State == core.StateTransportFailed {
		event = c.logger.Error()
	}
	event = event.
		Str("op", req.Op.String()).
		Str("method", req.Method).
		Str("path", req.PathWithQuery).
		Str("state", req.State.String())
	if resp != nil {
		event = event.Int("status", resp.StatusCode).Int("size", len(resp.Body))
	}
	event.Msg("hitbtc request")
}

func decodeFailed(resp *core.Response, err error) error {
	return core.NewDeserializationError(resp.StatusCode, resp.Body, err)
}
