package hitbtc

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hitbtc/pkg/coin"
	"hitbtc/pkg/core"
	"hitbtc/pkg/exchange"
)

const (
	testPublic  = "PUBLIC_KEY"
	testSecret  = "SECRET_KEY"
	testUnixSec = 1610000000
)

// expectedAuth recomputes the Authorization header from what the server received.
func expectedAuth(method, timestamp, pathWithQuery, body string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(method + timestamp + pathWithQuery + body))
	token := testPublic + ":" + timestamp + ":" + hex.EncodeToString(mac.Sum(nil))
	return "HS256 " + base64.StdEncoding.EncodeToString([]byte(token))
}

type recorded struct {
	method string
	uri    string
	auth   string
	body   string
}

func newTestServer(t *testing.T, status int, payload string, hits *atomic.Int32, last *recorded) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		body, _ := io.ReadAll(r.Body)
		if last != nil {
			*last = recorded{
				method: r.Method,
				uri:    r.URL.RequestURI(),
				auth:   r.Header.Get("Authorization"),
				body:   string(body),
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, baseURL string, withCreds bool, opts ...Option) *Client {
	t.Helper()
	cfg := core.DefaultConfig().WithBaseURL(baseURL + "/api/2")
	if withCreds {
		creds, err := core.NewCredentials(testPublic, testSecret)
		require.NoError(t, err)
		cfg = cfg.WithCredentials(creds)
	}
	opts = append([]Option{WithClock(func() time.Time { return time.Unix(testUnixSec, 0) })}, opts...)
	c, err := New(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestClient_Metadata(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1", false)
	assert.Equal(t, "hitbtc", c.Name())
	assert.Equal(t, "2", c.Version())

	c = newTestClient(t, "http://127.0.0.1:1", false, WithCoinTable(coin.V3))
	assert.Equal(t, "3", c.Version())
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(core.DefaultConfig().WithTimeout(0))
	assert.Error(t, err)
}

func TestClient_GetAccountBalance_Signed(t *testing.T) {
	var last recorded
	server := newTestServer(t, http.StatusOK,
		`[{"currency":"USDT20","available":"10.5","reserved":"0"},{"currency":"BTC","available":"0.001","reserved":"0.0005"}]`,
		nil, &last)
	c := newTestClient(t, server.URL, true)

	balances, err := c.GetAccountBalance(context.Background())
	require.NoError(t, err)
	require.Len(t, balances, 2)
	assert.Equal(t, coin.USDT, balances[0].Currency)
	assert.Equal(t, coin.BTC, balances[1].Currency)
	assert.Equal(t, "0.0005", balances[1].Reserved.String())

	assert.Equal(t, "GET", last.method)
	assert.Equal(t, "/api/2/account/balance", last.uri)
	assert.Equal(t, expectedAuth("GET", "1610000000", "/api/2/account/balance", ""), last.auth)
	assert.Empty(t, last.body)
}

func TestClient_GetTradingBalance(t *testing.T) {
	var last recorded
	server := newTestServer(t, http.StatusOK, `[]`, nil, &last)
	c := newTestClient(t, server.URL, true)

	balances, err := c.GetTradingBalance(context.Background())
	require.NoError(t, err)
	assert.Empty(t, balances)
	assert.Equal(t, "/api/2/trading/balance", last.uri)
}

func TestClient_CreateOrder_SignsSentBody(t *testing.T) {
	var last recorded
	server := newTestServer(t, http.StatusOK, `{
		"id": 4345613661,
		"clientOrderId": "57d5525562c945448e3cbd559bd068c3",
		"symbol": "ETHBTC",
		"side": "sell",
		"status": "new",
		"type": "limit",
		"timeInForce": "GTC",
		"quantity": "0.063",
		"price": "0.046016",
		"cumQuantity": "0.000",
		"postOnly": false,
		"createdAt": "2017-05-15T17:01:05.092Z",
		"updatedAt": "2017-05-15T17:01:05.092Z"
	}`, nil, &last)
	c := newTestClient(t, server.URL, true)

	cmd := core.NewLimitOrder(ethbtc, core.SideSell, decimal(t, "0.063"), decimal(t, "0.046016"))
	order, err := c.CreateOrder(context.Background(), cmd)
	require.NoError(t, err)

	assert.Equal(t, "57d5525562c945448e3cbd559bd068c3", order.ClientOrderID)
	assert.Equal(t, core.StatusNew, order.Status)
	assert.Equal(t, core.SideSell, order.Side)

	assert.Equal(t, "POST", last.method)
	assert.Equal(t, "/api/2/order", last.uri)
	assert.Equal(t, `{"symbol":"ETHBTC","side":"sell","quantity":"0.063","price":"0.046016"}`, last.body)
	assert.Equal(t, expectedAuth("POST", "1610000000", "/api/2/order", last.body), last.auth)
}

func TestClient_OrderOperations(t *testing.T) {
	order := `{"id":1,"clientOrderId":"abc","symbol":"BTCUSDT20","side":"buy","status":"canceled","type":"market","timeInForce":"IOC","quantity":"1","cumQuantity":"0","createdAt":"2021-01-07T06:13:20.000Z","updatedAt":"2021-01-07T06:13:21.000Z"}`

	t.Run("get_active_orders", func(t *testing.T) {
		var last recorded
		server := newTestServer(t, http.StatusOK, "["+order+"]", nil, &last)
		c := newTestClient(t, server.URL, true)

		orders, err := c.GetActiveOrders(context.Background(), exchange.WithSymbol(btcusdt))
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "/api/2/order?symbol=BTCUSDT20", last.uri)
		assert.Equal(t, expectedAuth("GET", "1610000000", last.uri, ""), last.auth)
	})

	t.Run("get_active_order_wait", func(t *testing.T) {
		var last recorded
		server := newTestServer(t, http.StatusOK, order, nil, &last)
		c := newTestClient(t, server.URL, true)

		got, err := c.GetActiveOrder(context.Background(), "abc", exchange.WithWait(2*time.Second))
		require.NoError(t, err)
		assert.Equal(t, "abc", got.ClientOrderID)
		assert.Equal(t, "/api/2/order/abc?wait=2000", last.uri)
	})

	t.Run("cancel_orders", func(t *testing.T) {
		var last recorded
		server := newTestServer(t, http.StatusOK, "["+order+"]", nil, &last)
		c := newTestClient(t, server.URL, true)

		orders, err := c.CancelOrders(context.Background())
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.True(t, orders[0].Status.IsTerminal())
		assert.Equal(t, "DELETE", last.method)
		assert.Equal(t, "/api/2/order", last.uri)
	})

	t.Run("cancel_order", func(t *testing.T) {
		var last recorded
		server := newTestServer(t, http.StatusOK, order, nil, &last)
		c := newTestClient(t, server.URL, true)

		got, err := c.CancelOrder(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, core.StatusCanceled, got.Status)
		assert.Equal(t, "DELETE", last.method)
		assert.Equal(t, "/api/2/order/abc", last.uri)
		assert.Equal(t, expectedAuth("DELETE", "1610000000", "/api/2/order/abc", ""), last.auth)
	})
}

func TestClient_GetTradingFee(t *testing.T) {
	var last recorded
	server := newTestServer(t, http.StatusOK, `{"takeLiquidityRate":"0.001","provideLiquidityRate":"-0.0001"}`, nil, &last)
	c := newTestClient(t, server.URL, true)

	fee, err := c.GetTradingFee(context.Background(), ethbtc)
	require.NoError(t, err)
	assert.Equal(t, "0.001", fee.TakeLiquidityRate.String())
	assert.Equal(t, "/api/2/trading/fee/ETHBTC", last.uri)
}

func TestClient_PublicOperationsUnsigned(t *testing.T) {
	var last recorded
	server := newTestServer(t, http.StatusOK, `[{"id":"ETHBTC","baseCurrency":"ETH","quoteCurrency":"BTC","quantityIncrement":"0.001","tickSize":"0.000001","takeLiquidityRate":"0.001","provideLiquidityRate":"-0.0001","feeCurrency":"BTC"}]`, nil, &last)

	for _, withCreds := range []bool{false, true} {
		c := newTestClient(t, server.URL, withCreds)
		symbols, err := c.GetSymbols(context.Background())
		require.NoError(t, err)
		require.Len(t, symbols, 1)
		assert.Equal(t, ethbtc, symbols[0].Symbol())
		assert.Equal(t, "/api/2/public/symbol", last.uri)
		assert.Empty(t, last.auth)
	}
}

func TestClient_GetCurrencies(t *testing.T) {
	var last recorded
	server := newTestServer(t, http.StatusOK, `[{"id":"USDT20","fullName":"Tether","crypto":true,"payoutFee":"1.5","precisionPayout":6}]`, nil, &last)
	c := newTestClient(t, server.URL, false)

	currencies, err := c.GetCurrencies(context.Background())
	require.NoError(t, err)
	require.Len(t, currencies, 1)
	assert.Equal(t, coin.USDT, currencies[0].ID)
	assert.Equal(t, "/api/2/public/currency", last.uri)
}

func TestClient_GetOrderBooks(t *testing.T) {
	var last recorded
	server := newTestServer(t, http.StatusOK, `{
		"BTCUSDT20": {"symbol":"BTCUSDT20","ask":[{"price":"30001","size":"1"}],"bid":[{"price":"29999","size":"2"}],"timestamp":"2021-01-07T06:13:20.000Z"},
		"TONUSDT20": {"symbol":"TONUSDT20","ask":[],"bid":[{"price":"0.5","size":"100"}],"timestamp":"2021-01-07T06:13:20.000Z"}
	}`, nil, &last)
	c := newTestClient(t, server.URL, false)

	books, err := c.GetOrderBooks(context.Background(),
		exchange.WithSymbols(btcusdt, tonusdt), exchange.WithLimit(10))
	require.NoError(t, err)
	assert.Equal(t, "/api/2/public/orderbook?symbols=BTCUSDT20,TONUSDT20&limit=10", last.uri)
	assert.Empty(t, last.auth)

	bids, ok := books.Page("BTCUSDT20", core.SideBuy)
	require.True(t, ok)
	require.Len(t, bids, 1)
	assert.Equal(t, "29999", bids[0].Price.String())

	asks, ok := books.Page("TONUSDT20", core.SideSell)
	require.True(t, ok)
	assert.Empty(t, asks)
}

func TestClient_GetOrderBook(t *testing.T) {
	var last recorded
	server := newTestServer(t, http.StatusOK, `{"ask":[{"price":"30001","size":"1"}],"bid":[],"timestamp":"2021-01-07T06:13:20.000Z","askAveragePrice":"30001"}`, nil, &last)
	c := newTestClient(t, server.URL, false)

	ob, err := c.GetOrderBook(context.Background(), btcusdt, exchange.WithVolume(decimal(t, "1")))
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT20", ob.Symbol)
	require.NotNil(t, ob.AskAveragePrice)
	assert.Equal(t, "/api/2/public/orderbook/BTCUSDT20?volume=1", last.uri)
}

func TestClient_PrivateWithoutCredentials(t *testing.T) {
	var hits atomic.Int32
	server := newTestServer(t, http.StatusOK, `[]`, &hits, nil)
	c := newTestClient(t, server.URL, false)

	_, err := c.GetAccountBalance(context.Background())
	require.Error(t, err)
	assert.True(t, core.IsRequestBuildError(err))
	assert.ErrorIs(t, err, core.ErrNoCredentials)
	assert.Zero(t, hits.Load())
}

func TestClient_CreateOrder_RejectedBeforeSend(t *testing.T) {
	badSide := core.NewMarketOrder(btcusdt, core.OrderSide(7), decimal(t, "1"))

	badType := core.NewMarketOrder(btcusdt, core.SideBuy, decimal(t, "1"))
	orderType := core.OrderType(9)
	badType.Type = &orderType

	badTIF := core.NewLimitOrder(ethbtc, core.SideSell, decimal(t, "1"), decimal(t, "0.05"))
	tif := core.TimeInForce(-1)
	badTIF.TimeInForce = &tif

	tests := []struct {
		name    string
		cmd     *core.CreateOrder
		wantErr error
	}{
		{"nil_command", nil, core.ErrNilOrder},
		{"unknown_side", badSide, nil},
		{"unknown_type", badType, nil},
		{"unknown_time_in_force", badTIF, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			server := newTestServer(t, http.StatusOK, `{}`, &hits, nil)
			c := newTestClient(t, server.URL, true)

			order, err := c.CreateOrder(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.Nil(t, order)
			assert.True(t, core.IsRequestBuildError(err), "%v", err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Zero(t, hits.Load())
		})
	}
}

func TestClient_APIError(t *testing.T) {
	server := newTestServer(t, http.StatusBadRequest,
		`{"error":{"code":20001,"message":"Insufficient funds","description":"Check that the funds are sufficient, given commissions"}}`,
		nil, nil)
	c := newTestClient(t, server.URL, true)

	cmd := core.NewMarketOrder(btcusdt, core.SideBuy, decimal(t, "100"))
	_, err := c.CreateOrder(context.Background(), cmd)
	require.Error(t, err)

	var apiErr *core.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, core.CodeInsufficientFunds, apiErr.Code)
	assert.True(t, core.IsTerminalError(err))
}

func TestClient_DecodeFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{"not_json", http.StatusOK, "not json"},
		{"bad_gateway_html", http.StatusBadGateway, "<html>Bad Gateway</html>"},
		{"malformed_decimal", http.StatusOK, `[{"currency":"BTC","available":"1,0","reserved":"0"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, tt.status, tt.payload, nil, nil)
			c := newTestClient(t, server.URL, true)

			_, err := c.GetAccountBalance(context.Background())
			var dErr *core.DeserializationError
			require.True(t, errors.As(err, &dErr), "%v", err)
			assert.Equal(t, tt.status, dErr.StatusCode)
			assert.Equal(t, tt.payload, string(dErr.Body))
		})
	}
}

type failingTransport struct {
	calls int
}

func (f *failingTransport) Do(context.Context, *core.Request) (*core.Response, error) {
	f.calls++
	return nil, errors.New("connection reset by peer")
}

func TestClient_TransportError(t *testing.T) {
	transport := &failingTransport{}
	c := newTestClient(t, "http://127.0.0.1:1", false, WithTransport(transport))

	_, err := c.GetSymbols(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, transport.calls)

	var tErr *core.TransportError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, core.OpGetSymbols, tErr.Op)
	assert.False(t, core.IsAPIError(err))
}

func TestClient_TransportErrorFromServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	c := newTestClient(t, url, false)
	_, err := c.GetCurrencies(context.Background())
	assert.True(t, core.IsTransportError(err))
}

func TestRegister(t *testing.T) {
	container := exchange.NewContainer()
	cfg := core.DefaultConfig().WithBaseURL("http://127.0.0.1:1/api/2")

	require.NoError(t, Register(container, "hitbtc", cfg))
	ex, err := container.Get("hitbtc")
	require.NoError(t, err)
	assert.Equal(t, "hitbtc", ex.Name())

	assert.ErrorIs(t, Register(container, "hitbtc", cfg), exchange.ErrAlreadyRegistered)
	require.NoError(t, container.Close())
}
