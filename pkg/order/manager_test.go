package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hitbtc/pkg/core"
	"hitbtc/pkg/exchange"
)

// fakeExchange implements the order operations of exchange.Exchange in memory.
type fakeExchange struct {
	exchange.Exchange

	mu      sync.Mutex
	created []core.CreateOrder
	active  map[string]*core.Order
	failErr error
	clock   time.Time
}

func newFakeExchange() *fakeExchange {
	return &fakeExchange{
		active: make(map[string]*core.Order),
		clock:  time.Date(2021, 1, 7, 6, 13, 20, 0, time.UTC),
	}
}

func (f *fakeExchange) CreateOrder(_ context.Context, cmd *core.CreateOrder) (*core.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return nil, f.failErr
	}
	f.created = append(f.created, *cmd)
	f.clock = f.clock.Add(time.Second)

	order := &core.Order{
		ID:            int64(len(f.created)),
		ClientOrderID: cmd.ClientOrderID,
		Symbol:        cmd.Symbol.Left.String() + cmd.Symbol.Right.String(),
		Side:          cmd.Side,
		Type:          cmd.EffectiveType(),
		TimeInForce:   cmd.EffectiveTimeInForce(),
		Status:        core.StatusNew,
		Quantity:      cmd.Quantity,
		Price:         cmd.Price,
		CreatedAt:     f.clock,
		UpdatedAt:     f.clock,
	}
	f.active[order.ClientOrderID] = order
	cp := *order
	return &cp, nil
}

func (f *fakeExchange) CancelOrder(_ context.Context, clientOrderID string) (*core.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.active[clientOrderID]
	if !ok {
		return nil, &core.APIError{StatusCode: 400, Code: core.CodeOrderNotFound, Message: "Order not found"}
	}
	delete(f.active, clientOrderID)
	order.Status = core.StatusCanceled
	cp := *order
	return &cp, nil
}

func (f *fakeExchange) CancelOrders(_ context.Context, _ ...exchange.Option) ([]core.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []core.Order
	for id, order := range f.active {
		order.Status = core.StatusCanceled
		out = append(out, *order)
		delete(f.active, id)
	}
	return out, nil
}

func (f *fakeExchange) GetActiveOrder(_ context.Context, clientOrderID string, _ ...exchange.Option) (*core.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.active[clientOrderID]
	if !ok {
		return nil, &core.APIError{StatusCode: 400, Code: core.CodeOrderNotFound, Message: "Order not found"}
	}
	cp := *order
	return &cp, nil
}

func (f *fakeExchange) fill(clientOrderID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order := f.active[clientOrderID]
	order.Status = core.StatusPartiallyFilled
	order.CumQuantity.SetString("0.01")
}

func marketBuy(t *testing.T) *core.CreateOrder {
	t.Helper()
	cmd, err := NewBuilder(ethbtc).Buy().Market().Quantity("0.02").Build()
	require.NoError(t, err)
	return cmd
}

func TestManager_PlaceOrder(t *testing.T) {
	ex := newFakeExchange()
	m := NewManager(ex, zerolog.Nop())

	cmd := marketBuy(t)
	placed, err := m.PlaceOrder(context.Background(), cmd)
	require.NoError(t, err)

	assert.Empty(t, cmd.ClientOrderID, "caller command must not be modified")
	assert.Len(t, placed.ClientOrderID, MaxClientOrderIDLen)
	require.Len(t, ex.created, 1)
	assert.Equal(t, placed.ClientOrderID, ex.created[0].ClientOrderID)

	tracked, ok := m.GetOrder(placed.ClientOrderID)
	require.True(t, ok)
	assert.Equal(t, core.StatusNew, tracked.Status)

	_, err = m.PlaceOrder(context.Background(), nil)
	assert.Error(t, err)
}

func TestManager_PlaceOrder_KeepsClientOrderID(t *testing.T) {
	m := NewManager(newFakeExchange(), zerolog.Nop())

	cmd, err := NewBuilder(ethbtc).Sell().Price("0.05").Quantity("1").ClientOrderID("mine").Build()
	require.NoError(t, err)

	placed, err := m.PlaceOrder(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "mine", placed.ClientOrderID)
}

func TestManager_PlaceOrder_Error(t *testing.T) {
	ex := newFakeExchange()
	ex.failErr = &core.APIError{StatusCode: 400, Code: core.CodeInsufficientFunds, Message: "Insufficient funds"}
	m := NewManager(ex, zerolog.Nop())

	_, err := m.PlaceOrder(context.Background(), marketBuy(t))
	require.Error(t, err)
	assert.True(t, core.IsAPIError(err))
	assert.Empty(t, m.GetOrders(Filter{}))
}

func TestManager_CancelOrder(t *testing.T) {
	m := NewManager(newFakeExchange(), zerolog.Nop())

	placed, err := m.PlaceOrder(context.Background(), marketBuy(t))
	require.NoError(t, err)

	canceled, err := m.CancelOrder(context.Background(), placed.ClientOrderID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCanceled, canceled.Status)

	_, err = m.CancelOrder(context.Background(), placed.ClientOrderID)
	assert.ErrorIs(t, err, ErrOrderTerminal)

	_, err = m.CancelOrder(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrOrderNotTracked)
}

func TestManager_SyncOrder(t *testing.T) {
	ex := newFakeExchange()
	m := NewManager(ex, zerolog.Nop())

	placed, err := m.PlaceOrder(context.Background(), marketBuy(t))
	require.NoError(t, err)

	ex.fill(placed.ClientOrderID)
	synced, err := m.SyncOrder(context.Background(), placed.ClientOrderID, exchange.WithWait(time.Second))
	require.NoError(t, err)
	assert.Equal(t, core.StatusPartiallyFilled, synced.Status)
	assert.Equal(t, "0.01", synced.CumQuantity.String())

	tracked, _ := m.GetOrder(placed.ClientOrderID)
	assert.Equal(t, core.StatusPartiallyFilled, tracked.Status)

	_, err = m.SyncOrder(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrOrderNotTracked)

	_, err = m.CancelOrder(context.Background(), placed.ClientOrderID)
	require.NoError(t, err)
	_, err = m.SyncOrder(context.Background(), placed.ClientOrderID)
	var apiErr *core.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, core.CodeOrderNotFound, apiErr.Code)
}

func TestManager_GetOrders(t *testing.T) {
	m := NewManager(newFakeExchange(), zerolog.Nop())

	first, err := m.PlaceOrder(context.Background(), marketBuy(t))
	require.NoError(t, err)
	sell, err := NewBuilder(ethbtc).Sell().Price("0.05").Quantity("1").Build()
	require.NoError(t, err)
	second, err := m.PlaceOrder(context.Background(), sell)
	require.NoError(t, err)

	all := m.GetOrders(Filter{})
	require.Len(t, all, 2)
	assert.Equal(t, first.ClientOrderID, all[0].ClientOrderID)
	assert.Equal(t, second.ClientOrderID, all[1].ClientOrderID)

	side := core.SideSell
	sells := m.GetOrders(Filter{Side: &side})
	require.Len(t, sells, 1)
	assert.Equal(t, second.ClientOrderID, sells[0].ClientOrderID)

	assert.Len(t, m.GetOrders(Filter{Symbol: "ETHBTC"}), 2)
	assert.Empty(t, m.GetOrders(Filter{Symbol: "BTCUSDT"}))

	_, err = m.CancelOrder(context.Background(), first.ClientOrderID)
	require.NoError(t, err)
	open := m.GetOpenOrders()
	require.Len(t, open, 1)
	assert.Equal(t, second.ClientOrderID, open[0].ClientOrderID)

	canceled := core.StatusCanceled
	assert.Len(t, m.GetOrders(Filter{Status: &canceled}), 1)
}

func TestManager_CancelAllOrders(t *testing.T) {
	m := NewManager(newFakeExchange(), zerolog.Nop())

	for i := 0; i < 3; i++ {
		_, err := m.PlaceOrder(context.Background(), marketBuy(t))
		require.NoError(t, err)
	}

	canceled, err := m.CancelAllOrders(context.Background(), exchange.WithSymbol(ethbtc))
	require.NoError(t, err)
	assert.Len(t, canceled, 3)
	assert.Empty(t, m.GetOpenOrders())
}

func TestManager_SubscribeOrders(t *testing.T) {
	m := NewManager(newFakeExchange(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	updates := m.SubscribeOrders(ctx)

	placed, err := m.PlaceOrder(context.Background(), marketBuy(t))
	require.NoError(t, err)

	select {
	case update := <-updates:
		assert.Equal(t, placed.ClientOrderID, update.ClientOrderID)
		assert.Equal(t, core.StatusNew, update.Status)
	case <-time.After(time.Second):
		t.Fatal("no order update received")
	}

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-updates:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestFilter_Matches(t *testing.T) {
	var qty apd.Decimal
	qty.SetString("1")
	order := &core.Order{Symbol: "ETHBTC", Side: core.SideBuy, Status: core.StatusFilled, Quantity: qty}

	buy, sell := core.SideBuy, core.SideSell
	filled := core.StatusFilled

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty", Filter{}, true},
		{"symbol_match", Filter{Symbol: "ETHBTC"}, true},
		{"symbol_mismatch", Filter{Symbol: "BTCUSDT"}, false},
		{"side_match", Filter{Side: &buy}, true},
		{"side_mismatch", Filter{Side: &sell}, false},
		{"status_match", Filter{Status: &filled}, true},
		{"open_only", Filter{OpenOnly: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(order))
		})
	}
}
