package order

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"hitbtc/pkg/core"
	"hitbtc/pkg/exchange"
)

var (
	ErrOrderNotTracked = errors.New("order not tracked")
	ErrOrderTerminal   = errors.New("order is in a terminal state")
)

// Manager places orders through an exchange and keeps the latest known
// state of each one, keyed by client order id.
type Manager struct {
	exchange exchange.Exchange
	logger   zerolog.Logger

	mu     sync.RWMutex
	orders map[string]*core.Order

	subscribersMu sync.RWMutex
	subscribers   []chan *core.Order
}

// NewManager creates a Manager for ex.
func NewManager(ex exchange.Exchange, logger zerolog.Logger) *Manager {
	return &Manager{
		exchange: ex,
		logger:   logger,
		orders:   make(map[string]*core.Order),
	}
}

// PlaceOrder submits cmd. A client order id is generated when cmd has
// none, so the order can be looked up and canceled later. cmd is not
// modified.
func (m *Manager) PlaceOrder(ctx context.Context, cmd *core.CreateOrder) (*core.Order, error) {
	if cmd == nil {
		return nil, fmt.Errorf("order is required")
	}

	submit := *cmd
	if submit.ClientOrderID == "" {
		submit.ClientOrderID = NewClientOrderID()
	}

	placed, err := m.exchange.CreateOrder(ctx, &submit)
	if err != nil {
		return nil, fmt.Errorf("place order %s: %w", submit.ClientOrderID, err)
	}

	m.logger.Info().
		Str("client_order_id", placed.ClientOrderID).
		Str("symbol", placed.Symbol).
		Str("side", placed.Side.String()).
		Str("status", placed.Status.String()).
		Msg("order placed")

	m.store(placed)
	return placed, nil
}

// CancelOrder cancels a tracked order that is still open.
func (m *Manager) CancelOrder(ctx context.Context, clientOrderID string) (*core.Order, error) {
	order, ok := m.GetOrder(clientOrderID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotTracked, clientOrderID)
	}
	if order.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: %s is %s", ErrOrderTerminal, clientOrderID, order.Status)
	}

	canceled, err := m.exchange.CancelOrder(ctx, clientOrderID)
	if err != nil {
		return nil, fmt.Errorf("cancel order %s: %w", clientOrderID, err)
	}
	m.store(canceled)
	return canceled, nil
}

// CancelAllOrders cancels every open order on the exchange, filtered by
// exchange.WithSymbol, and records the returned states.
func (m *Manager) CancelAllOrders(ctx context.Context, opts ...exchange.Option) ([]core.Order, error) {
	canceled, err := m.exchange.CancelOrders(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("cancel orders: %w", err)
	}
	for i := range canceled {
		m.store(&canceled[i])
	}
	return canceled, nil
}

// SyncOrder refreshes a tracked order from the exchange. Orders the
// exchange no longer reports as active are left untouched and the
// exchange error is returned.
func (m *Manager) SyncOrder(ctx context.Context, clientOrderID string, opts ...exchange.Option) (*core.Order, error) {
	if _, ok := m.GetOrder(clientOrderID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotTracked, clientOrderID)
	}

	order, err := m.exchange.GetActiveOrder(ctx, clientOrderID, opts...)
	if err != nil {
		return nil, fmt.Errorf("sync order %s: %w", clientOrderID, err)
	}
	m.store(order)
	return order, nil
}

// GetOrder returns a copy of the last known state of an order.
func (m *Manager) GetOrder(clientOrderID string) (*core.Order, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	order, ok := m.orders[clientOrderID]
	if !ok {
		return nil, false
	}
	cp := *order
	return &cp, true
}

// GetOrders returns tracked orders matching filter, oldest first.
func (m *Manager) GetOrders(filter Filter) []core.Order {
	m.mu.RLock()
	orders := make([]core.Order, 0, len(m.orders))
	for _, order := range m.orders {
		if filter.Matches(order) {
			orders = append(orders, *order)
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(orders, func(a, b core.Order) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ClientOrderID, b.ClientOrderID)
	})
	return orders
}

// GetOpenOrders returns tracked orders that are not in a terminal state.
func (m *Manager) GetOpenOrders() []core.Order {
	return m.GetOrders(Filter{OpenOnly: true})
}

// SubscribeOrders returns a channel receiving every stored order update.
// The channel is closed when ctx is done. Updates are dropped when the
// subscriber falls behind.
func (m *Manager) SubscribeOrders(ctx context.Context) <-chan *core.Order {
	ch := make(chan *core.Order, 100)

	m.subscribersMu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.subscribersMu.Unlock()

	go func() {
		<-ctx.Done()
		m.removeSubscriber(ch)
	}()

	return ch
}

func (m *Manager) removeSubscriber(ch chan *core.Order) {
	m.subscribersMu.Lock()
	defer m.subscribersMu.Unlock()

	for i, s := range m.subscribers {
		if s == ch {
			m.subscribers = slices.Delete(m.subscribers, i, i+1)
			close(ch)
			return
		}
	}
}

func (m *Manager) store(order *core.Order) {
	cp := *order

	m.mu.Lock()
	m.orders[cp.ClientOrderID] = &cp
	m.mu.Unlock()

	m.notify(&cp)
}

// notify sends under the read lock so removeSubscriber cannot close a
// channel mid-send.
func (m *Manager) notify(order *core.Order) {
	m.subscribersMu.RLock()
	defer m.subscribersMu.RUnlock()

	for _, ch := range m.subscribers {
		update := *order
		select {
		case ch <- &update:
		default:
			m.logger.Warn().Str("client_order_id", order.ClientOrderID).Msg("order subscriber channel full, update dropped")
		}
	}
}

// Filter selects tracked orders. Zero fields match everything.
type Filter struct {
	Symbol   string
	Side     *core.OrderSide
	Status   *core.OrderStatus
	OpenOnly bool
}

// Matches reports whether order satisfies every set criterion.
func (f *Filter) Matches(order *core.Order) bool {
	if f.Symbol != "" && order.Symbol != f.Symbol {
		return false
	}
	if f.Side != nil && order.Side != *f.Side {
		return false
	}
	if f.Status != nil && order.Status != *f.Status {
		return false
	}
	if f.OpenOnly && order.Status.IsTerminal() {
		return false
	}
	return true
}
