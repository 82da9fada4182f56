package hitbtc

import (
	"fmt"
	"time"

	"github.com/cockroachdb/apd/v3"

	"hitbtc/pkg/coin"
	"hitbtc/pkg/core"
)

// Normalizer converts between HitBTC wire structures and core types.
// Currency codes are resolved through the coin table of the API version
// in use. Malformed numbers, timestamps or enum strings are reported as
// errors, never replaced with zero values.
type Normalizer struct {
	table *coin.Table
}

// NewNormalizer creates a Normalizer for table.
func NewNormalizer(table *coin.Table) *Normalizer {
	return &Normalizer{table: table}
}

// NormalizeBalances converts balance rows to canonical Balances.
func (n *Normalizer) NormalizeBalances(data []hitbtcBalance) ([]core.Balance, error) {
	balances := make([]core.Balance, 0, len(data))
	for _, b := range data {
		available, err := parseDecimal("available", b.Available)
		if err != nil {
			return nil, fmt.Errorf("balance %s: %w", b.Currency, err)
		}
		reserved, err := parseDecimal("reserved", b.Reserved)
		if err != nil {
			return nil, fmt.Errorf("balance %s: %w", b.Currency, err)
		}
		balances = append(balances, core.Balance{
			Currency:  n.table.Parse(b.Currency),
			Available: available,
			Reserved:  reserved,
		})
	}
	return balances, nil
}

// NormalizeOrder converts a HitBTC order to a canonical Order.
func (n *Normalizer) NormalizeOrder(data *hitbtcOrder) (*core.Order, error) {
	side, err := core.ParseOrderSide(data.Side)
	if err != nil {
		return nil, err
	}
	orderType, err := core.ParseOrderType(data.Type)
	if err != nil {
		return nil, err
	}
	status, err := core.ParseOrderStatus(data.Status)
	if err != nil {
		return nil, err
	}
	tif, err := core.ParseTimeInForce(data.TimeInForce)
	if err != nil {
		return nil, err
	}

	quantity, err := parseDecimal("quantity", data.Quantity)
	if err != nil {
		return nil, err
	}
	cumQuantity, err := parseDecimal("cumQuantity", data.CumQuantity)
	if err != nil {
		return nil, err
	}
	price, err := parseOptionalDecimal("price", data.Price)
	if err != nil {
		return nil, err
	}
	stopPrice, err := parseOptionalDecimal("stopPrice", data.StopPrice)
	if err != nil {
		return nil, err
	}

	createdAt, err := parseTime("createdAt", data.CreatedAt)
	if err != nil {
		return nil, err
	}
	var updatedAt time.Time
	if data.UpdatedAt != "" {
		if updatedAt, err = parseTime("updatedAt", data.UpdatedAt); err != nil {
			return nil, err
		}
	}
	var expireTime *time.Time
	if data.ExpireTime != nil && *data.ExpireTime != "" {
		t, err := parseTime("expireTime", *data.ExpireTime)
		if err != nil {
			return nil, err
		}
		expireTime = &t
	}

	return &core.Order{
		ID:            data.ID,
		ClientOrderID: data.ClientOrderID,
		Symbol:        data.Symbol,
		Side:          side,
		Type:          orderType,
		Status:        status,
		TimeInForce:   tif,
		Quantity:      quantity,
		Price:         price,
		StopPrice:     stopPrice,
		CumQuantity:   cumQuantity,
		PostOnly:      data.PostOnly,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
		ExpireTime:    expireTime,
	}, nil
}

// NormalizeOrders converts a slice of HitBTC orders to canonical Orders.
func (n *Normalizer) NormalizeOrders(data []hitbtcOrder) ([]core.Order, error) {
	orders := make([]core.Order, 0, len(data))
	for i := range data {
		order, err := n.NormalizeOrder(&data[i])
		if err != nil {
			return nil, fmt.Errorf("order %s: %w", data[i].ClientOrderID, err)
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

// NormalizeSymbols converts market descriptions. The wire id is kept as
// the market key; base and quote are resolved through the coin table.
func (n *Normalizer) NormalizeSymbols(data []hitbtcSymbol) ([]core.SymbolInfo, error) {
	symbols := make([]core.SymbolInfo, 0, len(data))
	for _, s := range data {
		info := core.SymbolInfo{
			ID:            s.ID,
			BaseCurrency:  n.table.Parse(s.BaseCurrency),
			QuoteCurrency: n.table.Parse(s.QuoteCurrency),
			FeeCurrency:   n.table.Parse(s.FeeCurrency),
		}
		var err error
		if info.QuantityIncrement, err = parseDecimal("quantityIncrement", s.QuantityIncrement); err != nil {
			return nil, fmt.Errorf("symbol %s: %w", s.ID, err)
		}
		if info.TickSize, err = parseDecimal("tickSize", s.TickSize); err != nil {
			return nil, fmt.Errorf("symbol %s: %w", s.ID, err)
		}
		if info.TakeLiquidityRate, err = parseDecimal("takeLiquidityRate", s.TakeLiquidityRate); err != nil {
			return nil, fmt.Errorf("symbol %s: %w", s.ID, err)
		}
		if info.ProvideLiquidityRate, err = parseDecimal("provideLiquidityRate", s.ProvideLiquidityRate); err != nil {
			return nil, fmt.Errorf("symbol %s: %w", s.ID, err)
		}
		symbols = append(symbols, info)
	}
	return symbols, nil
}

// NormalizeCurrencies converts currency descriptions.
func (n *Normalizer) NormalizeCurrencies(data []hitbtcCurrency) ([]core.Currency, error) {
	currencies := make([]core.Currency, 0, len(data))
	for _, c := range data {
		payoutFee, err := parseOptionalDecimal("payoutFee", c.PayoutFee)
		if err != nil {
			return nil, fmt.Errorf("currency %s: %w", c.ID, err)
		}
		payoutMin, err := parseOptionalDecimal("payoutMinimalAmount", c.PayoutMinimalAmount)
		if err != nil {
			return nil, fmt.Errorf("currency %s: %w", c.ID, err)
		}
		currencies = append(currencies, core.Currency{
			ID:                  n.table.Parse(c.ID),
			FullName:            c.FullName,
			Crypto:              c.Crypto,
			PayinEnabled:        c.PayinEnabled,
			PayinPaymentID:      c.PayinPaymentID,
			PayinConfirmations:  c.PayinConfirmations,
			PayoutEnabled:       c.PayoutEnabled,
			PayoutIsPaymentID:   c.PayoutIsPaymentID,
			TransferEnabled:     c.TransferEnabled,
			Delisted:            c.Delisted,
			PayoutFee:           payoutFee,
			PayoutMinimalAmount: payoutMin,
			PrecisionPayout:     c.PrecisionPayout,
			PrecisionTransfer:   c.PrecisionTransfer,
		})
	}
	return currencies, nil
}

// NormalizeTradingFee converts a fee response.
func (n *Normalizer) NormalizeTradingFee(data *hitbtcTradingFee) (*core.TradingFee, error) {
	take, err := parseDecimal("takeLiquidityRate", data.TakeLiquidityRate)
	if err != nil {
		return nil, err
	}
	provide, err := parseDecimal("provideLiquidityRate", data.ProvideLiquidityRate)
	if err != nil {
		return nil, err
	}
	return &core.TradingFee{TakeLiquidityRate: take, ProvideLiquidityRate: provide}, nil
}

// NormalizeOrderBook converts one book. symbolID is used when the payload
// does not carry its own symbol.
func (n *Normalizer) NormalizeOrderBook(data *hitbtcOrderBook, symbolID string) (*core.OrderBook, error) {
	if data.Symbol != "" {
		symbolID = data.Symbol
	}

	asks, err := normalizeLevels(data.Ask)
	if err != nil {
		return nil, fmt.Errorf("asks: %w", err)
	}
	bids, err := normalizeLevels(data.Bid)
	if err != nil {
		return nil, fmt.Errorf("bids: %w", err)
	}

	ob := &core.OrderBook{
		Symbol: symbolID,
		Asks:   asks,
		Bids:   bids,
	}
	if data.Timestamp != "" {
		if ob.Timestamp, err = parseTime("timestamp", data.Timestamp); err != nil {
			return nil, err
		}
	}
	if ob.AskAveragePrice, err = parseOptionalDecimal("askAveragePrice", data.AskAveragePrice); err != nil {
		return nil, err
	}
	if ob.BidAveragePrice, err = parseOptionalDecimal("bidAveragePrice", data.BidAveragePrice); err != nil {
		return nil, err
	}
	return ob, nil
}

// NormalizeOrderBooks converts the multi-symbol book map keyed by market id.
func (n *Normalizer) NormalizeOrderBooks(data map[string]hitbtcOrderBook) (core.OrderBooks, error) {
	books := make(core.OrderBooks, len(data))
	for id, raw := range data {
		ob, err := n.NormalizeOrderBook(&raw, id)
		if err != nil {
			return nil, fmt.Errorf("order book %s: %w", id, err)
		}
		books[id] = ob
	}
	return books, nil
}

// DenormalizeCreateOrder converts an order command into the request body.
// Unset optional fields stay empty and are omitted from the JSON.
func (n *Normalizer) DenormalizeCreateOrder(cmd *core.CreateOrder) *hitbtcCreateOrder {
	body := &hitbtcCreateOrder{
		ClientOrderID:  cmd.ClientOrderID,
		Symbol:         n.table.SymbolCode(cmd.Symbol),
		Side:           cmd.Side,
		Type:           cmd.Type,
		TimeInForce:    cmd.TimeInForce,
		Quantity:       formatDecimal(&cmd.Quantity),
		StrictValidate: cmd.StrictValidate,
		PostOnly:       cmd.PostOnly,
	}
	if cmd.Price != nil {
		body.Price = formatDecimal(cmd.Price)
	}
	if cmd.StopPrice != nil {
		body.StopPrice = formatDecimal(cmd.StopPrice)
	}
	if cmd.ExpireTime != nil {
		body.ExpireTime = cmd.ExpireTime.UTC().Format(time.RFC3339)
	}
	return body
}

func normalizeLevels(data []hitbtcPriceLevel) ([]core.OrderBookLevel, error) {
	levels := make([]core.OrderBookLevel, 0, len(data))
	for _, l := range data {
		price, err := parseDecimal("price", l.Price)
		if err != nil {
			return nil, err
		}
		size, err := parseDecimal("size", l.Size)
		if err != nil {
			return nil, err
		}
		levels = append(levels, core.OrderBookLevel{Price: price, Size: size})
	}
	return levels, nil
}

func parseDecimal(field, s string) (apd.Decimal, error) {
	var d apd.Decimal
	if _, _, err := d.SetString(s); err != nil {
		return d, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return d, nil
}

func parseOptionalDecimal(field string, s *string) (*apd.Decimal, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := parseDecimal(field, *s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseTime(field, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return t, nil
}

// formatDecimal renders d as a plain decimal string without exponent.
func formatDecimal(d *apd.Decimal) string {
	return d.Text('f')
}
