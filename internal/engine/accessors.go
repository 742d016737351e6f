package engine

import (
	"github.com/shopspring/decimal"

	"tradecore/internal/model"
)

// Read accessors. Each one takes the lock, copies the requested value out
// and releases before returning, so callers always see a point-in-time
// snapshot and never a torn cross-field state. Unknown symbols read as zero
// values rather than errors; a strategy probing a symbol it never traded is
// not a fault.

// Running reports whether the engine is between a successful Start and Stop.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state == stateRunning && e.ctx.Running
}

// TradeTime returns the current clock value in epoch milliseconds.
func (e *Engine) TradeTime() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctx == nil {
		return 0
	}
	return e.ctx.TradeTime
}

// Benchmark returns the benchmark label.
func (e *Engine) Benchmark() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctx == nil {
		return ""
	}
	return e.ctx.Benchmark
}

// Symbols returns the sorted list of known symbols.
func (e *Engine) Symbols() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctx == nil {
		return nil
	}
	return e.ctx.Symbols()
}

// AccountCash returns the account's total cash.
func (e *Engine) AccountCash() decimal.Decimal {
	return e.accountField(func(a *model.Account) decimal.Decimal { return a.Cash })
}

// AccountAvailableCash returns cash not reserved as margin.
func (e *Engine) AccountAvailableCash() decimal.Decimal {
	return e.accountField(func(a *model.Account) decimal.Decimal { return a.AvailableCash })
}

// AccountMargin returns the total reserved margin.
func (e *Engine) AccountMargin() decimal.Decimal {
	return e.accountField(func(a *model.Account) decimal.Decimal { return a.Margin })
}

// AccountPnl returns the unrealized profit and loss.
func (e *Engine) AccountPnl() decimal.Decimal {
	return e.accountField(func(a *model.Account) decimal.Decimal { return a.Pnl })
}

func (e *Engine) accountField(get func(*model.Account) decimal.Decimal) decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctx == nil {
		return decimal.Zero
	}
	return get(&e.ctx.Account)
}

// PositionSize returns the held size for one side of a symbol.
func (e *Engine) PositionSize(symbol string, side model.Side) decimal.Decimal {
	return e.positionField(symbol, side, func(p *model.Position) decimal.Decimal { return p.Size })
}

// PositionAvailableSize returns the size not locked by reduce-only orders.
func (e *Engine) PositionAvailableSize(symbol string, side model.Side) decimal.Decimal {
	return e.positionField(symbol, side, func(p *model.Position) decimal.Decimal { return p.AvailableSize })
}

// PositionPrice returns the volume-weighted average entry price.
func (e *Engine) PositionPrice(symbol string, side model.Side) decimal.Decimal {
	return e.positionField(symbol, side, func(p *model.Position) decimal.Decimal { return p.Price })
}

// PositionMargin returns the margin reserved by one side.
func (e *Engine) PositionMargin(symbol string, side model.Side) decimal.Decimal {
	return e.positionField(symbol, side, func(p *model.Position) decimal.Decimal { return p.Margin })
}

// PositionPnl returns the unrealized profit and loss of one side.
func (e *Engine) PositionPnl(symbol string, side model.Side) decimal.Decimal {
	return e.positionField(symbol, side, func(p *model.Position) decimal.Decimal { return p.Pnl })
}

func (e *Engine) positionField(symbol string, side model.Side, get func(*model.Position) decimal.Decimal) decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctx == nil {
		return decimal.Zero
	}
	pair, ok := e.ctx.Pairs[symbol]
	if !ok {
		return decimal.Zero
	}
	return get(pair.Position(side))
}

// PairLeverage returns the symbol's leverage.
func (e *Engine) PairLeverage(symbol string) decimal.Decimal {
	return e.pairField(symbol, func(p *model.Pair) decimal.Decimal { return p.Leverage })
}

// PairMargin returns the symbol-level margin.
func (e *Engine) PairMargin(symbol string) decimal.Decimal {
	return e.pairField(symbol, func(p *model.Pair) decimal.Decimal { return p.Margin })
}

// PairMarkPrice returns the symbol's mark price.
func (e *Engine) PairMarkPrice(symbol string) decimal.Decimal {
	return e.pairField(symbol, func(p *model.Pair) decimal.Decimal { return p.MarkPrice })
}

func (e *Engine) pairField(symbol string, get func(*model.Pair) decimal.Decimal) decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctx == nil {
		return decimal.Zero
	}
	pair, ok := e.ctx.Pairs[symbol]
	if !ok {
		return decimal.Zero
	}
	return get(pair)
}

// Order returns a copy of one order by (symbol, id).
func (e *Engine) Order(symbol, id string) (model.Order, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctx == nil {
		return model.Order{}, false
	}
	pair, ok := e.ctx.Pairs[symbol]
	if !ok {
		return model.Order{}, false
	}
	o, ok := pair.Orders[id]
	if !ok {
		return model.Order{}, false
	}
	return *o, true
}

// OpenOrders returns copies of the symbol's orders in a non-terminal status.
func (e *Engine) OpenOrders(symbol string) []model.Order {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctx == nil {
		return nil
	}
	pair, ok := e.ctx.Pairs[symbol]
	if !ok {
		return nil
	}
	return pair.OpenOrders()
}

// OrderIDs returns every order id known for the symbol, sorted.
func (e *Engine) OrderIDs(symbol string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctx == nil {
		return nil
	}
	pair, ok := e.ctx.Pairs[symbol]
	if !ok {
		return nil
	}
	return pair.OrderIDs()
}
