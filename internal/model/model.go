package model

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientCash = errors.New("insufficient available cash")
	ErrInsufficientSize = errors.New("insufficient available size")
	ErrNegativeMargin   = errors.New("margin must not go negative")
)

// Account is the cash ledger. AvailableCash is always Cash minus Margin;
// mutate it only through the methods below so the identity holds.
type Account struct {
	Cash          decimal.Decimal
	AvailableCash decimal.Decimal
	Margin        decimal.Decimal
	Pnl           decimal.Decimal
}

// Deposit adds cash to the ledger. Negative amounts withdraw.
func (a *Account) Deposit(amount decimal.Decimal) error {
	cash := a.Cash.Add(amount)
	if cash.Sub(a.Margin).IsNegative() {
		return ErrInsufficientCash
	}
	a.Cash = cash
	a.AvailableCash = cash.Sub(a.Margin)
	return nil
}

// ReserveMargin moves available cash into reserved margin.
func (a *Account) ReserveMargin(amount decimal.Decimal) error {
	margin := a.Margin.Add(amount)
	if margin.IsNegative() {
		return ErrNegativeMargin
	}
	if a.Cash.Sub(margin).IsNegative() {
		return ErrInsufficientCash
	}
	a.Margin = margin
	a.AvailableCash = a.Cash.Sub(margin)
	return nil
}

// ReleaseMargin returns reserved margin to available cash.
func (a *Account) ReleaseMargin(amount decimal.Decimal) error {
	return a.ReserveMargin(amount.Neg())
}

// Position is one side of a pair's exposure.
type Position struct {
	Size          decimal.Decimal
	AvailableSize decimal.Decimal
	Price         decimal.Decimal
	Margin        decimal.Decimal
	Pnl           decimal.Decimal
}

// LockSize removes quantity from AvailableSize, e.g. when a reduce-only
// order claims it.
func (p *Position) LockSize(qty decimal.Decimal) error {
	avail := p.AvailableSize.Sub(qty)
	if avail.IsNegative() {
		return ErrInsufficientSize
	}
	p.AvailableSize = avail
	return nil
}

// UnlockSize returns previously locked quantity, capped at Size.
func (p *Position) UnlockSize(qty decimal.Decimal) {
	avail := p.AvailableSize.Add(qty)
	if avail.GreaterThan(p.Size) {
		avail = p.Size
	}
	p.AvailableSize = avail
}

// Order is a single order as the engine sees it. Matching and settlement
// happen outside the core; the core only stores and transitions it.
type Order struct {
	Symbol      string
	ID          string
	Kind        OrderKind
	Side        Side
	Reduce      bool
	Leverage    decimal.Decimal
	Size        decimal.Decimal
	Price       decimal.Decimal
	Time        int64
	Margin      decimal.Decimal
	DealSize    decimal.Decimal
	DealPrice   decimal.Decimal
	DealAverage decimal.Decimal
	DealFee     decimal.Decimal
	Status      OrderStatus
}

// Advance moves the order to the next status, enforcing the forward-only
// lifecycle.
func (o *Order) Advance(next OrderStatus) error {
	if !o.Status.CanTransition(next) {
		return errors.Wrapf(ErrInvalidTransition, "%s -> %s", o.Status, next)
	}
	o.Status = next
	return nil
}

// NewOrderID returns an opaque random order token.
func NewOrderID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Pair is the per-symbol trading context: leverage, mark price, one long and
// one short position, and the live order book keyed by order id.
type Pair struct {
	Leverage  decimal.Decimal
	Margin    decimal.Decimal
	MarkPrice decimal.Decimal
	Long      Position
	Short     Position
	Orders    map[string]*Order
}

// NewPair returns an empty pair with the given leverage.
func NewPair(leverage decimal.Decimal) *Pair {
	return &Pair{
		Leverage: leverage,
		Orders:   make(map[string]*Order),
	}
}

// Position returns the position for one side.
func (p *Pair) Position(side Side) *Position {
	if side == SideShort {
		return &p.Short
	}
	return &p.Long
}

// PutOrder inserts or replaces an order in the book.
func (p *Pair) PutOrder(o *Order) {
	if p.Orders == nil {
		p.Orders = make(map[string]*Order)
	}
	p.Orders[o.ID] = o
}

// PurgeOrder removes an order from the book.
func (p *Pair) PurgeOrder(id string) {
	delete(p.Orders, id)
}

// OpenOrders returns the orders still in a non-terminal status, sorted by
// creation time then id for a stable result.
func (p *Pair) OpenOrders() []Order {
	out := make([]Order, 0, len(p.Orders))
	for _, o := range p.Orders {
		if o.Status.Open() {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// OrderIDs returns every order id in the book, sorted.
func (p *Pair) OrderIDs() []string {
	ids := make([]string, 0, len(p.Orders))
	for id := range p.Orders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Candle is one immutable price bar. Time is the period-open epoch in
// milliseconds and the primary key within a namespace.
type Candle struct {
	Time        int64
	Open        float64
	High        float64
	Low         float64
	Close       float64
	Volume      float64
	Amount      float64
	TakerVolume float64
	TakerAmount float64
	Trades      int64
}

// Context is the engine's whole mutable state. Every field is guarded by the
// engine's single lock; nothing in here is independently lockable.
type Context struct {
	Running   bool
	TradeTime int64
	Benchmark string
	Account   Account
	Pairs     map[string]*Pair
}

// NewContext returns a zeroed context.
func NewContext() *Context {
	return &Context{Pairs: make(map[string]*Pair)}
}

// Pair returns the pair for symbol, creating an empty one on first use.
func (c *Context) Pair(symbol string) *Pair {
	p, ok := c.Pairs[symbol]
	if !ok {
		p = NewPair(decimal.NewFromInt(1))
		c.Pairs[symbol] = p
	}
	return p
}

// Symbols returns the known symbols, sorted.
func (c *Context) Symbols() []string {
	out := make([]string, 0, len(c.Pairs))
	for s := range c.Pairs {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
