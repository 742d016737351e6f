package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAccountInvariantAfterMutations(t *testing.T) {
	var a Account
	require.NoError(t, a.Deposit(dec("1000")))
	require.NoError(t, a.ReserveMargin(dec("300")))
	require.NoError(t, a.ReserveMargin(dec("150.5")))
	require.NoError(t, a.ReleaseMargin(dec("50.5")))
	require.NoError(t, a.Deposit(dec("-100")))

	assert.True(t, a.AvailableCash.Equal(a.Cash.Sub(a.Margin)),
		"available %s cash %s margin %s", a.AvailableCash, a.Cash, a.Margin)
	assert.True(t, a.Margin.Equal(dec("400")))
	assert.True(t, a.Cash.Equal(dec("900")))
	assert.False(t, a.Margin.IsNegative())
}

func TestAccountRejectsOverdraft(t *testing.T) {
	var a Account
	require.NoError(t, a.Deposit(dec("100")))

	assert.ErrorIs(t, a.ReserveMargin(dec("100.01")), ErrInsufficientCash)
	assert.ErrorIs(t, a.ReleaseMargin(dec("1")), ErrNegativeMargin)
	assert.ErrorIs(t, a.Deposit(dec("-200")), ErrInsufficientCash)

	// Failed mutations must leave the ledger untouched.
	assert.True(t, a.Cash.Equal(dec("100")))
	assert.True(t, a.Margin.IsZero())
	assert.True(t, a.AvailableCash.Equal(dec("100")))
}

func TestPositionLockUnlock(t *testing.T) {
	p := Position{Size: dec("10"), AvailableSize: dec("10")}

	require.NoError(t, p.LockSize(dec("4")))
	assert.True(t, p.AvailableSize.Equal(dec("6")))

	assert.ErrorIs(t, p.LockSize(dec("7")), ErrInsufficientSize)
	assert.True(t, p.AvailableSize.Equal(dec("6")))

	p.UnlockSize(dec("100"))
	assert.True(t, p.AvailableSize.Equal(p.Size), "unlock caps at size")
	assert.True(t, p.AvailableSize.LessThanOrEqual(p.Size))
}

func TestOrderStatusForwardOnly(t *testing.T) {
	o := Order{Status: StatusCreated}
	require.NoError(t, o.Advance(StatusSubmitted))
	require.NoError(t, o.Advance(StatusPending))
	require.NoError(t, o.Advance(StatusPartial))
	require.NoError(t, o.Advance(StatusPartial), "repeated partial fills stay partial")
	require.NoError(t, o.Advance(StatusCompleted))

	assert.ErrorIs(t, o.Advance(StatusCanceled), ErrInvalidTransition, "terminal is final")
}

func TestOrderStatusRejectsBackward(t *testing.T) {
	o := Order{Status: StatusPending}
	assert.ErrorIs(t, o.Advance(StatusSubmitted), ErrInvalidTransition)
	assert.ErrorIs(t, o.Advance(StatusCreated), ErrInvalidTransition)
	assert.ErrorIs(t, o.Advance(StatusPending), ErrInvalidTransition, "no same-state step outside partial")
	assert.Equal(t, StatusPending, o.Status)
}

func TestOrderStatusForwardSkips(t *testing.T) {
	o := Order{Status: StatusCreated}
	require.NoError(t, o.Advance(StatusRejected), "created may be rejected outright")

	o = Order{Status: StatusSubmitted}
	require.NoError(t, o.Advance(StatusCanceled))

	for _, s := range []OrderStatus{StatusCompleted, StatusRejected, StatusCanceled} {
		o := Order{Status: s}
		for _, next := range []OrderStatus{StatusCreated, StatusSubmitted, StatusPending, StatusPartial, StatusCompleted, StatusRejected, StatusCanceled} {
			assert.Errorf(t, o.Advance(next), "%s -> %s must fail", s, next)
		}
	}
}

func TestPairOpenOrders(t *testing.T) {
	pair := NewPair(dec("10"))
	statuses := []OrderStatus{
		StatusCreated, StatusSubmitted, StatusPending, StatusPartial,
		StatusCompleted, StatusRejected, StatusCanceled,
	}
	for i, s := range statuses {
		pair.PutOrder(&Order{
			Symbol: "BTCUSDT",
			ID:     NewOrderID(),
			Time:   int64(1000 + i),
			Status: s,
		})
	}

	open := pair.OpenOrders()
	require.Len(t, open, 4)
	for i, o := range open {
		assert.True(t, o.Status.Open())
		if i > 0 {
			assert.LessOrEqual(t, open[i-1].Time, o.Time, "sorted by time")
		}
	}

	assert.Len(t, pair.OrderIDs(), len(statuses))
}

func TestPairPurgeOrder(t *testing.T) {
	pair := NewPair(dec("5"))
	o := &Order{ID: NewOrderID(), Status: StatusCreated}
	pair.PutOrder(o)
	require.Len(t, pair.OrderIDs(), 1)

	pair.PurgeOrder(o.ID)
	assert.Empty(t, pair.OrderIDs())
	assert.Empty(t, pair.OpenOrders())
}

func TestNewOrderID(t *testing.T) {
	a, b := NewOrderID(), NewOrderID()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "-")
}

func TestContextPairLazyCreate(t *testing.T) {
	ctx := NewContext()
	assert.Empty(t, ctx.Symbols())

	ctx.Pair("ETHUSDT")
	ctx.Pair("BTCUSDT")
	ctx.Pair("BTCUSDT")
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, ctx.Symbols())
	assert.True(t, ctx.Pair("BTCUSDT").Leverage.Equal(dec("1")), "default leverage")
}

func TestIntervalDuration(t *testing.T) {
	assert.Equal(t, int64(60_000), Interval1m.Duration().Milliseconds())
	assert.Equal(t, int64(3_600_000), Interval1h.Duration().Milliseconds())
	assert.Equal(t, int64(86_400_000), Interval1d.Duration().Milliseconds())
	assert.Zero(t, Interval("bogus").Duration())
}
