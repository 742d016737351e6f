package store

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/model"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()

	bolt, err := OpenBolt(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = bolt.Close() })

	return map[string]Backend{
		"memory": NewMemory(),
		"bolt":   bolt,
	}
}

func bar(ts int64, close float64) model.Candle {
	return model.Candle{Time: ts, Open: close - 1, High: close + 1, Low: close - 2, Close: close, Volume: 10, Trades: 3}
}

func TestCandleRangeScan(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ts := NewTimeSeries(model.ModeBacktest, db)

			require.NoError(t, ts.SaveCandles("BTCUSDT", model.Interval1m, []model.Candle{
				bar(1000, 100), bar(2000, 200),
			}))

			got, err := ts.Candles("BTCUSDT", model.Interval1m, 500, 1500)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, int64(1000), got[0].Time)

			c, ok, err := ts.Candle("BTCUSDT", model.Interval1m, 2000)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, bar(2000, 200), c)

			_, ok, err = ts.Candle("BTCUSDT", model.Interval1m, 3000)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestCandlesAscendingAndLastWriteWins(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ts := NewTimeSeries(model.ModeBacktest, db)

			require.NoError(t, ts.SaveCandles("ETHUSDT", model.Interval5m, []model.Candle{
				bar(3000, 30), bar(1000, 10), bar(2000, 20),
			}))
			require.NoError(t, ts.SaveCandles("ETHUSDT", model.Interval5m, []model.Candle{
				bar(2000, 99),
			}))

			got, err := ts.Candles("ETHUSDT", model.Interval5m, 0, 10_000)
			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.Equal(t, int64(1000), got[0].Time)
			assert.Equal(t, int64(2000), got[1].Time)
			assert.Equal(t, int64(3000), got[2].Time)
			assert.Equal(t, 99.0, got[1].Close, "duplicate time resolves to last write")
		})
	}
}

func TestUnwrittenNamespaceIsEmptyNotError(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ts := NewTimeSeries(model.ModeBacktest, db)

			_, ok, err := ts.Candle("NEVER", model.Interval1m, 1000)
			require.NoError(t, err)
			assert.False(t, ok)

			got, err := ts.Candles("NEVER", model.Interval1m, 0, 10_000)
			require.NoError(t, err)
			assert.Empty(t, got)

			_, ok, err = ts.ReplayCursor("NEVER", model.Interval1m)
			require.NoError(t, err)
			assert.False(t, ok)

			orders, err := ts.Orders("NEVER", 0, 10_000)
			require.NoError(t, err)
			assert.Empty(t, orders)
		})
	}
}

func TestReplayCursor(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ts := NewTimeSeries(model.ModeBacktest, db)

			require.NoError(t, ts.SaveReplayCursor("BTCUSDT", model.Interval1h, 1_700_000_000_000))
			require.NoError(t, ts.SaveReplayCursor("BTCUSDT", model.Interval1h, 1_700_003_600_000))

			got, ok, err := ts.ReplayCursor("BTCUSDT", model.Interval1h)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, int64(1_700_003_600_000), got)

			// Interval is part of the key.
			_, ok, err = ts.ReplayCursor("BTCUSDT", model.Interval1m)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestOrderJournal(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ts := NewTimeSeries(model.ModeBacktest, db)

			orders := []model.Order{
				{Symbol: "BTCUSDT", ID: model.NewOrderID(), Time: 2000, Size: decimal.RequireFromString("0.5"), Status: model.StatusCompleted},
				{Symbol: "BTCUSDT", ID: model.NewOrderID(), Time: 1000, Size: decimal.RequireFromString("1.25"), Status: model.StatusCanceled},
				{Symbol: "BTCUSDT", ID: model.NewOrderID(), Time: 3000, Size: decimal.RequireFromString("2"), Status: model.StatusPending},
			}
			require.NoError(t, ts.SaveOrders("BTCUSDT", orders))

			got, err := ts.Orders("BTCUSDT", 1000, 2000)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, int64(1000), got[0].Time)
			assert.Equal(t, int64(2000), got[1].Time)
			assert.True(t, got[0].Size.Equal(decimal.RequireFromString("1.25")))
			assert.Equal(t, orders[1].ID, got[0].ID)
		})
	}
}

func TestModeNamespaceIsolation(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			back := NewTimeSeries(model.ModeBacktest, db)
			sand := NewTimeSeries(model.ModeSandbox, db)

			require.NoError(t, back.SaveCandles("BTCUSDT", model.Interval1m, []model.Candle{bar(1000, 1)}))

			got, err := sand.Candles("BTCUSDT", model.Interval1m, 0, 10_000)
			require.NoError(t, err)
			assert.Empty(t, got, "sandbox must not see backtest data")
		})
	}
}

func TestBoltPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")

	db, err := OpenBolt(path)
	require.NoError(t, err)
	ts := NewTimeSeries(model.ModeBacktest, db)
	require.NoError(t, ts.SaveCandles("BTCUSDT", model.Interval1m, []model.Candle{bar(1000, 42)}))
	require.NoError(t, ts.Close())

	db, err = OpenBolt(path)
	require.NoError(t, err)
	ts = NewTimeSeries(model.ModeBacktest, db)
	defer func() { _ = ts.Close() }()

	c, ok, err := ts.Candle("BTCUSDT", model.Interval1m, 1000)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 42.0, c.Close)
}
