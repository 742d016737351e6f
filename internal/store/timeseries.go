package store

import (
	"fmt"
	"sync"

	"tradecore/internal/codec"
	"tradecore/internal/model"
)

// TimeSeries is the storage surface the engine exposes. One instance exists
// per engine, scoped to a run mode so backtest, sandbox and real data never
// share a namespace.
//
// Readers share the lock; writers (including lazy namespace creation inside
// the backend) are exclusive, so no reader can observe a half-created
// namespace.
type TimeSeries struct {
	mu   sync.RWMutex
	mode model.Mode
	db   Backend
}

// NewTimeSeries wraps a backend for the given run mode.
func NewTimeSeries(mode model.Mode, db Backend) *TimeSeries {
	return &TimeSeries{mode: mode, db: db}
}

func (t *TimeSeries) candleNS(symbol string, interval model.Interval) string {
	return fmt.Sprintf("candle:%s:%s:%s", t.mode, symbol, interval)
}

func (t *TimeSeries) cursorNS() string {
	return fmt.Sprintf("cursor:%s", t.mode)
}

func (t *TimeSeries) orderNS(symbol string) string {
	return fmt.Sprintf("order:%s:%s", t.mode, symbol)
}

// Candle looks up a single bar by period-open time. The second return is
// false when the bar, or its whole namespace, does not exist.
func (t *TimeSeries) Candle(symbol string, interval model.Interval, ts int64) (model.Candle, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	raw, err := t.db.Get(t.candleNS(symbol, interval), codec.EncodeTime(ts))
	if err != nil {
		return model.Candle{}, false, wrapStorage(err, "get candle %s %s %d", symbol, interval, ts)
	}
	if raw == nil {
		return model.Candle{}, false, nil
	}
	c, err := codec.DecodeCandle(raw)
	if err != nil {
		return model.Candle{}, false, err
	}
	return c, true, nil
}

// Candles scans bars with begin <= time <= end, ascending. An unwritten
// namespace or empty range yields an empty slice.
func (t *TimeSeries) Candles(symbol string, interval model.Interval, begin, end int64) ([]model.Candle, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entries, err := t.db.GetRange(t.candleNS(symbol, interval), codec.EncodeTime(begin), codec.EncodeTime(end))
	if err != nil {
		return nil, wrapStorage(err, "scan candles %s %s [%d,%d]", symbol, interval, begin, end)
	}
	out := make([]model.Candle, 0, len(entries))
	for _, e := range entries {
		c, err := codec.DecodeCandle(e.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// SaveCandles upserts a batch of bars atomically, creating the namespace on
// first write. A bar with an already-stored time overwrites it.
func (t *TimeSeries) SaveCandles(symbol string, interval model.Interval, candles []model.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	entries := make([]KV, 0, len(candles))
	for _, c := range candles {
		entries = append(entries, KV{
			Key:   codec.EncodeTime(c.Time),
			Value: codec.EncodeCandle(nil, c),
		})
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.db.BatchSet(t.candleNS(symbol, interval), entries); err != nil {
		return wrapStorage(err, "save %d candles %s %s", len(candles), symbol, interval)
	}
	return nil
}

// ReplayCursor returns the last-confirmed-available timestamp for a
// (symbol, interval) backtest window, or false when none was ever saved.
func (t *TimeSeries) ReplayCursor(symbol string, interval model.Interval) (int64, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	raw, err := t.db.Get(t.cursorNS(), codec.EncodeCursorKey(symbol, string(interval)))
	if err != nil {
		return 0, false, wrapStorage(err, "get cursor %s %s", symbol, interval)
	}
	if raw == nil {
		return 0, false, nil
	}
	v, err := codec.DecodeInt64(raw)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// SaveReplayCursor records the last-confirmed-available timestamp.
func (t *TimeSeries) SaveReplayCursor(symbol string, interval model.Interval, ts int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := KV{
		Key:   codec.EncodeCursorKey(symbol, string(interval)),
		Value: codec.EncodeInt64(ts),
	}
	if err := t.db.BatchSet(t.cursorNS(), []KV{entry}); err != nil {
		return wrapStorage(err, "save cursor %s %s", symbol, interval)
	}
	return nil
}

// SaveOrders journals a batch of orders atomically, keyed by (time, id).
func (t *TimeSeries) SaveOrders(symbol string, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	entries := make([]KV, 0, len(orders))
	for _, o := range orders {
		entries = append(entries, KV{
			Key:   codec.EncodeOrderKey(o.Time, o.ID),
			Value: codec.EncodeOrder(nil, o),
		})
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.db.BatchSet(t.orderNS(symbol), entries); err != nil {
		return wrapStorage(err, "save %d orders %s", len(orders), symbol)
	}
	return nil
}

// Orders scans the journal for orders with begin <= time <= end, ascending
// by time then id.
func (t *TimeSeries) Orders(symbol string, begin, end int64) ([]model.Order, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	// End keys sort before any (end, id) entry, so pad the upper bound past
	// every id suffix.
	upper := append(codec.EncodeTime(end), 0xff)
	entries, err := t.db.GetRange(t.orderNS(symbol), codec.EncodeTime(begin), upper)
	if err != nil {
		return nil, wrapStorage(err, "scan orders %s [%d,%d]", symbol, begin, end)
	}
	out := make([]model.Order, 0, len(entries))
	for _, e := range entries {
		o, err := codec.DecodeOrder(e.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

// Close releases the backend.
func (t *TimeSeries) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.db.Close(); err != nil {
		return wrapStorage(err, "close")
	}
	return nil
}
