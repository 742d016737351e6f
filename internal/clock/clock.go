// Package clock drives the lifecycle callbacks across an advancing trade
// time. For every tick the hooks fire in a fixed order, with begin/end pairs
// only at actual UTC period boundaries.
package clock

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"tradecore/internal/strategy"
)

// Sink receives the trade time before each tick's hooks run. The engine
// implements it; the clock never touches engine state directly.
type Sink interface {
	SetTradeTime(ts int64)
}

// Config tunes one replay run.
type Config struct {
	// Step is the simulated time between ticks. Defaults to one minute.
	Step time.Duration
	// Policy decides whether a failing hook aborts the tick.
	Policy strategy.Policy
	// Logger receives hook failures under PolicyContinue. Defaults to the
	// logrus standard logger.
	Logger *logrus.Logger
}

func (c Config) withDefaults() Config {
	if c.Step <= 0 {
		c.Step = time.Minute
	}
	if c.Logger == nil {
		c.Logger = logrus.StandardLogger()
	}
	return c
}

// Clock steps trade time over a window and dispatches the tick hooks.
type Clock struct {
	cfg  Config
	cb   *strategy.Callbacks
	sink Sink
}

// New builds a clock for one callback set and sink.
func New(cfg Config, cb *strategy.Callbacks, sink Sink) *Clock {
	return &Clock{cfg: cfg.withDefaults(), cb: cb, sink: sink}
}

// Run replays [begin, end] in epoch milliseconds, inclusive, one step at a
// time. Per tick the order is day/hour/minute begins, tick, then
// minute/hour/day ends; a begin fires on entering a new period and an end
// fires on the last tick inside one. Cancelling ctx stops between ticks.
func (c *Clock) Run(ctx context.Context, begin, end int64) error {
	if begin > end {
		return nil
	}

	step := c.cfg.Step.Milliseconds()
	prev := time.Time{}

	for ts := begin; ts <= end; ts += step {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		now := time.UnixMilli(ts).UTC()
		c.sink.SetTradeTime(ts)

		first := prev.IsZero()
		if first || dayOf(now) != dayOf(prev) {
			if err := c.dispatch(strategy.HookDayBegin); err != nil {
				return err
			}
		}
		if first || hourOf(now) != hourOf(prev) {
			if err := c.dispatch(strategy.HookHourBegin); err != nil {
				return err
			}
		}
		if first || minuteOf(now) != minuteOf(prev) {
			if err := c.dispatch(strategy.HookMinuteBegin); err != nil {
				return err
			}
		}

		if err := c.dispatch(strategy.HookTick); err != nil {
			return err
		}

		last := ts+step > end
		next := time.UnixMilli(ts + step).UTC()
		if last || minuteOf(next) != minuteOf(now) {
			if err := c.dispatch(strategy.HookMinuteEnd); err != nil {
				return err
			}
		}
		if last || hourOf(next) != hourOf(now) {
			if err := c.dispatch(strategy.HookHourEnd); err != nil {
				return err
			}
		}
		if last || dayOf(next) != dayOf(now) {
			if err := c.dispatch(strategy.HookDayEnd); err != nil {
				return err
			}
		}

		prev = now
	}
	return nil
}

func (c *Clock) dispatch(hook string) error {
	err := c.cb.Invoke(hook)
	if err == nil {
		return nil
	}
	if c.cfg.Policy == strategy.PolicyContinue {
		c.cfg.Logger.WithError(err).Warnf("hook %s failed, continuing", hook)
		return nil
	}
	return err
}

func dayOf(t time.Time) time.Time    { return t.Truncate(24 * time.Hour) }
func hourOf(t time.Time) time.Time   { return t.Truncate(time.Hour) }
func minuteOf(t time.Time) time.Time { return t.Truncate(time.Minute) }
