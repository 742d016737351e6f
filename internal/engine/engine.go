// Package engine owns the trading state: the account ledger, per-symbol
// pairs and the open-order book, behind one exclusive lock, plus the
// start/stop lifecycle around the strategy callbacks.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"tradecore/internal/clock"
	"tradecore/internal/model"
	"tradecore/internal/store"
	"tradecore/internal/strategy"
)

var (
	ErrAlreadyInitialized = errors.New("engine: already started")
	ErrNotRunning         = errors.New("engine: not running")
	ErrStopped            = errors.New("engine: stopped, create a new engine")
	ErrNoBackend          = errors.New("engine: storage backend is required")
)

type lifecycleState uint8

const (
	stateNew lifecycleState = iota
	stateRunning
	stateStopped
)

// Config assembles one engine.
type Config struct {
	Mode      model.Mode
	Benchmark string
	Callbacks *strategy.Callbacks
	// Backend is the opened storage backend; the engine scopes it to Mode.
	Backend store.Backend
	// Policy decides what a tick does with a failing hook.
	Policy strategy.Policy
	// Step is the simulated time between ticks in Run. Defaults to a minute.
	Step   time.Duration
	Logger *logrus.Logger
}

// Engine is an explicit handle; tests may hold several. At most one
// successful Start per handle, enforced by the lifecycle guard.
type Engine struct {
	mu    sync.Mutex
	cfg   Config
	state lifecycleState
	ctx   *model.Context
	ts    *store.TimeSeries
	log   *logrus.Logger
}

// New builds an engine. Nothing opens or runs until Start.
func New(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Engine{cfg: cfg, log: log}
}

// Start opens storage, installs a fresh zeroed context and invokes OnInit.
// A missing OnInit hook fails before any state changes; an OnInit failure
// leaves the engine unusable with storage closed. A second Start fails with
// ErrAlreadyInitialized and leaves the first instance intact.
func (e *Engine) Start() error {
	if err := e.cfg.Callbacks.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	switch e.state {
	case stateRunning:
		e.mu.Unlock()
		return ErrAlreadyInitialized
	case stateStopped:
		e.mu.Unlock()
		return ErrStopped
	}
	if e.cfg.Backend == nil {
		e.mu.Unlock()
		return ErrNoBackend
	}
	e.ts = store.NewTimeSeries(e.cfg.Mode, e.cfg.Backend)
	e.ctx = model.NewContext()
	e.ctx.Benchmark = e.cfg.Benchmark
	e.state = stateRunning
	e.mu.Unlock()

	// Hooks run without the lock; they re-enter through the accessors.
	if err := e.cfg.Callbacks.Invoke(strategy.HookInit); err != nil {
		e.mu.Lock()
		e.state = stateStopped
		e.ctx = nil
		ts := e.ts
		e.ts = nil
		e.mu.Unlock()
		if ts != nil {
			if cerr := ts.Close(); cerr != nil {
				e.log.WithError(cerr).Error("close storage after failed init")
			}
		}
		return err
	}

	e.mu.Lock()
	e.ctx.Running = true
	e.mu.Unlock()
	return nil
}

// Stop fires OnStop once, marks the engine stopped and closes storage. The
// hook failure, if any, wins over a close failure.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if e.state != stateRunning {
		e.mu.Unlock()
		return ErrNotRunning
	}
	e.ctx.Running = false
	e.mu.Unlock()

	hookErr := e.cfg.Callbacks.Invoke(strategy.HookStop)

	e.mu.Lock()
	e.state = stateStopped
	ts := e.ts
	e.ts = nil
	e.mu.Unlock()

	var closeErr error
	if ts != nil {
		closeErr = ts.Close()
	}
	if hookErr != nil {
		if closeErr != nil {
			e.log.WithError(closeErr).Error("close storage")
		}
		return hookErr
	}
	return closeErr
}

// Bootstrap starts the engine and immediately stops it: OnInit, then OnStop,
// no tick loop. The minimal path for strategies that do all their work up
// front.
func (e *Engine) Bootstrap() error {
	if err := e.Start(); err != nil {
		return err
	}
	return e.Stop()
}

// Run starts the engine, replays [begin, end] epoch-ms through the lifecycle
// clock, and stops. OnStop still fires when a tick fails; the tick's error
// wins.
func (e *Engine) Run(ctx context.Context, begin, end int64) error {
	if err := e.Start(); err != nil {
		return err
	}
	ck := clock.New(clock.Config{
		Step:   e.cfg.Step,
		Policy: e.cfg.Policy,
		Logger: e.log,
	}, e.cfg.Callbacks, e)

	runErr := ck.Run(ctx, begin, end)
	stopErr := e.Stop()
	if runErr != nil {
		if stopErr != nil {
			e.log.WithError(stopErr).Error("stop after failed run")
		}
		return runErr
	}
	return stopErr
}

// Locked runs fn with exclusive ownership of the whole context. This is the
// mutation entry point for settlement/matching logic; the lock is released
// on every exit path including a panic in fn.
func (e *Engine) Locked(fn func(*model.Context) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != stateRunning {
		return ErrNotRunning
	}
	return fn(e.ctx)
}

// SetTradeTime advances the clock value. Implements the tick sink.
func (e *Engine) SetTradeTime(ts int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == stateRunning {
		e.ctx.TradeTime = ts
	}
}

// Store returns the time-series layer, or nil before Start/after Stop. It
// carries its own read-write lock; calls on it never hold the engine lock.
func (e *Engine) Store() *store.TimeSeries {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.ts
}
