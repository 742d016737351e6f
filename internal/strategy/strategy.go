// Package strategy defines the callback contract between the engine and the
// host-supplied strategy. Hooks take no arguments; they observe and mutate
// engine state through the engine's accessors.
package strategy

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrMissingOnInit rejects a callback set with no OnInit hook.
var ErrMissingOnInit = errors.New("strategy: OnInit is required")

// Hook names, used in errors and logs.
const (
	HookInit        = "on_init"
	HookDayBegin    = "on_day_begin"
	HookHourBegin   = "on_hour_begin"
	HookMinuteBegin = "on_minute_begin"
	HookTick        = "on_tick"
	HookMinuteEnd   = "on_minute_end"
	HookHourEnd     = "on_hour_end"
	HookDayEnd      = "on_day_end"
	HookStop        = "on_stop"
)

// HookError wraps a failure raised by a strategy hook.
type HookError struct {
	Hook string
	Err  error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("strategy hook %s failed: %v", e.Hook, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }

// Policy decides what a tick does with a failing hook (OnInit excepted,
// which is always fatal).
type Policy uint8

const (
	// PolicyPropagate aborts the tick and surfaces the hook error.
	PolicyPropagate Policy = iota
	// PolicyContinue logs the hook error and keeps dispatching.
	PolicyContinue
)

// Callbacks is the set of lifecycle hooks a strategy may supply. Every hook
// except OnInit is optional; nil hooks are no-ops.
type Callbacks struct {
	OnInit        func() error
	OnDayBegin    func() error
	OnHourBegin   func() error
	OnMinuteBegin func() error
	OnTick        func() error
	OnMinuteEnd   func() error
	OnHourEnd     func() error
	OnDayEnd      func() error
	OnStop        func() error
}

// Validate checks the mandatory hooks are present.
func (c *Callbacks) Validate() error {
	if c == nil || c.OnInit == nil {
		return ErrMissingOnInit
	}
	return nil
}

// Invoke runs one named hook, mapping a nil hook to a no-op and any failure
// to a *HookError.
func (c *Callbacks) Invoke(hook string) error {
	fn := c.lookup(hook)
	if fn == nil {
		return nil
	}
	if err := fn(); err != nil {
		return &HookError{Hook: hook, Err: err}
	}
	return nil
}

func (c *Callbacks) lookup(hook string) func() error {
	if c == nil {
		return nil
	}
	switch hook {
	case HookInit:
		return c.OnInit
	case HookDayBegin:
		return c.OnDayBegin
	case HookHourBegin:
		return c.OnHourBegin
	case HookMinuteBegin:
		return c.OnMinuteBegin
	case HookTick:
		return c.OnTick
	case HookMinuteEnd:
		return c.OnMinuteEnd
	case HookHourEnd:
		return c.OnHourEnd
	case HookDayEnd:
		return c.OnDayEnd
	case HookStop:
		return c.OnStop
	default:
		return nil
	}
}
