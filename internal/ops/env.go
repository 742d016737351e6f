// Package ops reads the bootstrap environment knobs. These are collaborator
// concerns; nothing inside the core consults the environment.
package ops

import (
	"os"
	"strconv"
)

// Env is one environment variable with typed accessors.
type Env string

const (
	// EnvLogLevel sets log verbosity, default "debug".
	EnvLogLevel Env = "LOG_LEVEL"
	// EnvLogColor toggles colored log output, default on.
	EnvLogColor Env = "LOG_COLOR"
	// EnvLogMs toggles millisecond log timestamps, default off.
	EnvLogMs Env = "LOG_MS"
	// EnvShowBanner toggles the startup banner, default on.
	EnvShowBanner Env = "SHOW_BANNER"
	// EnvPyroscopeAddr enables continuous profiling when set.
	EnvPyroscopeAddr Env = "PYROSCOPE_ADDR"
)

// Value returns the raw value and whether the variable is set.
func (e Env) Value() (string, bool) {
	return os.LookupEnv(string(e))
}

// String returns the value or def when unset.
func (e Env) String(def string) string {
	if v, ok := e.Value(); ok {
		return v
	}
	return def
}

// Bool returns whether the value equals "true", or def when unset.
func (e Env) Bool(def bool) bool {
	if v, ok := e.Value(); ok {
		return v == "true"
	}
	return def
}

// Int64 returns the parsed value, or def when unset or unparsable.
func (e Env) Int64(def int64) int64 {
	if v, ok := e.Value(); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}
