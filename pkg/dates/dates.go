// Package dates holds the compact UTC timestamp helpers shared by the
// engine's entry points and strategies.
package dates

import (
	"time"

	"github.com/pkg/errors"
)

var ErrFormat = errors.New("dates: unsupported time format")

// ParseCompact parses a left-anchored compact UTC timestamp. Accepted
// lengths: 2006, 200601, 20060102, 2006010203, 200601020304 and
// 20060102030405; missing components default to the period start.
func ParseCompact(s string) (time.Time, error) {
	var layout string
	switch len(s) {
	case 4:
		layout = "2006"
	case 6:
		layout = "200601"
	case 8:
		layout = "20060102"
	case 10:
		layout = "2006010203"
	case 12:
		layout = "200601020304"
	case 14:
		layout = "20060102030405"
	default:
		return time.Time{}, errors.Wrapf(ErrFormat, "%q", s)
	}
	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrFormat, "%q: %v", s, err)
	}
	return t, nil
}

// FromMillis converts an epoch-millisecond timestamp to UTC time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// NowMillis returns the current epoch-millisecond timestamp.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
