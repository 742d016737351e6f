package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCompact(t *testing.T) {
	cases := map[string]string{
		"2024":           "2024-01-01T00:00:00Z",
		"202402":         "2024-02-01T00:00:00Z",
		"20240203":       "2024-02-03T00:00:00Z",
		"2024020304":     "2024-02-03T04:00:00Z",
		"202402030405":   "2024-02-03T04:05:00Z",
		"20240203040506": "2024-02-03T04:05:06Z",
	}
	for in, want := range cases {
		got, err := ParseCompact(in)
		require.NoErrorf(t, err, "input %q", in)
		assert.Equal(t, want, got.Format(time.RFC3339))
		assert.Equal(t, time.UTC, got.Location())
	}
}

func TestParseCompactRejectsOddLengths(t *testing.T) {
	for _, in := range []string{"", "202", "20240", "2024020304050607", "not-a-date"} {
		_, err := ParseCompact(in)
		assert.ErrorIsf(t, err, ErrFormat, "input %q", in)
	}
}

func TestMillisRoundTrip(t *testing.T) {
	ts := int64(1704157200000)
	assert.Equal(t, ts, FromMillis(ts).UnixMilli())
	assert.Equal(t, "2024-01-02T01:00:00Z", FromMillis(ts).Format(time.RFC3339))
}
