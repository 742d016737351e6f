package strategy

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequiresOnInit(t *testing.T) {
	assert.ErrorIs(t, (&Callbacks{}).Validate(), ErrMissingOnInit)
	assert.ErrorIs(t, (*Callbacks)(nil).Validate(), ErrMissingOnInit)

	cb := &Callbacks{OnInit: func() error { return nil }}
	assert.NoError(t, cb.Validate())
}

func TestInvokeNilHookIsNoop(t *testing.T) {
	cb := &Callbacks{OnInit: func() error { return nil }}

	for _, hook := range []string{
		HookDayBegin, HookHourBegin, HookMinuteBegin, HookTick,
		HookMinuteEnd, HookHourEnd, HookDayEnd, HookStop,
	} {
		assert.NoErrorf(t, cb.Invoke(hook), "nil %s must be a no-op", hook)
	}
}

func TestInvokeWrapsFailure(t *testing.T) {
	boom := errors.New("boom")
	cb := &Callbacks{OnTick: func() error { return boom }}

	err := cb.Invoke(HookTick)
	require.Error(t, err)

	var hookErr *HookError
	require.ErrorAs(t, err, &hookErr)
	assert.Equal(t, HookTick, hookErr.Hook)
	assert.ErrorIs(t, err, boom)
}

func TestInvokeUnknownHook(t *testing.T) {
	cb := &Callbacks{OnInit: func() error { return nil }}
	assert.NoError(t, cb.Invoke("on_nonsense"))
}
