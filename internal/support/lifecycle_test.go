package support_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelsim/workcell-engine/internal/support"
)

func TestLifecycleStateMachine_HappyPath(t *testing.T) {
	clock := support.NewMockClock(time.Unix(0, 0))
	sm := support.NewLifecycleStateMachine(clock)

	clock.Advance(time.Second)
	require.NoError(t, sm.Start())

	clock.Advance(5 * time.Second)
	require.NoError(t, sm.Complete())
	assert.Equal(t, 5*time.Second, sm.RuntimeDuration())
}

func TestLifecycleStateMachine_Fail(t *testing.T) {
	clock := support.NewMockClock(time.Unix(0, 0))
	sm := support.NewLifecycleStateMachine(clock)
	require.NoError(t, sm.Start())

	clock.Advance(3 * time.Second)
	require.NoError(t, sm.Fail(errors.New("boom")))
	assert.Equal(t, 3*time.Second, sm.RuntimeDuration())
}

func TestLifecycleStateMachine_RejectsInvalidTransitions(t *testing.T) {
	sm := support.NewLifecycleStateMachine(support.NewMockClock(time.Unix(0, 0)))

	assert.Error(t, sm.Complete(), "cannot complete before starting")

	require.NoError(t, sm.Start())
	require.NoError(t, sm.Complete())

	assert.Error(t, sm.Start(), "cannot restart a completed run")
	assert.Error(t, sm.Fail(errors.New("x")), "cannot fail a completed run")
}

func TestLifecycleStateMachine_RuntimeDurationBeforeStart(t *testing.T) {
	sm := support.NewLifecycleStateMachine(support.NewMockClock(time.Unix(0, 0)))
	assert.Equal(t, time.Duration(0), sm.RuntimeDuration())
}
