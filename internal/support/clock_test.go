package support_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kestrelsim/workcell-engine/internal/support"
)

func TestMockClock_AdvanceAndSetTime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := support.NewMockClock(start)

	assert.Equal(t, start, clock.Now())

	clock.Advance(time.Hour)
	assert.Equal(t, start.Add(time.Hour), clock.Now())

	other := start.Add(24 * time.Hour)
	clock.SetTime(other)
	assert.Equal(t, other, clock.Now())
}

func TestNewMockClock_ZeroStartUsesNow(t *testing.T) {
	before := time.Now()
	clock := support.NewMockClock(time.Time{})
	after := time.Now()

	assert.False(t, clock.Now().Before(before))
	assert.False(t, clock.Now().After(after))
}

func TestRealClock_NowIsUTC(t *testing.T) {
	clock := support.NewRealClock()
	assert.Equal(t, time.UTC, clock.Now().Location())
}
