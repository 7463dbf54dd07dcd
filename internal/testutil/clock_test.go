package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedClock_Frozen(t *testing.T) {
	clock := NewFixedClock(RefTime)
	assert.Equal(t, RefTime, clock.Now())
	assert.Equal(t, RefTime, clock.Now())
}

func TestFixedClock_Advance(t *testing.T) {
	clock := NewFixedClock(RefTime)

	got := clock.Advance(90 * time.Minute)
	assert.Equal(t, RefTime.Add(90*time.Minute), got)
	assert.Equal(t, got, clock.Now())

	clock.Advance(-2 * time.Hour)
	assert.Equal(t, RefTime.Add(-30*time.Minute), clock.Now())
}

func TestFixedClock_Set(t *testing.T) {
	clock := NewFixedClock(RefTime)
	later := RefTime.AddDate(0, 0, 3)
	clock.Set(later)
	assert.Equal(t, later, clock.Now())
}

func TestFixedClock_ConcurrentAdvance(t *testing.T) {
	clock := NewFixedClock(RefTime)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Advance(time.Second)
		}()
	}
	wg.Wait()

	require.Equal(t, RefTime.Add(100*time.Second), clock.Now())
}
