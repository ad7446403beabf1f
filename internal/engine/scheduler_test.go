package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickerSchedulerPaces(t *testing.T) {
	s := NewTickerScheduler(50)
	defer s.Stop()

	start := time.Now()
	for i := 0; i < 3; i++ {
		assert.NoError(t, s.Wait(context.Background()))
	}
	// three 20ms intervals, with slack for slow runners
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestTickerSchedulerCancelled(t *testing.T) {
	s := NewTickerScheduler(1)
	defer s.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Wait(ctx), context.Canceled)
}

func TestImmediateScheduler(t *testing.T) {
	assert.NoError(t, ImmediateScheduler{}.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, ImmediateScheduler{}.Wait(ctx))
}
