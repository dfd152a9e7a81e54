package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRandomUserAgent(t *testing.T) {
	for i := 0; i < 20; i++ {
		ua := RandomUserAgent()
		assert.Contains(t, userAgents, ua)
		assert.NotContains(t, ua, "Headless")
	}
}

func TestRandomDelay(t *testing.T) {
	start := time.Now()
	assert.NoError(t, RandomDelay(context.Background(), 5*time.Millisecond, 10*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, RandomDelay(ctx, time.Second, 2*time.Second), context.Canceled)
	assert.ErrorIs(t, RandomDelay(ctx, 0, 0), context.Canceled)
}
