package gemini

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/uscheck/uiseong-tourism/backend/pkg/config"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(&config.GeminiConfig{})
	assert.Error(t, err)

	_, err = NewClient(nil)
	assert.Error(t, err)
}

func TestMetricsInit_ConcurrentFirstUse(t *testing.T) {
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			recordGeminiMetric(ctx, "gemini-2.0-flash", 200, 10*time.Millisecond, nil)
			recordGeminiRateLimitWait(ctx, "gemini-2.0-flash", time.Millisecond)
		}()
	}
	wg.Wait()

	assert.True(t, geminiMetricsInit)
}
