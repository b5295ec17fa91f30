package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestContextConcurrentAccess tests that context values can be safely accessed concurrently.
func TestContextConcurrentAccess(t *testing.T) {
	ctx := WithSkipTracking(WithSuppressHeader(context.Background()))

	const numGoroutines = 50
	var wg sync.WaitGroup
	for i := range numGoroutines {
		wg.Go(func() {
			assert.True(t, shouldSuppressHeader(ctx), "Goroutine %d: shouldSuppressHeader should be true", i)
			assert.True(t, shouldSkipTracking(ctx), "Goroutine %d: shouldSkipTracking should be true", i)
		})
	}
	wg.Wait()
}

// TestContextIsolation tests that different contexts maintain isolation.
func TestContextIsolation(t *testing.T) {
	base := context.Background()
	quiet := WithSuppressHeader(base)

	assert.False(t, shouldSuppressHeader(base))
	assert.True(t, shouldSuppressHeader(quiet))
	assert.False(t, shouldSkipTracking(quiet))
}

func TestContextWrongValueType(t *testing.T) {
	ctx := context.WithValue(context.Background(), suppressHeaderOpt, "yes")
	assert.False(t, shouldSuppressHeader(ctx))
}
