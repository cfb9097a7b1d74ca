package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/homecare-api/internal/events"
)

func TestWorkerDeliversInBackground(t *testing.T) {
	inner := events.NewInMemoryDispatcher()
	w := NewNotificationWorker(inner, 4, nil)

	var delivered atomic.Int32
	w.Subscribe(events.EventCareRequestSubmitted, func(ctx context.Context, e events.Event) error {
		delivered.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	reqCtx, reqCancel := context.WithCancel(context.Background())
	require.NoError(t, w.Publish(reqCtx, events.Event{Type: events.EventCareRequestSubmitted}))
	reqCancel()

	assert.Eventually(t, func() bool { return delivered.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	w.Wait()
}

func TestWorkerDeliversInlineWhenFull(t *testing.T) {
	inner := events.NewInMemoryDispatcher()
	w := NewNotificationWorker(inner, 1, nil)

	var delivered atomic.Int32
	w.Subscribe(events.EventApplicationReceived, func(ctx context.Context, e events.Event) error {
		delivered.Add(1)
		return nil
	})

	// Not started: the first event fills the queue, the second is delivered inline.
	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventApplicationReceived}))
	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventApplicationReceived}))
	assert.EqualValues(t, 1, delivered.Load())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Start(ctx)
	w.Wait()
	assert.EqualValues(t, 2, delivered.Load())
}
