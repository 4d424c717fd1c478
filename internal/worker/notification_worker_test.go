package worker

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDelivery struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingDelivery) NotifyAssigned(_ context.Context, ticketID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, ticketID+"->"+userID)
	return nil
}

func TestNotificationWorkerDeliversQueued(t *testing.T) {
	delivery := &recordingDelivery{}
	w := NewNotificationWorker(delivery, 2, 8, nil)

	require.NoError(t, w.NotifyAssigned(context.Background(), "t1", "a1"))
	require.NoError(t, w.NotifyAssigned(context.Background(), "t2", "a2"))

	w.Start(context.Background())
	w.Stop()

	assert.ElementsMatch(t, []string{"t1->a1", "t2->a2"}, delivery.calls)
}

func TestNotificationWorkerQueueFull(t *testing.T) {
	w := NewNotificationWorker(&recordingDelivery{}, 1, 1, nil)

	require.NoError(t, w.NotifyAssigned(context.Background(), "t1", "a1"))
	assert.ErrorIs(t, w.NotifyAssigned(context.Background(), "t2", "a2"), ErrQueueFull)
}

func TestNotificationWorkerRejectsAfterStop(t *testing.T) {
	w := NewNotificationWorker(&recordingDelivery{}, 1, 4, nil)
	w.Start(context.Background())
	w.Stop()

	assert.NotPanics(t, func() {
		assert.ErrorIs(t, w.NotifyAssigned(context.Background(), "t1", "a1"), ErrWorkerStopped)
	})
	w.Stop()
}
