package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/itsm-routing/internal/service"
)

var (
	// ErrQueueFull is returned when a notification cannot be buffered.
	ErrQueueFull = errors.New("notification queue full")
	// ErrWorkerStopped is returned for notifications arriving after Stop.
	ErrWorkerStopped = errors.New("notification worker stopped")
)

type notification struct {
	ticketID string
	userID   string
}

// NotificationWorker moves notification delivery off the request path.
// It satisfies service.Notifier so event handlers only enqueue.
type NotificationWorker struct {
	delivery service.Notifier
	queue    chan notification
	workers  int
	logger   *zap.Logger
	wg       sync.WaitGroup

	// mu guards stopped and the close of queue against in-flight sends.
	mu      sync.RWMutex
	stopped bool
}

// NewNotificationWorker creates a worker pool delivering through delivery.
func NewNotificationWorker(delivery service.Notifier, workers, queueSize int, logger *zap.Logger) *NotificationWorker {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		delivery: delivery,
		queue:    make(chan notification, queueSize),
		workers:  workers,
		logger:   logger.Named("notifications"),
	}
}

// NotifyAssigned enqueues without blocking.
func (w *NotificationWorker) NotifyAssigned(_ context.Context, ticketID, userID string) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return ErrWorkerStopped
	}
	select {
	case w.queue <- notification{ticketID: ticketID, userID: userID}:
		return nil
	default:
		w.logger.Warn("dropping notification", zap.String("ticket_id", ticketID), zap.String("user_id", userID))
		return ErrQueueFull
	}
}

// Start launches the pool. Workers exit when ctx is done or Stop drains the queue.
func (w *NotificationWorker) Start(ctx context.Context) {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.run(ctx)
	}
}

// Stop closes the queue and waits for in-flight deliveries. Later calls
// to NotifyAssigned return ErrWorkerStopped.
func (w *NotificationWorker) Stop() {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.queue)
	}
	w.mu.Unlock()
	w.wg.Wait()
}

func (w *NotificationWorker) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-w.queue:
			if !ok {
				return
			}
			if err := w.delivery.NotifyAssigned(ctx, n.ticketID, n.userID); err != nil {
				w.logger.Warn("notification delivery failed",
					zap.String("ticket_id", n.ticketID),
					zap.String("user_id", n.userID),
					zap.Error(err))
			}
		}
	}
}

// StartNotificationWorker wires the notification service to the event bus
// and starts the delivery pool.
func StartNotificationWorker(ctx context.Context, w *NotificationWorker, notificationService *service.NotificationService) {
	if w != nil {
		w.Start(ctx)
	}
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
}
