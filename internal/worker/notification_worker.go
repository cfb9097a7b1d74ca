package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/homecare-api/internal/events"
	"github.com/spec-kit/homecare-api/internal/service"
)

type queuedEvent struct {
	ctx   context.Context
	event events.Event
}

// NotificationWorker is an events.Dispatcher that hands published events to
// a background goroutine, so request handlers do not wait on notification
// delivery. When the queue is full the event is delivered inline.
type NotificationWorker struct {
	inner  events.Dispatcher
	queue  chan queuedEvent
	logger *zap.Logger
	wg     sync.WaitGroup
	once   sync.Once
}

// NewNotificationWorker wraps inner with a queue of the given size.
func NewNotificationWorker(inner events.Dispatcher, buffer int, logger *zap.Logger) *NotificationWorker {
	if buffer <= 0 {
		buffer = 256
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		inner:  inner,
		queue:  make(chan queuedEvent, buffer),
		logger: logger,
	}
}

// Publish enqueues event. Cancellation of ctx does not cancel delivery.
func (w *NotificationWorker) Publish(ctx context.Context, event events.Event) error {
	item := queuedEvent{ctx: context.WithoutCancel(ctx), event: event}
	select {
	case w.queue <- item:
		return nil
	default:
		w.logger.Warn("notification queue full, delivering inline", zap.String("event_type", string(event.Type)))
		return w.inner.Publish(item.ctx, event)
	}
}

// Subscribe registers handler on the wrapped dispatcher.
func (w *NotificationWorker) Subscribe(eventType events.EventType, handler events.EventHandler) {
	w.inner.Subscribe(eventType, handler)
}

// Start runs the delivery loop until ctx is done, then drains what is left.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case item := <-w.queue:
				w.deliver(item)
			case <-ctx.Done():
				w.drain()
				return
			}
		}
	}()
}

// Wait blocks until the delivery loop has exited.
func (w *NotificationWorker) Wait() {
	w.wg.Wait()
}

func (w *NotificationWorker) drain() {
	for {
		select {
		case item := <-w.queue:
			w.deliver(item)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(item queuedEvent) {
	if err := w.inner.Publish(item.ctx, item.event); err != nil {
		w.logger.Warn("notification delivery failed",
			zap.String("event_type", string(item.event.Type)),
			zap.String("resource_id", item.event.ResourceID),
			zap.Error(err))
	}
}

// StartNotificationWorker registers notification handlers and starts the
// delivery loop.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService, w *NotificationWorker) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if w != nil {
		w.once.Do(func() { w.Start(ctx) })
	}
}
