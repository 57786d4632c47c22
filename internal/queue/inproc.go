package queue

import (
	"context"
	"errors"
	"sync"

	"allsers_backend/internal/logger"
)

// InProcessQueue buffers delivery tasks in memory. It is the fallback when
// no AMQP broker is configured (dev mode) and the collaborator of choice for
// tests: delivery still goes through the same worker code path, it just does
// not survive a restart.
type InProcessQueue struct {
	tasks  chan DeliveryTask
	closed chan struct{}
	once   sync.Once
}

func NewInProcessQueue(buffer int) *InProcessQueue {
	if buffer <= 0 {
		buffer = 256
	}
	return &InProcessQueue{
		tasks:  make(chan DeliveryTask, buffer),
		closed: make(chan struct{}),
	}
}

func (q *InProcessQueue) Publish(ctx context.Context, task DeliveryTask) error {
	select {
	case <-q.closed:
		return errors.New("queue is closed")
	case <-ctx.Done():
		return ctx.Err()
	case q.tasks <- task:
		return nil
	default:
		// A full buffer must not block the caller's transaction.
		return errors.New("delivery queue buffer full")
	}
}

func (q *InProcessQueue) Consume(ctx context.Context, handler Handler) error {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-q.closed:
				return
			case task := <-q.tasks:
				if err := handler(ctx, task); err != nil {
					logger.WithError(err).Error("delivery task failed permanently",
						"kind", string(task.Kind), "recipient_id", task.RecipientID)
				}
			}
		}
	}()
	return nil
}

func (q *InProcessQueue) Close() error {
	q.once.Do(func() { close(q.closed) })
	return nil
}
