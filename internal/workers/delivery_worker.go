package workers

import (
	"context"
	"errors"
	"fmt"

	"allsers_backend/internal/logger"
	"allsers_backend/internal/pkg/email"
	"allsers_backend/internal/push"
	"allsers_backend/internal/queue"
)

const maxDeliveryAttempts = 3

// DeliveryWorker consumes delivery tasks and executes them against the push
// sender and the mailer. A failed task is republished with an incremented
// attempt counter; after maxDeliveryAttempts it is dropped with a log line.
type DeliveryWorker struct {
	deliveryQueue queue.Queue
	pushSender    push.Sender
	mailer        email.Mailer
}

func NewDeliveryWorker(deliveryQueue queue.Queue, pushSender push.Sender, mailer email.Mailer) *DeliveryWorker {
	return &DeliveryWorker{
		deliveryQueue: deliveryQueue,
		pushSender:    pushSender,
		mailer:        mailer,
	}
}

func (w *DeliveryWorker) Start(ctx context.Context) error {
	return w.deliveryQueue.Consume(ctx, w.handle)
}

func (w *DeliveryWorker) handle(ctx context.Context, task queue.DeliveryTask) error {
	err := w.deliver(ctx, task)
	if err == nil {
		return nil
	}

	logger.DeliveryLog(string(task.Kind), task.RecipientID, err)

	if task.Attempt+1 >= maxDeliveryAttempts {
		logger.Warn("dropping delivery task after retries",
			"kind", task.Kind, "recipient_id", task.RecipientID, "attempts", task.Attempt+1)
		return nil
	}

	task.Attempt++
	if pubErr := w.deliveryQueue.Publish(ctx, task); pubErr != nil {
		logger.CtxWithError(ctx, "failed to republish delivery task", pubErr,
			"kind", task.Kind, "recipient_id", task.RecipientID)
	}
	return nil
}

func (w *DeliveryWorker) deliver(ctx context.Context, task queue.DeliveryTask) error {
	switch task.Kind {
	case queue.DeliveryKindPush:
		if task.DeviceToken == "" {
			return errors.New("delivery task without device token")
		}
		return w.pushSender.Send(ctx, task.DeviceToken, task.Title, task.Body, task.TargetURL, task.Data)
	case queue.DeliveryKindEmail:
		if task.EmailTo == "" {
			return errors.New("delivery task without email address")
		}
		return w.mailer.Send(task.EmailTo, task.Title, task.BodyLines, task.ActionLabel, task.TargetURL)
	}
	return fmt.Errorf("unknown delivery kind %q", task.Kind)
}
