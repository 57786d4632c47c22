package queue

import "context"

type DeliveryKind string

const (
	DeliveryKindPush  DeliveryKind = "push"
	DeliveryKindEmail DeliveryKind = "email"
)

// DeliveryTask is the unit of work handed from the notification dispatcher
// to the delivery worker. The dispatcher only enqueues; retries and backoff
// are the worker's concern.
type DeliveryTask struct {
	Kind        DeliveryKind      `json:"kind"`
	RecipientID string            `json:"recipient_id"`
	DeviceToken string            `json:"device_token,omitempty"`
	EmailTo     string            `json:"email_to,omitempty"`
	Title       string            `json:"title"`
	Body        string            `json:"body,omitempty"`
	BodyLines   []string          `json:"body_lines,omitempty"`
	ActionLabel string            `json:"action_label,omitempty"`
	TargetURL   string            `json:"target_url,omitempty"`
	Data        map[string]string `json:"data,omitempty"`
	Attempt     int               `json:"attempt"`
}

type Handler func(ctx context.Context, task DeliveryTask) error

// Queue is the boundary between dispatch and delivery. Publish must be cheap
// and non-blocking relative to the caller's transaction.
type Queue interface {
	Publish(ctx context.Context, task DeliveryTask) error
	Consume(ctx context.Context, handler Handler) error
	Close() error
}
