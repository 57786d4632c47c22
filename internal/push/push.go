package push

import "context"

// Sender delivers a push notification to a single device. Implementations
// must treat delivery as best effort: a returned error is logged by the
// caller, never propagated to the user-facing action.
type Sender interface {
	Send(ctx context.Context, deviceToken, title, body, targetURL string, data map[string]string) error
}

// NoopSender is used when no push credentials are configured.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, deviceToken, title, body, targetURL string, data map[string]string) error {
	return nil
}
