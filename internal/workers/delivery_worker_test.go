package workers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allsers_backend/internal/queue"
)

type fakePushSender struct {
	calls    int
	failures int
}

func (s *fakePushSender) Send(ctx context.Context, deviceToken, title, body, targetURL string, data map[string]string) error {
	s.calls++
	if s.calls <= s.failures {
		return errors.New("transient push failure")
	}
	return nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) Send(to, subject string, bodyLines []string, actionLabel, actionURL string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

type recordingQueue struct {
	republished []queue.DeliveryTask
}

func (q *recordingQueue) Publish(ctx context.Context, task queue.DeliveryTask) error {
	q.republished = append(q.republished, task)
	return nil
}
func (q *recordingQueue) Consume(ctx context.Context, handler queue.Handler) error { return nil }
func (q *recordingQueue) Close() error                                             { return nil }

func TestHandleDeliversPush(t *testing.T) {
	q := &recordingQueue{}
	sender := &fakePushSender{}
	worker := NewDeliveryWorker(q, sender, &fakeMailer{})

	err := worker.handle(context.Background(), queue.DeliveryTask{
		Kind:        queue.DeliveryKindPush,
		RecipientID: "u1",
		DeviceToken: "tok",
		Title:       "t",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sender.calls)
	assert.Empty(t, q.republished)
}

func TestHandleRepublishesFailedTask(t *testing.T) {
	q := &recordingQueue{}
	sender := &fakePushSender{failures: 1}
	worker := NewDeliveryWorker(q, sender, &fakeMailer{})

	err := worker.handle(context.Background(), queue.DeliveryTask{
		Kind:        queue.DeliveryKindPush,
		RecipientID: "u1",
		DeviceToken: "tok",
	})
	require.NoError(t, err)
	require.Len(t, q.republished, 1)
	assert.Equal(t, 1, q.republished[0].Attempt)
}

func TestHandleDropsTaskAfterMaxAttempts(t *testing.T) {
	q := &recordingQueue{}
	mailer := &fakeMailer{err: errors.New("smtp down")}
	worker := NewDeliveryWorker(q, &fakePushSender{}, mailer)

	err := worker.handle(context.Background(), queue.DeliveryTask{
		Kind:    queue.DeliveryKindEmail,
		EmailTo: "x@test.io",
		Attempt: maxDeliveryAttempts - 1,
	})
	require.NoError(t, err)
	assert.Empty(t, q.republished)
}

func TestHandleDeliversEmail(t *testing.T) {
	q := &recordingQueue{}
	mailer := &fakeMailer{}
	worker := NewDeliveryWorker(q, &fakePushSender{}, mailer)

	err := worker.handle(context.Background(), queue.DeliveryTask{
		Kind:      queue.DeliveryKindEmail,
		EmailTo:   "x@test.io",
		Title:     "subject",
		BodyLines: []string{"line"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x@test.io"}, mailer.sent)
}

func TestHandleRejectsMalformedTask(t *testing.T) {
	q := &recordingQueue{}
	worker := NewDeliveryWorker(q, &fakePushSender{}, &fakeMailer{})

	// push without a token is permanent, retried until the cap then dropped
	err := worker.handle(context.Background(), queue.DeliveryTask{Kind: queue.DeliveryKindPush})
	require.NoError(t, err)
	require.Len(t, q.republished, 1)
}
