package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInProcessQueueDeliversPublishedTasks(t *testing.T) {
	q := NewInProcessQueue(8)
	defer q.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []DeliveryTask
	done := make(chan struct{})

	require.NoError(t, q.Consume(ctx, func(ctx context.Context, task DeliveryTask) error {
		mu.Lock()
		got = append(got, task)
		if len(got) == 2 {
			close(done)
		}
		mu.Unlock()
		return nil
	}))

	require.NoError(t, q.Publish(ctx, DeliveryTask{Kind: DeliveryKindPush, RecipientID: "a"}))
	require.NoError(t, q.Publish(ctx, DeliveryTask{Kind: DeliveryKindEmail, RecipientID: "b"}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks were not consumed in time")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "a", got[0].RecipientID)
	assert.Equal(t, "b", got[1].RecipientID)
}

func TestInProcessQueuePublishNeverBlocks(t *testing.T) {
	q := NewInProcessQueue(1)
	defer q.Close()

	ctx := context.Background()
	require.NoError(t, q.Publish(ctx, DeliveryTask{RecipientID: "a"}))

	// no consumer, buffer full: must return an error instead of blocking
	err := q.Publish(ctx, DeliveryTask{RecipientID: "b"})
	require.Error(t, err)
}

func TestInProcessQueueCloseIsIdempotent(t *testing.T) {
	q := NewInProcessQueue(1)
	require.NoError(t, q.Close())
	require.NoError(t, q.Close())

	err := q.Publish(context.Background(), DeliveryTask{RecipientID: "a"})
	assert.Error(t, err)
}
