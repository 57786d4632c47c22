package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allsers_backend/internal/models"
	"allsers_backend/internal/queue"
	"allsers_backend/internal/repositories"
	"allsers_backend/pkg/apperrors"
)

func TestDispatchMessagePersistsExactlyOneRecord(t *testing.T) {
	db, repos := newTestRepos(t)
	q := &fakeQueue{}
	dispatcher := NewNotificationDispatcher(repos.Notifications, repos.Users, q)

	recipient := createTestUser(t, db, "r@test.io", "Rita", models.UserRoleUser, "")
	sender := createTestUser(t, db, "s@test.io", "Sam", models.UserRoleUser, "")

	event := NewMessageEvent(recipient.ID, "msg-1", sender.ID, sender.Name, "hello there", "conv-1")
	require.NoError(t, dispatcher.Dispatch(context.Background(), event))
	require.NoError(t, dispatcher.Dispatch(context.Background(), NewMessageEvent(recipient.ID, "msg-2", sender.ID, sender.Name, "second", "conv-1")))

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Where("recipient_id = ?", recipient.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	var notification models.Notification
	require.NoError(t, db.Where("recipient_id = ?", recipient.ID).Order("created_at ASC").First(&notification).Error)
	assert.Equal(t, repositories.NotificationTypeMessage, notification.Type)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(notification.Data, &payload))
	assert.Equal(t, "msg-1", payload["message_id"])
	assert.Equal(t, sender.ID, payload["sender_id"])
	assert.Equal(t, "conv-1", payload["conversation_id"])
	assert.Equal(t, "hello there", payload["excerpt"])
}

func TestDispatchPushSkippedWithoutToken(t *testing.T) {
	db, repos := newTestRepos(t)
	q := &fakeQueue{}
	dispatcher := NewNotificationDispatcher(repos.Notifications, repos.Users, q)

	noToken := createTestUser(t, db, "a@test.io", "Ann", models.UserRoleUser, "")
	withToken := createTestUser(t, db, "b@test.io", "Bob", models.UserRoleUser, "device-token-1")
	liker := createTestUser(t, db, "c@test.io", "Carl", models.UserRoleUser, "")

	require.NoError(t, dispatcher.Dispatch(context.Background(), NewLikeEvent(noToken.ID, "post-1", liker.ID, liker.Name)))
	require.NoError(t, dispatcher.Dispatch(context.Background(), NewLikeEvent(withToken.ID, "post-1", liker.ID, liker.Name)))

	pushes := q.byKind(queue.DeliveryKindPush)
	require.Len(t, pushes, 1)
	assert.Equal(t, withToken.ID, pushes[0].RecipientID)
	assert.Equal(t, "device-token-1", pushes[0].DeviceToken)

	// Both likes persisted regardless of the push channel.
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestDispatchEmailChannels(t *testing.T) {
	db, repos := newTestRepos(t)
	q := &fakeQueue{}
	dispatcher := NewNotificationDispatcher(repos.Notifications, repos.Users, q)

	recipient := createTestUser(t, db, "judge@test.io", "Judy", models.UserRoleUser, "device-token-2")
	tagger := createTestUser(t, db, "t@test.io", "Tom", models.UserRoleUser, "")

	// message: persist only, no email even with a token registered
	sender := createTestUser(t, db, "m@test.io", "Mia", models.UserRoleUser, "")
	require.NoError(t, dispatcher.Dispatch(context.Background(), NewMessageEvent(recipient.ID, "msg-1", sender.ID, sender.Name, "hi", "conv-1")))
	assert.Empty(t, q.byKind(queue.DeliveryKindEmail))

	// user_tagged: push and email
	require.NoError(t, dispatcher.Dispatch(context.Background(), NewUserTaggedEvent(recipient.ID, "post-1", tagger.ID, tagger.Name, "", "https://allsers.app/posts/post-1")))
	require.Len(t, q.byKind(queue.DeliveryKindEmail), 1)
	require.Len(t, q.byKind(queue.DeliveryKindPush), 1)

	// challenge_invitation: persist and email, no push
	require.NoError(t, dispatcher.Dispatch(context.Background(), NewJudgeInvitationEvent(recipient.ID, "ch-1", "Best Renovation", "https://allsers.app/challenges/ch-1/judging")))
	emails := q.byKind(queue.DeliveryKindEmail)
	require.Len(t, emails, 2)
	assert.Equal(t, recipient.Email, emails[1].EmailTo)
	assert.Len(t, q.byKind(queue.DeliveryKindPush), 1)
}

func TestDispatchMissingRecipientIsStaleReference(t *testing.T) {
	_, repos := newTestRepos(t)
	q := &fakeQueue{}
	dispatcher := NewNotificationDispatcher(repos.Notifications, repos.Users, q)

	err := dispatcher.Dispatch(context.Background(), NewLikeEvent("missing-user", "post-1", "liker", "Liker"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeStaleReference, appErr.Code)
	assert.Empty(t, q.published())
}

func TestDispatchEnqueueFailureDoesNotFailPersist(t *testing.T) {
	db, repos := newTestRepos(t)
	q := &fakeQueue{failure: assert.AnError}
	dispatcher := NewNotificationDispatcher(repos.Notifications, repos.Users, q)

	recipient := createTestUser(t, db, "x@test.io", "Xena", models.UserRoleUser, "device-token-3")
	liker := createTestUser(t, db, "y@test.io", "Yan", models.UserRoleUser, "")

	require.NoError(t, dispatcher.Dispatch(context.Background(), NewLikeEvent(recipient.ID, "post-1", liker.ID, liker.Name)))

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestExcerptRuneSafe(t *testing.T) {
	assert.Equal(t, "short", excerpt("short"))

	long := make([]rune, 0, 80)
	for i := 0; i < 80; i++ {
		long = append(long, 'ж')
	}
	got := excerpt(string(long))
	runes := []rune(got)
	assert.Len(t, runes, 51)
	assert.Equal(t, '…', runes[50])
}
