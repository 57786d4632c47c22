package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"allsers_backend/internal/models"
	"allsers_backend/internal/repositories"
)

func seedNotification(t *testing.T, db *gorm.DB, recipientID, notificationType string) *models.Notification {
	t.Helper()
	n := &models.Notification{
		RecipientID: recipientID,
		Type:        notificationType,
		Title:       "t",
	}
	require.NoError(t, db.Create(n).Error)
	return n
}

func TestInboxListingAndUnreadFilter(t *testing.T) {
	db, repos := newTestRepos(t)
	svc := NewNotificationService(repos.Notifications, repos.Users)

	user := createTestUser(t, db, "u@test.io", "Uma", models.UserRoleUser, "")
	other := createTestUser(t, db, "o@test.io", "Omar", models.UserRoleUser, "")

	first := seedNotification(t, db, user.ID, repositories.NotificationTypeLike)
	seedNotification(t, db, user.ID, repositories.NotificationTypeMessage)
	seedNotification(t, db, other.ID, repositories.NotificationTypeLike)

	all, err := svc.GetUserNotifications(context.Background(), user.ID, repositories.NotificationCriteria{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)

	require.NoError(t, svc.MarkAsRead(context.Background(), user.ID, first.ID))

	unread, err := svc.GetUserNotifications(context.Background(), user.ID, repositories.NotificationCriteria{UnreadOnly: true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread.Total)

	count, err := svc.GetUnreadCount(context.Background(), user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestInboxOwnershipEnforced(t *testing.T) {
	db, repos := newTestRepos(t)
	svc := NewNotificationService(repos.Notifications, repos.Users)

	owner := createTestUser(t, db, "u@test.io", "Uma", models.UserRoleUser, "")
	intruder := createTestUser(t, db, "i@test.io", "Ivo", models.UserRoleUser, "")
	n := seedNotification(t, db, owner.ID, repositories.NotificationTypeLike)

	require.Error(t, svc.MarkAsRead(context.Background(), intruder.ID, n.ID))
	require.Error(t, svc.DeleteNotification(context.Background(), intruder.ID, n.ID))

	require.NoError(t, svc.DeleteNotification(context.Background(), owner.ID, n.ID))
}

func TestMarkAllAndClearAll(t *testing.T) {
	db, repos := newTestRepos(t)
	svc := NewNotificationService(repos.Notifications, repos.Users)

	user := createTestUser(t, db, "u@test.io", "Uma", models.UserRoleUser, "")
	seedNotification(t, db, user.ID, repositories.NotificationTypeLike)
	seedNotification(t, db, user.ID, repositories.NotificationTypeReply)

	require.NoError(t, svc.MarkAllAsRead(context.Background(), user.ID))
	count, err := svc.GetUnreadCount(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, svc.ClearAll(context.Background(), user.ID))
	all, err := svc.GetUserNotifications(context.Background(), user.ID, repositories.NotificationCriteria{})
	require.NoError(t, err)
	assert.Zero(t, all.Total)
}
