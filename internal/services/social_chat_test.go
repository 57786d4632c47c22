package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"allsers_backend/internal/models"
	"allsers_backend/internal/repositories"
	"allsers_backend/internal/services/dto"
)

type socialFixture struct {
	db     *gorm.DB
	social SocialService
	chat   ChatService
	alice  *models.User
	bob    *models.User
}

func newSocialFixture(t *testing.T) *socialFixture {
	t.Helper()
	db, repos := newTestRepos(t)
	dispatcher := NewNotificationDispatcher(repos.Notifications, repos.Users, &fakeQueue{})
	social := NewSocialService(repos.Posts, repos.Users, repos.Challenges, dispatcher, "https://allsers.test")
	chat := NewChatService(repos.Conversations, repos.Users, dispatcher)

	alice := createTestUser(t, db, "alice@test.io", "Alice", models.UserRoleUser, "")
	bob := createTestUser(t, db, "bob@test.io", "Bob", models.UserRoleUser, "")
	return &socialFixture{db: db, social: social, chat: chat, alice: alice, bob: bob}
}

func (f *socialFixture) notificationsFor(t *testing.T, userID, notificationType string) []models.Notification {
	t.Helper()
	var out []models.Notification
	require.NoError(t, f.db.Where("recipient_id = ? AND type = ?", userID, notificationType).Find(&out).Error)
	return out
}

func TestLikeNotifiesAuthorButNotSelf(t *testing.T) {
	f := newSocialFixture(t)

	post, err := f.social.CreatePost(context.Background(), f.alice.ID, dto.CreatePostRequest{Body: "hi"})
	require.NoError(t, err)

	// author liking their own post: recorded, no notification
	require.NoError(t, f.social.LikePost(context.Background(), f.alice.ID, post.ID))
	assert.Empty(t, f.notificationsFor(t, f.alice.ID, repositories.NotificationTypeLike))

	require.NoError(t, f.social.LikePost(context.Background(), f.bob.ID, post.ID))
	assert.Len(t, f.notificationsFor(t, f.alice.ID, repositories.NotificationTypeLike), 1)

	// double like rejected
	err = f.social.LikePost(context.Background(), f.bob.ID, post.ID)
	require.Error(t, err)
}

func TestReplyNotifiesParentAuthorButNotSelf(t *testing.T) {
	f := newSocialFixture(t)

	post, err := f.social.CreatePost(context.Background(), f.alice.ID, dto.CreatePostRequest{Body: "hi"})
	require.NoError(t, err)

	comment, err := f.social.CreateComment(context.Background(), f.alice.ID, post.ID, dto.CreateCommentRequest{Body: "top"})
	require.NoError(t, err)

	// top-level comment is not a reply, no notification
	assert.Empty(t, f.notificationsFor(t, f.alice.ID, repositories.NotificationTypeReply))

	// author replying to their own comment: no notification
	_, err = f.social.CreateComment(context.Background(), f.alice.ID, post.ID, dto.CreateCommentRequest{Body: "self", ParentID: &comment.ID})
	require.NoError(t, err)
	assert.Empty(t, f.notificationsFor(t, f.alice.ID, repositories.NotificationTypeReply))

	_, err = f.social.CreateComment(context.Background(), f.bob.ID, post.ID, dto.CreateCommentRequest{Body: "reply", ParentID: &comment.ID})
	require.NoError(t, err)
	assert.Len(t, f.notificationsFor(t, f.alice.ID, repositories.NotificationTypeReply), 1)
}

func TestTaggingSkipsSelfTag(t *testing.T) {
	f := newSocialFixture(t)

	_, err := f.social.CreatePost(context.Background(), f.alice.ID, dto.CreatePostRequest{
		Body:          "with tags",
		TaggedUserIDs: []string{f.alice.ID, f.bob.ID},
	})
	require.NoError(t, err)

	assert.Empty(t, f.notificationsFor(t, f.alice.ID, repositories.NotificationTypeUserTagged))
	assert.Len(t, f.notificationsFor(t, f.bob.ID, repositories.NotificationTypeUserTagged), 1)
}

func TestSendMessageNotifiesCounterpartyOnly(t *testing.T) {
	f := newSocialFixture(t)

	conversation, err := f.chat.StartConversation(context.Background(), f.alice.ID, dto.StartConversationRequest{UserID: f.bob.ID})
	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, conversation.ParticipantID)

	_, err = f.chat.SendMessage(context.Background(), f.alice.ID, conversation.ID, dto.SendMessageRequest{Body: "hello"})
	require.NoError(t, err)

	assert.Len(t, f.notificationsFor(t, f.bob.ID, repositories.NotificationTypeMessage), 1)
	assert.Empty(t, f.notificationsFor(t, f.alice.ID, repositories.NotificationTypeMessage))
}

func TestSendMessageRejectsOutsider(t *testing.T) {
	f := newSocialFixture(t)
	outsider := createTestUser(t, f.db, "eve@test.io", "Eve", models.UserRoleUser, "")

	conversation, err := f.chat.StartConversation(context.Background(), f.alice.ID, dto.StartConversationRequest{UserID: f.bob.ID})
	require.NoError(t, err)

	_, err = f.chat.SendMessage(context.Background(), outsider.ID, conversation.ID, dto.SendMessageRequest{Body: "hi"})
	require.Error(t, err)
}

func TestStartConversationIsIdempotentPerPair(t *testing.T) {
	f := newSocialFixture(t)

	first, err := f.chat.StartConversation(context.Background(), f.alice.ID, dto.StartConversationRequest{UserID: f.bob.ID})
	require.NoError(t, err)

	second, err := f.chat.StartConversation(context.Background(), f.bob.ID, dto.StartConversationRequest{UserID: f.alice.ID})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
