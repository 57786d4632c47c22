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
	"allsers_backend/pkg/apperrors"
)

func newEngagementFixture(t *testing.T) (*gorm.DB, EngagementService, *models.User, *models.User) {
	t.Helper()
	db, repos := newTestRepos(t)
	svc := NewEngagementService(db, repos.Engagements, repos.Conversations, repos.Users)

	requester := createTestUser(t, db, "req@test.io", "Renee", models.UserRoleUser, "")
	artisan := createTestUser(t, db, "art@test.io", "Ari", models.UserRoleArtisan, "")
	return db, svc, requester, artisan
}

func createEngagement(t *testing.T, svc EngagementService, requester, artisan *models.User) *dto.EngagementResponse {
	t.Helper()
	resp, err := svc.CreateEngagement(context.Background(), requester.ID, dto.CreateEngagementRequest{
		ArtisanID: artisan.ID,
		Title:     "Kitchen remodel",
		City:      "Almaty",
	})
	require.NoError(t, err)
	return resp
}

func transition(t *testing.T, svc EngagementService, actorID, engagementID string, status models.EngagementStatus) (*dto.EngagementResponse, error) {
	t.Helper()
	return svc.Transition(context.Background(), actorID, engagementID, dto.TransitionRequest{Status: string(status)})
}

func TestCreateEngagementStartsPendingWithConversation(t *testing.T) {
	db, svc, requester, artisan := newEngagementFixture(t)

	resp := createEngagement(t, svc, requester, artisan)
	assert.Equal(t, models.EngagementStatusPending, resp.Status)
	assert.NotEmpty(t, resp.ConversationID)

	var conversation models.Conversation
	require.NoError(t, db.First(&conversation, "id = ?", resp.ConversationID).Error)
	assert.NotEmpty(t, conversation.OtherParticipant(requester.ID))
}

func TestTransitionHappyPath(t *testing.T) {
	_, svc, requester, artisan := newEngagementFixture(t)
	engagement := createEngagement(t, svc, requester, artisan)

	price := 1500.0
	quoted, err := svc.Transition(context.Background(), artisan.ID, engagement.ID, dto.TransitionRequest{
		Status:        string(models.EngagementStatusQuoted),
		PriceEstimate: &price,
	})
	require.NoError(t, err)
	assert.Equal(t, models.EngagementStatusQuoted, quoted.Status)
	require.NotNil(t, quoted.PriceEstimate)
	assert.Equal(t, 1500.0, *quoted.PriceEstimate)
	assert.Nil(t, quoted.ConfirmedAt)

	accepted, err := transition(t, svc, requester.ID, engagement.ID, models.EngagementStatusAccepted)
	require.NoError(t, err)
	assert.NotNil(t, accepted.ConfirmedAt)
	assert.Nil(t, accepted.CompletedAt)

	started, err := transition(t, svc, artisan.ID, engagement.ID, models.EngagementStatusStarted)
	require.NoError(t, err)
	assert.Equal(t, models.EngagementStatusStarted, started.Status)

	completed, err := transition(t, svc, artisan.ID, engagement.ID, models.EngagementStatusCompleted)
	require.NoError(t, err)
	assert.NotNil(t, completed.CompletedAt)
}

func TestTransitionRejectsSkippedStates(t *testing.T) {
	_, svc, requester, artisan := newEngagementFixture(t)
	engagement := createEngagement(t, svc, requester, artisan)

	_, err := transition(t, svc, requester.ID, engagement.ID, models.EngagementStatusStarted)
	requireCode(t, err, apperrors.CodeInvalidTransition)

	_, err = transition(t, svc, artisan.ID, engagement.ID, models.EngagementStatusQuoted)
	require.NoError(t, err)

	// quoted -> started skips accepted
	_, err = transition(t, svc, requester.ID, engagement.ID, models.EngagementStatusStarted)
	requireCode(t, err, apperrors.CodeInvalidTransition)

	_, err = transition(t, svc, requester.ID, engagement.ID, models.EngagementStatusAccepted)
	require.NoError(t, err)

	// accepted -> completed skips started
	_, err = transition(t, svc, requester.ID, engagement.ID, models.EngagementStatusCompleted)
	requireCode(t, err, apperrors.CodeInvalidTransition)
}

func TestTransitionCancelledIsAbsorbing(t *testing.T) {
	_, svc, requester, artisan := newEngagementFixture(t)
	engagement := createEngagement(t, svc, requester, artisan)

	cancelled, err := transition(t, svc, requester.ID, engagement.ID, models.EngagementStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.EngagementStatusCancelled, cancelled.Status)

	for _, next := range []models.EngagementStatus{
		models.EngagementStatusPending,
		models.EngagementStatusQuoted,
		models.EngagementStatusAccepted,
		models.EngagementStatusStarted,
		models.EngagementStatusCompleted,
	} {
		_, err := transition(t, svc, requester.ID, engagement.ID, next)
		requireCode(t, err, apperrors.CodeInvalidTransition)
	}
}

func TestTransitionOnlyPartiesMayAct(t *testing.T) {
	db, svc, requester, artisan := newEngagementFixture(t)
	engagement := createEngagement(t, svc, requester, artisan)
	stranger := createTestUser(t, db, "other@test.io", "Olo", models.UserRoleUser, "")

	_, err := transition(t, svc, stranger.ID, engagement.ID, models.EngagementStatusCancelled)
	require.Error(t, err)

	// only the artisan can quote
	_, err = transition(t, svc, requester.ID, engagement.ID, models.EngagementStatusQuoted)
	require.Error(t, err)
}

func TestTransitionNotifiesCounterparty(t *testing.T) {
	db, svc, requester, artisan := newEngagementFixture(t)
	engagement := createEngagement(t, svc, requester, artisan)

	_, err := transition(t, svc, artisan.ID, engagement.ID, models.EngagementStatusQuoted)
	require.NoError(t, err)

	var notifications []models.Notification
	require.NoError(t, db.Where("type = ?", repositories.NotificationTypeEngagementStatus).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, requester.ID, notifications[0].RecipientID)
}

func TestLinkReviewOnlyWhenCompleted(t *testing.T) {
	_, svc, requester, artisan := newEngagementFixture(t)
	engagement := createEngagement(t, svc, requester, artisan)

	_, err := svc.LinkReview(context.Background(), requester.ID, engagement.ID, dto.CreateReviewRequest{Rating: 5})
	requireCode(t, err, apperrors.CodeNotEligible)

	_, err = transition(t, svc, artisan.ID, engagement.ID, models.EngagementStatusQuoted)
	require.NoError(t, err)
	_, err = transition(t, svc, requester.ID, engagement.ID, models.EngagementStatusAccepted)
	require.NoError(t, err)
	_, err = transition(t, svc, artisan.ID, engagement.ID, models.EngagementStatusStarted)
	require.NoError(t, err)
	_, err = transition(t, svc, artisan.ID, engagement.ID, models.EngagementStatusCompleted)
	require.NoError(t, err)

	linked, err := svc.LinkReview(context.Background(), requester.ID, engagement.ID, dto.CreateReviewRequest{Rating: 5, ReviewText: "great work"})
	require.NoError(t, err)
	require.NotNil(t, linked.ReviewID)

	// second review rejected
	_, err = svc.LinkReview(context.Background(), requester.ID, engagement.ID, dto.CreateReviewRequest{Rating: 4})
	require.Error(t, err)
}

func TestUpdateShowcaseRequiresCompletion(t *testing.T) {
	_, svc, requester, artisan := newEngagementFixture(t)
	engagement := createEngagement(t, svc, requester, artisan)

	err := svc.UpdateShowcase(context.Background(), artisan.ID, engagement.ID, dto.ShowcaseRequest{
		Description: "before/after",
		IsPublic:    true,
	})
	requireCode(t, err, apperrors.CodeNotEligible)
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}
