package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"allsers_backend/internal/models"
	"allsers_backend/internal/repositories"
	"allsers_backend/internal/services/dto"
	"allsers_backend/pkg/apperrors"
)

type challengeFixture struct {
	db        *gorm.DB
	repos     *repositories.RepositoryContainer
	queue     *fakeQueue
	svc       ChallengeService
	social    SocialService
	creator   *models.User
	judge     *models.User
	author    *models.User
	challenge *dto.ChallengeResponse
}

func newChallengeFixture(t *testing.T) *challengeFixture {
	t.Helper()
	db, repos := newTestRepos(t)
	q := &fakeQueue{}
	dispatcher := NewNotificationDispatcher(repos.Notifications, repos.Users, q)
	svc := NewChallengeService(repos.Challenges, repos.Posts, repos.Users, dispatcher, "https://allsers.test")
	social := NewSocialService(repos.Posts, repos.Users, repos.Challenges, dispatcher, "https://allsers.test")

	creator := createTestUser(t, db, "creator@test.io", "Cleo", models.UserRoleUser, "")
	judge := createTestUser(t, db, "judge@test.io", "Jules", models.UserRoleUser, "")
	author := createTestUser(t, db, "author@test.io", "Avery", models.UserRoleUser, "")

	challenge, err := svc.CreateChallenge(context.Background(), creator.ID, false, dto.CreateChallengeRequest{
		Title:    "Best Renovation",
		Hashtag:  "bestreno",
		StartsAt: time.Now().Add(-time.Hour),
		EndsAt:   time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	return &challengeFixture{
		db: db, repos: repos, queue: q, svc: svc, social: social,
		creator: creator, judge: judge, author: author, challenge: challenge,
	}
}

func (f *challengeFixture) submitPost(t *testing.T) *dto.PostResponse {
	t.Helper()
	post, err := f.social.CreatePost(context.Background(), f.author.ID, dto.CreatePostRequest{
		Body:    "my renovation",
		Hashtag: "bestreno",
	})
	require.NoError(t, err)
	require.NotNil(t, post.ChallengeID)
	return post
}

func (f *challengeFixture) acceptJudge(t *testing.T) {
	t.Helper()
	require.NoError(t, f.svc.InviteJudge(context.Background(), f.creator.ID, f.challenge.ID, dto.InviteJudgeRequest{UserID: f.judge.ID}))
	require.NoError(t, f.svc.RespondToInvitation(context.Background(), f.judge.ID, f.challenge.ID, dto.RespondInvitationRequest{
		Status: string(models.JudgeStatusAccepted),
	}))
}

func TestInviteJudgeDispatchesInvitation(t *testing.T) {
	f := newChallengeFixture(t)

	require.NoError(t, f.svc.InviteJudge(context.Background(), f.creator.ID, f.challenge.ID, dto.InviteJudgeRequest{UserID: f.judge.ID}))

	var notifications []models.Notification
	require.NoError(t, f.db.Where("type = ?", repositories.NotificationTypeChallengeInvitation).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, f.judge.ID, notifications[0].RecipientID)

	// duplicate invitation rejected
	err := f.svc.InviteJudge(context.Background(), f.creator.ID, f.challenge.ID, dto.InviteJudgeRequest{UserID: f.judge.ID})
	requireCode(t, err, apperrors.CodeConflict)
}

func TestRespondToInvitationIsOneWay(t *testing.T) {
	f := newChallengeFixture(t)
	f.acceptJudge(t)

	err := f.svc.RespondToInvitation(context.Background(), f.judge.ID, f.challenge.ID, dto.RespondInvitationRequest{
		Status: string(models.JudgeStatusDeclined),
	})
	requireCode(t, err, apperrors.CodeInvalidTransition)
}

func TestSetRatingUpsertsByPostAndJudge(t *testing.T) {
	f := newChallengeFixture(t)
	f.acceptJudge(t)
	post := f.submitPost(t)

	first, err := f.svc.SetRating(context.Background(), f.judge.ID, post.ID, dto.RateRequest{Score: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 1, first.Count)
	assert.Equal(t, 3.0, first.Average)

	second, err := f.svc.SetRating(context.Background(), f.judge.ID, post.ID, dto.RateRequest{Score: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 1, second.Count, "resubmission must overwrite, not add a row")
	assert.Equal(t, 5.0, second.Average)

	var ratings []models.ChallengeRating
	require.NoError(t, f.db.Where("post_id = ?", post.ID).Find(&ratings).Error)
	require.Len(t, ratings, 1)
	assert.Equal(t, 5, ratings[0].Score)
}

func TestSetRatingRequiresAcceptedJudge(t *testing.T) {
	f := newChallengeFixture(t)
	post := f.submitPost(t)

	// never invited
	_, err := f.svc.SetRating(context.Background(), f.judge.ID, post.ID, dto.RateRequest{Score: 4})
	require.Error(t, err)

	// invited but still pending
	require.NoError(t, f.svc.InviteJudge(context.Background(), f.creator.ID, f.challenge.ID, dto.InviteJudgeRequest{UserID: f.judge.ID}))
	_, err = f.svc.SetRating(context.Background(), f.judge.ID, post.ID, dto.RateRequest{Score: 4})
	require.Error(t, err)
}

func TestSetRatingRejectsNonSubmissionPost(t *testing.T) {
	f := newChallengeFixture(t)
	f.acceptJudge(t)

	plain, err := f.social.CreatePost(context.Background(), f.author.ID, dto.CreatePostRequest{Body: "no hashtag"})
	require.NoError(t, err)

	_, err = f.svc.SetRating(context.Background(), f.judge.ID, plain.ID, dto.RateRequest{Score: 4})
	requireCode(t, err, apperrors.CodeNotEligible)
}

func TestSetWinnerIsOneShot(t *testing.T) {
	f := newChallengeFixture(t)

	require.NoError(t, f.svc.SetWinner(context.Background(), f.creator.ID, f.challenge.ID, dto.SetWinnerRequest{WinnerID: f.author.ID}))

	updated, err := f.svc.GetChallenge(context.Background(), f.challenge.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.WinnerID)
	assert.Equal(t, f.author.ID, *updated.WinnerID)

	// winner notification persisted
	var notifications []models.Notification
	require.NoError(t, f.db.Where("type = ?", repositories.NotificationTypeChallengeWinner).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, f.author.ID, notifications[0].RecipientID)

	// badge awarded
	var badges []models.UserBadge
	require.NoError(t, f.db.Where("user_id = ? AND challenge_id = ?", f.author.ID, f.challenge.ID).Find(&badges).Error)
	require.Len(t, badges, 1)

	// second winner rejected, first stays
	err = f.svc.SetWinner(context.Background(), f.creator.ID, f.challenge.ID, dto.SetWinnerRequest{WinnerID: f.judge.ID})
	require.Error(t, err)

	unchanged, err := f.svc.GetChallenge(context.Background(), f.challenge.ID)
	require.NoError(t, err)
	require.NotNil(t, unchanged.WinnerID)
	assert.Equal(t, f.author.ID, *unchanged.WinnerID)
}

func TestSubmissionEnrollsParticipant(t *testing.T) {
	f := newChallengeFixture(t)
	f.submitPost(t)

	var participants []models.ChallengeParticipant
	require.NoError(t, f.db.Where("challenge_id = ?", f.challenge.ID).Find(&participants).Error)
	require.Len(t, participants, 1)
	assert.Equal(t, f.author.ID, participants[0].UserID)

	// a second submission does not duplicate the enrollment
	f.submitPost(t)
	require.NoError(t, f.db.Where("challenge_id = ?", f.challenge.ID).Find(&participants).Error)
	assert.Len(t, participants, 1)
}

func TestCloseExpiredClosesPastChallenges(t *testing.T) {
	f := newChallengeFixture(t)

	expired, err := f.svc.CreateChallenge(context.Background(), f.creator.ID, false, dto.CreateChallengeRequest{
		Title:    "Old",
		Hashtag:  "old",
		StartsAt: time.Now().Add(-48 * time.Hour),
		EndsAt:   time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	closed, err := f.svc.CloseExpired(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, closed)

	got, err := f.svc.GetChallenge(context.Background(), expired.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeStatusClosed, got.Status)

	still, err := f.svc.GetChallenge(context.Background(), f.challenge.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeStatusActive, still.Status)
}
