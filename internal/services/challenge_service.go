package services

import (
	"context"
	"fmt"
	"time"

	"allsers_backend/internal/logger"
	"allsers_backend/internal/models"
	"allsers_backend/internal/repositories"
	"allsers_backend/internal/services/dto"
	"allsers_backend/pkg/apperrors"
)

const challengeDomain = "challenge"

// ChallengeService covers the contest lifecycle: creation, participation,
// judge invitations, rating and the one-shot winner selection.
type ChallengeService interface {
	CreateChallenge(ctx context.Context, creatorID string, isAdmin bool, req dto.CreateChallengeRequest) (*dto.ChallengeResponse, error)
	GetChallenge(ctx context.Context, challengeID string) (*dto.ChallengeResponse, error)
	ListActive(ctx context.Context, limit, offset int) (*dto.ChallengeListResponse, error)
	Join(ctx context.Context, userID, challengeID string) error
	InviteJudge(ctx context.Context, inviterID, challengeID string, req dto.InviteJudgeRequest) error
	RespondToInvitation(ctx context.Context, userID, challengeID string, req dto.RespondInvitationRequest) error
	SetRating(ctx context.Context, judgeID, postID string, req dto.RateRequest) (*dto.PostRatingResponse, error)
	SetWinner(ctx context.Context, actorID, challengeID string, req dto.SetWinnerRequest) error
	CloseExpired(ctx context.Context) (int64, error)
}

type challengeService struct {
	challengeRepo repositories.ChallengeRepository
	postRepo      repositories.PostRepository
	userRepo      repositories.UserRepository
	dispatcher    NotificationDispatcher
	linkBaseURL   string
}

func NewChallengeService(
	challengeRepo repositories.ChallengeRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	dispatcher NotificationDispatcher,
	linkBaseURL string,
) ChallengeService {
	return &challengeService{
		challengeRepo: challengeRepo,
		postRepo:      postRepo,
		userRepo:      userRepo,
		dispatcher:    dispatcher,
		linkBaseURL:   linkBaseURL,
	}
}

func (s *challengeService) CreateChallenge(ctx context.Context, creatorID string, isAdmin bool, req dto.CreateChallengeRequest) (*dto.ChallengeResponse, error) {
	if !req.EndsAt.After(req.StartsAt) {
		return nil, apperrors.ErrInvalidOperation(challengeDomain, "challenge must end after it starts")
	}

	challenge := &models.Challenge{
		CreatorID: creatorID,
		Title:     req.Title,
		Hashtag:   req.Hashtag,
		Guideline: req.Guideline,
		Prize:     req.Prize,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Status:    models.ChallengeStatusActive,
		IsAdmin:   isAdmin,
	}
	if err := s.challengeRepo.Create(challenge); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildChallengeResponse(challenge), nil
}

func (s *challengeService) GetChallenge(ctx context.Context, challengeID string) (*dto.ChallengeResponse, error) {
	challenge, err := s.findChallenge(challengeID)
	if err != nil {
		return nil, err
	}
	return buildChallengeResponse(challenge), nil
}

func (s *challengeService) ListActive(ctx context.Context, limit, offset int) (*dto.ChallengeListResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	challenges, total, err := s.challengeRepo.FindActive(limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.ChallengeResponse, 0, len(challenges))
	for i := range challenges {
		responses = append(responses, buildChallengeResponse(&challenges[i]))
	}
	return &dto.ChallengeListResponse{Challenges: responses, Total: total}, nil
}

func (s *challengeService) Join(ctx context.Context, userID, challengeID string) error {
	challenge, err := s.findChallenge(challengeID)
	if err != nil {
		return err
	}
	if challenge.Status != models.ChallengeStatusActive {
		return apperrors.ErrNotEligible(challengeDomain, "challenge is closed")
	}

	err = s.challengeRepo.AddParticipant(&models.ChallengeParticipant{
		ChallengeID: challengeID,
		UserID:      userID,
	})
	if err != nil {
		if apperrors.Is(err, repositories.ErrParticipantDuplicate) {
			return nil
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// InviteJudge creates a pending invitation and dispatches the
// challenge_invitation notification. Only the challenge creator invites.
func (s *challengeService) InviteJudge(ctx context.Context, inviterID, challengeID string, req dto.InviteJudgeRequest) error {
	challenge, err := s.findChallenge(challengeID)
	if err != nil {
		return err
	}
	if inviterID != challenge.CreatorID {
		return apperrors.NewForbiddenError("only the challenge creator can invite judges")
	}
	if req.UserID == inviterID {
		return apperrors.ErrInvalidOperation(challengeDomain, "cannot invite yourself as a judge")
	}

	if _, err := s.userRepo.FindByID(req.UserID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrStaleReference(challengeDomain, "invited user no longer exists")
		}
		return apperrors.InternalError(err)
	}

	judge := &models.ChallengeJudge{
		ChallengeID: challengeID,
		UserID:      req.UserID,
		Status:      models.JudgeStatusPending,
	}
	if err := s.challengeRepo.CreateJudge(judge); err != nil {
		if apperrors.Is(err, repositories.ErrJudgeAlreadyInvited) {
			return apperrors.ErrConflict(err, challengeDomain, "judge already invited")
		}
		return apperrors.InternalError(err)
	}

	link := fmt.Sprintf("%s/challenges/%s/judging", s.linkBaseURL, challengeID)
	event := NewJudgeInvitationEvent(req.UserID, challengeID, challenge.Title, link)
	if err := s.dispatcher.Dispatch(ctx, event); err != nil {
		logger.CtxWithError(ctx, "failed to dispatch judge invitation", err,
			"challenge_id", challengeID, "user_id", req.UserID)
	}
	return nil
}

func (s *challengeService) RespondToInvitation(ctx context.Context, userID, challengeID string, req dto.RespondInvitationRequest) error {
	judge, err := s.challengeRepo.FindJudge(challengeID, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJudgeNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	next := models.JudgeStatus(req.Status)
	if !judge.Status.CanTransitionTo(next) {
		return apperrors.ErrInvalidTransition(challengeDomain, string(judge.Status), string(next))
	}

	if err := s.challengeRepo.UpdateJudgeStatus(judge.ID, next); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// SetRating upserts the judge's score for a submission. Only accepted
// judges of the post's challenge may rate; a repeated call overwrites.
func (s *challengeService) SetRating(ctx context.Context, judgeID, postID string, req dto.RateRequest) (*dto.PostRatingResponse, error) {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPostNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if post.ChallengeID == nil {
		return nil, apperrors.ErrNotEligible(challengeDomain, "post is not a challenge submission")
	}

	judge, err := s.challengeRepo.FindJudge(*post.ChallengeID, judgeID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJudgeNotFound) {
			return nil, apperrors.NewForbiddenError("only invited judges can rate submissions")
		}
		return nil, apperrors.InternalError(err)
	}
	if judge.Status != models.JudgeStatusAccepted {
		return nil, apperrors.NewForbiddenError("only accepted judges can rate submissions")
	}

	rating := &models.ChallengeRating{
		PostID: postID,
		UserID: judgeID,
		Score:  req.Score,
	}
	if err := s.challengeRepo.UpsertRating(rating); err != nil {
		return nil, apperrors.InternalError(err)
	}

	average, count, err := s.challengeRepo.AverageRating(postID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.PostRatingResponse{PostID: postID, Average: average, Count: count}, nil
}

// SetWinner assigns the winner exactly once, awards the badge and dispatches
// the challenge_winner notification. A second call fails with a conflict.
func (s *challengeService) SetWinner(ctx context.Context, actorID, challengeID string, req dto.SetWinnerRequest) error {
	challenge, err := s.findChallenge(challengeID)
	if err != nil {
		return err
	}
	if actorID != challenge.CreatorID {
		return apperrors.NewForbiddenError("only the challenge creator can set the winner")
	}

	if _, err := s.userRepo.FindByID(req.WinnerID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrStaleReference(challengeDomain, "winner no longer exists")
		}
		return apperrors.InternalError(err)
	}

	if err := s.challengeRepo.SetWinner(challengeID, req.WinnerID); err != nil {
		if apperrors.Is(err, repositories.ErrWinnerAlreadySet) {
			return apperrors.ErrWinnerAlreadySet
		}
		return apperrors.InternalError(err)
	}

	if err := s.awardWinnerBadge(challengeID, req.WinnerID); err != nil {
		logger.CtxWithError(ctx, "failed to award winner badge", err,
			"challenge_id", challengeID, "winner_id", req.WinnerID)
	}

	link := fmt.Sprintf("%s/users/%s", s.linkBaseURL, req.WinnerID)
	event := NewChallengeWinnerEvent(req.WinnerID, challengeID, challenge.Title, link)
	if err := s.dispatcher.Dispatch(ctx, event); err != nil {
		logger.CtxWithError(ctx, "failed to dispatch winner notification", err,
			"challenge_id", challengeID, "winner_id", req.WinnerID)
	}
	return nil
}

func (s *challengeService) CloseExpired(ctx context.Context) (int64, error) {
	closed, err := s.challengeRepo.CloseExpired(time.Now())
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return closed, nil
}

const winnerBadgeName = "challenge_winner"

// awardWinnerBadge is idempotent: the badge row is created on first use and
// the award insert is a no-op when the user already holds it for this
// challenge.
func (s *challengeService) awardWinnerBadge(challengeID, winnerID string) error {
	badge, err := s.challengeRepo.FindBadgeByName(winnerBadgeName)
	if err != nil {
		badge = &models.Badge{
			Name:        winnerBadgeName,
			Description: "Won a community challenge",
		}
		if err := s.challengeRepo.CreateBadge(badge); err != nil {
			return err
		}
	}
	return s.challengeRepo.AwardBadge(&models.UserBadge{
		UserID:      winnerID,
		ChallengeID: challengeID,
		BadgeID:     badge.ID,
	})
}

func (s *challengeService) findChallenge(id string) (*models.Challenge, error) {
	challenge, err := s.challengeRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrChallengeNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return challenge, nil
}

func buildChallengeResponse(c *models.Challenge) *dto.ChallengeResponse {
	return &dto.ChallengeResponse{
		ID:        c.ID,
		CreatorID: c.CreatorID,
		Title:     c.Title,
		Hashtag:   c.Hashtag,
		Guideline: c.Guideline,
		Prize:     c.Prize,
		StartsAt:  c.StartsAt,
		EndsAt:    c.EndsAt,
		Status:    c.Status,
		IsAdmin:   c.IsAdmin,
		WinnerID:  c.WinnerID,
	}
}
