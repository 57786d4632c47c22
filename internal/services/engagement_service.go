package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"allsers_backend/internal/models"
	"allsers_backend/internal/repositories"
	"allsers_backend/internal/services/dto"
	"allsers_backend/pkg/apperrors"
)

const engagementDomain = "engagement"

// EngagementService drives the requester/artisan engagement lifecycle.
// Every operation takes the acting user explicitly; there is no ambient
// session. Status transitions and their timestamp side effects are applied
// in a single database transaction, together with the counterparty's
// engagement_status notification.
type EngagementService interface {
	CreateEngagement(ctx context.Context, requesterID string, req dto.CreateEngagementRequest) (*dto.EngagementResponse, error)
	GetEngagement(ctx context.Context, actorID, engagementID string) (*dto.EngagementResponse, error)
	ListUserEngagements(ctx context.Context, userID string, criteria repositories.EngagementCriteria) (*dto.EngagementListResponse, error)
	Transition(ctx context.Context, actorID, engagementID string, req dto.TransitionRequest) (*dto.EngagementResponse, error)
	LinkReview(ctx context.Context, authorID, engagementID string, req dto.CreateReviewRequest) (*dto.EngagementResponse, error)
	UpdateShowcase(ctx context.Context, actorID, engagementID string, req dto.ShowcaseRequest) error
}

type engagementService struct {
	db             *gorm.DB
	engagementRepo repositories.EngagementRepository
	conversations  repositories.ConversationRepository
	userRepo       repositories.UserRepository
}

func NewEngagementService(
	db *gorm.DB,
	engagementRepo repositories.EngagementRepository,
	conversations repositories.ConversationRepository,
	userRepo repositories.UserRepository,
) EngagementService {
	return &engagementService{
		db:             db,
		engagementRepo: engagementRepo,
		conversations:  conversations,
		userRepo:       userRepo,
	}
}

func (s *engagementService) CreateEngagement(ctx context.Context, requesterID string, req dto.CreateEngagementRequest) (*dto.EngagementResponse, error) {
	if req.ArtisanID == requesterID {
		return nil, apperrors.ErrInvalidOperation(engagementDomain, "cannot open an engagement with yourself")
	}

	artisan, err := s.userRepo.FindByID(req.ArtisanID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrStaleReference(engagementDomain, "artisan no longer exists")
		}
		return nil, apperrors.InternalError(err)
	}
	if artisan.Role != models.UserRoleArtisan {
		return nil, apperrors.ErrNotEligible(engagementDomain, "target user is not an artisan")
	}

	conversation, err := s.conversations.FindOrCreate(requesterID, req.ArtisanID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	engagement := &models.Engagement{
		RequesterID:    requesterID,
		ArtisanID:      req.ArtisanID,
		ConversationID: conversation.ID,
		Status:         models.EngagementStatusPending,
		Title:          req.Title,
		City:           req.City,
		Address:        req.Address,
		Urgency:        models.UrgencyMedium,
	}
	if req.Urgency != "" {
		engagement.Urgency = models.UrgencyLevel(req.Urgency)
	}
	if len(req.InquiryPhotos) > 0 {
		raw, err := json.Marshal(req.InquiryPhotos)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		engagement.InquiryPhotos = datatypes.JSON(raw)
	}

	if err := s.engagementRepo.Create(engagement); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildEngagementResponse(engagement), nil
}

func (s *engagementService) GetEngagement(ctx context.Context, actorID, engagementID string) (*dto.EngagementResponse, error) {
	engagement, err := s.findEngagement(engagementID)
	if err != nil {
		return nil, err
	}
	if !isParty(engagement, actorID) && !engagement.IsPublic {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return buildEngagementResponse(engagement), nil
}

func (s *engagementService) ListUserEngagements(ctx context.Context, userID string, criteria repositories.EngagementCriteria) (*dto.EngagementListResponse, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}

	engagements, total, err := s.engagementRepo.FindUserEngagements(userID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.EngagementResponse, 0, len(engagements))
	for i := range engagements {
		responses = append(responses, buildEngagementResponse(&engagements[i]))
	}
	return &dto.EngagementListResponse{
		Engagements: responses,
		Total:       total,
		Page:        criteria.Page,
		PageSize:    criteria.PageSize,
	}, nil
}

// Transition moves the engagement along the status machine. The status
// change, its timestamp side effect and the counterparty notification are
// written in one transaction.
func (s *engagementService) Transition(ctx context.Context, actorID, engagementID string, req dto.TransitionRequest) (*dto.EngagementResponse, error) {
	engagement, err := s.findEngagement(engagementID)
	if err != nil {
		return nil, err
	}
	if !isParty(engagement, actorID) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	next := models.EngagementStatus(req.Status)
	if !engagement.Status.CanTransitionTo(next) {
		return nil, apperrors.ErrInvalidTransition(engagementDomain, string(engagement.Status), string(next))
	}

	now := time.Now()
	switch next {
	case models.EngagementStatusQuoted:
		if actorID != engagement.ArtisanID {
			return nil, apperrors.NewForbiddenError("only the artisan can quote")
		}
		engagement.PriceEstimate = req.PriceEstimate
		engagement.CompletionEstimate = req.CompletionEstimate
	case models.EngagementStatusAccepted:
		if engagement.ConfirmedAt != nil {
			return nil, apperrors.ErrInvalidTransition(engagementDomain, string(engagement.Status), string(next))
		}
		engagement.ConfirmedAt = &now
	case models.EngagementStatusCompleted:
		engagement.CompletedAt = &now
	}
	engagement.Status = next

	counterpartyID := engagement.RequesterID
	if actorID == engagement.RequesterID {
		counterpartyID = engagement.ArtisanID
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.engagementRepo.SaveTx(tx, engagement); err != nil {
			return err
		}

		payload, err := json.Marshal(map[string]string{
			"engagement_id": engagement.ID,
			"status":        string(next),
			"actor_id":      actorID,
		})
		if err != nil {
			return err
		}
		notification := &models.Notification{
			RecipientID: counterpartyID,
			Type:        repositories.NotificationTypeEngagementStatus,
			Title:       "Engagement updated",
			Message:     fmt.Sprintf("%q is now %s", engagement.Title, next),
			Data:        datatypes.JSON(payload),
		}
		return tx.Create(notification).Error
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return buildEngagementResponse(engagement), nil
}

// LinkReview attaches the requester's review to a completed engagement.
func (s *engagementService) LinkReview(ctx context.Context, authorID, engagementID string, req dto.CreateReviewRequest) (*dto.EngagementResponse, error) {
	engagement, err := s.findEngagement(engagementID)
	if err != nil {
		return nil, err
	}
	if authorID != engagement.RequesterID {
		return nil, apperrors.NewForbiddenError("only the requester can review")
	}
	if engagement.Status != models.EngagementStatusCompleted {
		return nil, apperrors.ErrNotEligible(engagementDomain, "not eligible for review")
	}
	if engagement.ReviewID != nil {
		return nil, apperrors.ErrConflict(nil, engagementDomain, "engagement already has a review")
	}

	review := &models.Review{
		EngagementID: engagement.ID,
		AuthorID:     authorID,
		ArtisanID:    engagement.ArtisanID,
		Rating:       req.Rating,
		ReviewText:   req.ReviewText,
		Status:       models.ReviewStatusPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		engagement.ReviewID = &review.ID
		return s.engagementRepo.SaveTx(tx, engagement)
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return buildEngagementResponse(engagement), nil
}

func (s *engagementService) UpdateShowcase(ctx context.Context, actorID, engagementID string, req dto.ShowcaseRequest) error {
	engagement, err := s.findEngagement(engagementID)
	if err != nil {
		return err
	}
	if actorID != engagement.ArtisanID {
		return apperrors.NewForbiddenError("only the artisan can edit the showcase")
	}
	if engagement.Status != models.EngagementStatusCompleted {
		return apperrors.ErrNotEligible(engagementDomain, "showcase requires a completed engagement")
	}

	var photos []byte
	if req.Photos != nil {
		photos, err = json.Marshal(req.Photos)
		if err != nil {
			return apperrors.InternalError(err)
		}
	}
	if err := s.engagementRepo.UpdateShowcase(engagementID, req.Description, photos, req.IsPublic); err != nil {
		if apperrors.Is(err, repositories.ErrEngagementNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *engagementService) findEngagement(id string) (*models.Engagement, error) {
	engagement, err := s.engagementRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrEngagementNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return engagement, nil
}

func isParty(e *models.Engagement, userID string) bool {
	return userID == e.RequesterID || userID == e.ArtisanID
}

func buildEngagementResponse(e *models.Engagement) *dto.EngagementResponse {
	return &dto.EngagementResponse{
		ID:                 e.ID,
		RequesterID:        e.RequesterID,
		ArtisanID:          e.ArtisanID,
		ConversationID:     e.ConversationID,
		Status:             e.Status,
		Title:              e.Title,
		PriceEstimate:      e.PriceEstimate,
		CompletionEstimate: e.CompletionEstimate,
		ConfirmedAt:        e.ConfirmedAt,
		CompletedAt:        e.CompletedAt,
		ReviewID:           e.ReviewID,
		IsPublic:           e.IsPublic,
		City:               e.City,
		Urgency:            e.Urgency,
		CreatedAt:          e.CreatedAt,
	}
}
