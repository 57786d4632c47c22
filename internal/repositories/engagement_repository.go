package repositories

import (
	"errors"

	"allsers_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrEngagementNotFound = errors.New("engagement not found")
	ErrReviewNotFound     = errors.New("review not found")
)

type EngagementRepository interface {
	Create(engagement *models.Engagement) error
	FindByID(id string) (*models.Engagement, error)
	FindByConversation(conversationID string) (*models.Engagement, error)
	FindUserEngagements(userID string, criteria EngagementCriteria) ([]models.Engagement, int64, error)
	Save(engagement *models.Engagement) error
	// SaveTx persists the engagement inside an existing transaction; the
	// engagement service uses it so a status change and its timestamp side
	// effect land atomically.
	SaveTx(tx *gorm.DB, engagement *models.Engagement) error
	UpdateShowcase(id string, description string, photos []byte, isPublic bool) error

	CreateReview(review *models.Review) error
	FindReviewByID(id string) (*models.Review, error)
	UpdateReviewStatus(reviewID string, status models.ReviewStatus) error
}

type EngagementCriteria struct {
	Status   models.EngagementStatus `form:"status"`
	Role     string                  `form:"role"` // "requester" or "artisan"
	Page     int                     `form:"page" binding:"omitempty,min=1"`
	PageSize int                     `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type EngagementRepositoryImpl struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &EngagementRepositoryImpl{db: db}
}

func (r *EngagementRepositoryImpl) Create(engagement *models.Engagement) error {
	return r.db.Create(engagement).Error
}

func (r *EngagementRepositoryImpl) FindByID(id string) (*models.Engagement, error) {
	var engagement models.Engagement
	err := r.db.First(&engagement, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEngagementNotFound
		}
		return nil, err
	}
	return &engagement, nil
}

func (r *EngagementRepositoryImpl) FindByConversation(conversationID string) (*models.Engagement, error) {
	var engagement models.Engagement
	err := r.db.First(&engagement, "conversation_id = ?", conversationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEngagementNotFound
		}
		return nil, err
	}
	return &engagement, nil
}

func (r *EngagementRepositoryImpl) FindUserEngagements(userID string, criteria EngagementCriteria) ([]models.Engagement, int64, error) {
	var engagements []models.Engagement
	query := r.db.Model(&models.Engagement{})

	switch criteria.Role {
	case "requester":
		query = query.Where("requester_id = ?", userID)
	case "artisan":
		query = query.Where("artisan_id = ?", userID)
	default:
		query = query.Where("requester_id = ? OR artisan_id = ?", userID, userID)
	}

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	err := query.Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&engagements).Error

	return engagements, total, err
}

func (r *EngagementRepositoryImpl) Save(engagement *models.Engagement) error {
	return r.db.Save(engagement).Error
}

func (r *EngagementRepositoryImpl) SaveTx(tx *gorm.DB, engagement *models.Engagement) error {
	return tx.Save(engagement).Error
}

func (r *EngagementRepositoryImpl) UpdateShowcase(id string, description string, photos []byte, isPublic bool) error {
	updates := map[string]interface{}{
		"showcase_description": description,
		"is_public":            isPublic,
	}
	if photos != nil {
		updates["showcase_photos"] = photos
	}

	result := r.db.Model(&models.Engagement{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEngagementNotFound
	}
	return nil
}

// Reviews

func (r *EngagementRepositoryImpl) CreateReview(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *EngagementRepositoryImpl) FindReviewByID(id string) (*models.Review, error) {
	var review models.Review
	err := r.db.First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *EngagementRepositoryImpl) UpdateReviewStatus(reviewID string, status models.ReviewStatus) error {
	result := r.db.Model(&models.Review{}).Where("id = ?", reviewID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
