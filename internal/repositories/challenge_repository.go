package repositories

import (
	"errors"
	"time"

	"allsers_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrChallengeNotFound    = errors.New("challenge not found")
	ErrJudgeNotFound        = errors.New("judge invitation not found")
	ErrJudgeAlreadyInvited  = errors.New("judge already invited for this challenge")
	ErrWinnerAlreadySet     = errors.New("challenge winner already set")
	ErrParticipantDuplicate = errors.New("user already participates in this challenge")
)

type ChallengeRepository interface {
	Create(challenge *models.Challenge) error
	FindByID(id string) (*models.Challenge, error)
	FindByHashtag(hashtag string) (*models.Challenge, error)
	FindActive(limit, offset int) ([]models.Challenge, int64, error)
	// SetWinner assigns the winner exactly once; a second call returns
	// ErrWinnerAlreadySet. The guard is the conditional update, not a read.
	SetWinner(challengeID, winnerID string) error
	CloseExpired(now time.Time) (int64, error)

	AddParticipant(participant *models.ChallengeParticipant) error
	ListParticipants(challengeID string) ([]models.ChallengeParticipant, error)

	CreateJudge(judge *models.ChallengeJudge) error
	FindJudge(challengeID, userID string) (*models.ChallengeJudge, error)
	UpdateJudgeStatus(judgeID string, status models.JudgeStatus) error
	ListAcceptedJudges(challengeID string) ([]models.ChallengeJudge, error)

	// UpsertRating stores a rating keyed by (post, user): a repeated
	// submission overwrites the prior score instead of creating a row.
	UpsertRating(rating *models.ChallengeRating) error
	FindRating(postID, userID string) (*models.ChallengeRating, error)
	AverageRating(postID string) (float64, int64, error)

	FindBadgeByName(name string) (*models.Badge, error)
	CreateBadge(badge *models.Badge) error
	AwardBadge(userBadge *models.UserBadge) error
}

type ChallengeRepositoryImpl struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &ChallengeRepositoryImpl{db: db}
}

func (r *ChallengeRepositoryImpl) Create(challenge *models.Challenge) error {
	return r.db.Create(challenge).Error
}

func (r *ChallengeRepositoryImpl) FindByID(id string) (*models.Challenge, error) {
	var challenge models.Challenge
	err := r.db.First(&challenge, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

func (r *ChallengeRepositoryImpl) FindByHashtag(hashtag string) (*models.Challenge, error) {
	var challenge models.Challenge
	err := r.db.First(&challenge, "hashtag = ?", hashtag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

func (r *ChallengeRepositoryImpl) FindActive(limit, offset int) ([]models.Challenge, int64, error) {
	now := time.Now()
	query := r.db.Model(&models.Challenge{}).
		Where("status = ? AND starts_at <= ? AND ends_at > ?", models.ChallengeStatusActive, now, now)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var challenges []models.Challenge
	err := query.Order("ends_at ASC").Limit(limit).Offset(offset).Find(&challenges).Error
	return challenges, total, err
}

func (r *ChallengeRepositoryImpl) SetWinner(challengeID, winnerID string) error {
	result := r.db.Model(&models.Challenge{}).
		Where("id = ? AND winner_id IS NULL", challengeID).
		Update("winner_id", winnerID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either the challenge is gone or the winner was already assigned.
		if _, err := r.FindByID(challengeID); err != nil {
			return err
		}
		return ErrWinnerAlreadySet
	}
	return nil
}

func (r *ChallengeRepositoryImpl) CloseExpired(now time.Time) (int64, error) {
	result := r.db.Model(&models.Challenge{}).
		Where("status = ? AND ends_at <= ?", models.ChallengeStatusActive, now).
		Update("status", models.ChallengeStatusClosed)
	return result.RowsAffected, result.Error
}

// Participants

func (r *ChallengeRepositoryImpl) AddParticipant(participant *models.ChallengeParticipant) error {
	err := r.db.Create(participant).Error
	if err != nil && isUniqueViolation(err) {
		return ErrParticipantDuplicate
	}
	return err
}

func (r *ChallengeRepositoryImpl) ListParticipants(challengeID string) ([]models.ChallengeParticipant, error) {
	var participants []models.ChallengeParticipant
	err := r.db.Where("challenge_id = ?", challengeID).Find(&participants).Error
	return participants, err
}

// Judges

func (r *ChallengeRepositoryImpl) CreateJudge(judge *models.ChallengeJudge) error {
	err := r.db.Create(judge).Error
	if err != nil && isUniqueViolation(err) {
		return ErrJudgeAlreadyInvited
	}
	return err
}

func (r *ChallengeRepositoryImpl) FindJudge(challengeID, userID string) (*models.ChallengeJudge, error) {
	var judge models.ChallengeJudge
	err := r.db.First(&judge, "challenge_id = ? AND user_id = ?", challengeID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJudgeNotFound
		}
		return nil, err
	}
	return &judge, nil
}

func (r *ChallengeRepositoryImpl) UpdateJudgeStatus(judgeID string, status models.JudgeStatus) error {
	result := r.db.Model(&models.ChallengeJudge{}).Where("id = ?", judgeID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJudgeNotFound
	}
	return nil
}

func (r *ChallengeRepositoryImpl) ListAcceptedJudges(challengeID string) ([]models.ChallengeJudge, error) {
	var judges []models.ChallengeJudge
	err := r.db.Where("challenge_id = ? AND status = ?", challengeID, models.JudgeStatusAccepted).
		Find(&judges).Error
	return judges, err
}

// Ratings

func (r *ChallengeRepositoryImpl) UpsertRating(rating *models.ChallengeRating) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"score": rating.Score, "updated_at": time.Now()}),
	}).Create(rating).Error
}

func (r *ChallengeRepositoryImpl) FindRating(postID, userID string) (*models.ChallengeRating, error) {
	var rating models.ChallengeRating
	err := r.db.First(&rating, "post_id = ? AND user_id = ?", postID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (r *ChallengeRepositoryImpl) AverageRating(postID string) (float64, int64, error) {
	var result struct {
		Avg   float64
		Count int64
	}
	err := r.db.Model(&models.ChallengeRating{}).
		Select("COALESCE(AVG(score), 0) as avg, COUNT(*) as count").
		Where("post_id = ?", postID).
		Scan(&result).Error
	return result.Avg, result.Count, err
}

// Badges

func (r *ChallengeRepositoryImpl) FindBadgeByName(name string) (*models.Badge, error) {
	var badge models.Badge
	err := r.db.First(&badge, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &badge, nil
}

func (r *ChallengeRepositoryImpl) CreateBadge(badge *models.Badge) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(badge).Error
}

// AwardBadge is idempotent per (user, challenge): the unique index absorbs a
// duplicate award.
func (r *ChallengeRepositoryImpl) AwardBadge(userBadge *models.UserBadge) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "challenge_id"}},
		DoNothing: true,
	}).Create(userBadge).Error
}
