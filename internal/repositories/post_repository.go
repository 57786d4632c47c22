package repositories

import (
	"errors"

	"allsers_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrAlreadyLiked    = errors.New("post already liked by this user")
	ErrAlreadyReposted = errors.New("post already reposted by this user")
	ErrAlreadyTagged   = errors.New("user already tagged in this post")
)

type PostRepository interface {
	Create(post *models.Post) error
	FindByID(id string) (*models.Post, error)
	FindByChallenge(challengeID string, limit, offset int) ([]models.Post, int64, error)
	FindUserFeed(limit, offset int) ([]models.Post, int64, error)
	Delete(id string) error

	CreateComment(comment *models.Comment) error
	FindCommentByID(id string) (*models.Comment, error)
	ListComments(postID string) ([]models.Comment, error)

	CreateLike(like *models.Like) error
	DeleteLike(postID, userID string) error
	CountLikes(postID string) (int64, error)

	CreateRepost(repost *models.Repost) error
	CreateTag(tag *models.PostTag) error
}

type PostRepositoryImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &PostRepositoryImpl{db: db}
}

func (r *PostRepositoryImpl) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *PostRepositoryImpl) FindByID(id string) (*models.Post, error) {
	var post models.Post
	err := r.db.First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *PostRepositoryImpl) FindByChallenge(challengeID string, limit, offset int) ([]models.Post, int64, error) {
	query := r.db.Model(&models.Post{}).Where("challenge_id = ?", challengeID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error
	return posts, total, err
}

func (r *PostRepositoryImpl) FindUserFeed(limit, offset int) ([]models.Post, int64, error) {
	var total int64
	if err := r.db.Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error
	return posts, total, err
}

func (r *PostRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Post{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Comments

func (r *PostRepositoryImpl) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *PostRepositoryImpl) FindCommentByID(id string) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *PostRepositoryImpl) ListComments(postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("post_id = ?", postID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

// Likes

func (r *PostRepositoryImpl) CreateLike(like *models.Like) error {
	err := r.db.Create(like).Error
	if err != nil && isUniqueViolation(err) {
		return ErrAlreadyLiked
	}
	return err
}

func (r *PostRepositoryImpl) DeleteLike(postID, userID string) error {
	return r.db.Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{}).Error
}

func (r *PostRepositoryImpl) CountLikes(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// Reposts and tags

func (r *PostRepositoryImpl) CreateRepost(repost *models.Repost) error {
	err := r.db.Create(repost).Error
	if err != nil && isUniqueViolation(err) {
		return ErrAlreadyReposted
	}
	return err
}

func (r *PostRepositoryImpl) CreateTag(tag *models.PostTag) error {
	err := r.db.Create(tag).Error
	if err != nil && isUniqueViolation(err) {
		return ErrAlreadyTagged
	}
	return err
}
