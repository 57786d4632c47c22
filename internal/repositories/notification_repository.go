package repositories

import (
	"errors"
	"time"

	"allsers_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// Notification type constants. The payload keys stored in Notification.Data
// are fixed per type; see services.NotificationDispatcher.
const (
	NotificationTypeMessage             = "message"
	NotificationTypeReply               = "reply"
	NotificationTypeLike                = "like"
	NotificationTypeUserTagged          = "user_tagged"
	NotificationTypeChallengeInvitation = "challenge_invitation"
	NotificationTypeChallengeWinner     = "challenge_winner"

	// Written directly by the engagement service, not dispatched as an event.
	NotificationTypeEngagementStatus = "engagement_status"
)

// ValidNotificationTypes is the closed set accepted by the repository.
var ValidNotificationTypes = map[string]bool{
	NotificationTypeMessage:             true,
	NotificationTypeReply:               true,
	NotificationTypeLike:                true,
	NotificationTypeUserTagged:          true,
	NotificationTypeChallengeInvitation: true,
	NotificationTypeChallengeWinner:     true,
	NotificationTypeEngagementStatus:    true,
}

type NotificationRepository interface {
	Create(notification *models.Notification) error
	CreateBulk(notifications []*models.Notification) error
	FindByID(id string) (*models.Notification, error)
	FindUserNotifications(recipientID string, criteria NotificationCriteria) ([]models.Notification, int64, error)
	MarkAsRead(notificationID string) error
	MarkAllAsRead(recipientID string) error
	Delete(id string) error
	DeleteUserNotifications(recipientID string) error
	GetUnreadCount(recipientID string) (int64, error)

	// Admin operations
	FindAll(criteria AdminNotificationCriteria) ([]models.Notification, int64, error)
	GetPlatformStats() (*PlatformNotificationStats, error)
	CleanOldNotifications(days int) error
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

type NotificationCriteria struct {
	UnreadOnly bool   `form:"unread_only"`
	Type       string `form:"type"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type AdminNotificationCriteria struct {
	RecipientID string `form:"recipient_id"`
	Type        string `form:"type"`
	UnreadOnly  bool   `form:"unread_only"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

type PlatformNotificationStats struct {
	TotalNotifications int64            `json:"total_notifications"`
	UnreadCount        int64            `json:"unread_count"`
	TodayCount         int64            `json:"today_count"`
	ByType             map[string]int64 `json:"by_type"`
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) validate(notification *models.Notification) error {
	if notification.RecipientID == "" {
		return errors.New("notification recipient is required")
	}
	if !ValidNotificationTypes[notification.Type] {
		return errors.New("unknown notification type: " + notification.Type)
	}
	return nil
}

func (r *NotificationRepositoryImpl) Create(notification *models.Notification) error {
	if err := r.validate(notification); err != nil {
		return err
	}
	return r.db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) CreateBulk(notifications []*models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	for _, notification := range notifications {
		if err := r.validate(notification); err != nil {
			return err
		}
	}
	return r.db.CreateInBatches(notifications, 100).Error
}

func (r *NotificationRepositoryImpl) FindByID(id string) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindUserNotifications(recipientID string, criteria NotificationCriteria) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	query := r.db.Where("recipient_id = ?", recipientID)

	if criteria.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if criteria.Type != "" {
		query = query.Where("type = ?", criteria.Type)
	}

	var total int64
	if err := query.Model(&models.Notification{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	err := query.Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(notificationID string) error {
	result := r.db.Model(&models.Notification{}).Where("id = ?", notificationID).Updates(map[string]interface{}{
		"is_read": true,
		"read_at": time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(recipientID string) error {
	return r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": time.Now(),
		}).Error
}

func (r *NotificationRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) DeleteUserNotifications(recipientID string) error {
	return r.db.Where("recipient_id = ?", recipientID).Delete(&models.Notification{}).Error
}

func (r *NotificationRepositoryImpl) GetUnreadCount(recipientID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// Admin operations

func (r *NotificationRepositoryImpl) FindAll(criteria AdminNotificationCriteria) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	query := r.db.Model(&models.Notification{})

	if criteria.RecipientID != "" {
		query = query.Where("recipient_id = ?", criteria.RecipientID)
	}
	if criteria.Type != "" {
		query = query.Where("type = ?", criteria.Type)
	}
	if criteria.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	err := query.Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *NotificationRepositoryImpl) GetPlatformStats() (*PlatformNotificationStats, error) {
	var stats PlatformNotificationStats
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if err := r.db.Model(&models.Notification{}).Count(&stats.TotalNotifications).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Notification{}).Where("is_read = ?", false).
		Count(&stats.UnreadCount).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Notification{}).Where("created_at >= ?", todayStart).
		Count(&stats.TodayCount).Error; err != nil {
		return nil, err
	}

	stats.ByType = make(map[string]int64)
	var typeStats []struct {
		Type  string
		Count int64
	}
	if err := r.db.Model(&models.Notification{}).
		Select("type, count(*) as count").
		Group("type").
		Scan(&typeStats).Error; err != nil {
		return nil, err
	}
	for _, ts := range typeStats {
		stats.ByType[ts.Type] = ts.Count
	}

	return &stats, nil
}

func (r *NotificationRepositoryImpl) CleanOldNotifications(days int) error {
	cutoff := time.Now().AddDate(0, 0, -days)
	return r.db.Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&models.Notification{}).Error
}
