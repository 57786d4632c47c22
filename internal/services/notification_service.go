package services

import (
	"context"
	"encoding/json"
	"math"

	"gorm.io/datatypes"

	"allsers_backend/internal/models"
	"allsers_backend/internal/repositories"
	"allsers_backend/internal/services/dto"
	"allsers_backend/pkg/apperrors"
)

// NotificationService is the inbox surface: users read, mark and delete
// their own notifications, admins query across recipients.
type NotificationService interface {
	GetUserNotifications(ctx context.Context, userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, userID string) (int64, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	DeleteNotification(ctx context.Context, userID, notificationID string) error
	ClearAll(ctx context.Context, userID string) error

	// Admin operations
	GetAllNotifications(ctx context.Context, criteria repositories.AdminNotificationCriteria) (*dto.NotificationListResponse, error)
	GetPlatformStats(ctx context.Context) (*repositories.PlatformNotificationStats, error)
	SendBulk(ctx context.Context, req dto.SendBulkNotificationRequest) (int, error)
	CleanOldNotifications(ctx context.Context, days int) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

func (s *notificationService) GetUserNotifications(ctx context.Context, userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}

	notifications, total, err := s.notificationRepo.FindUserNotifications(userID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, buildNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		Page:          criteria.Page,
		PageSize:      criteria.PageSize,
		TotalPages:    int(math.Ceil(float64(total) / float64(criteria.PageSize))),
	}, nil
}

func (s *notificationService) GetUnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := s.notificationRepo.GetUnreadCount(userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	notification, err := s.findOwned(userID, notificationID)
	if err != nil {
		return err
	}
	if notification.IsRead {
		return nil
	}
	if err := s.notificationRepo.MarkAsRead(notificationID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) DeleteNotification(ctx context.Context, userID, notificationID string) error {
	if _, err := s.findOwned(userID, notificationID); err != nil {
		return err
	}
	if err := s.notificationRepo.Delete(notificationID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) ClearAll(ctx context.Context, userID string) error {
	if err := s.notificationRepo.DeleteUserNotifications(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) GetAllNotifications(ctx context.Context, criteria repositories.AdminNotificationCriteria) (*dto.NotificationListResponse, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}

	notifications, total, err := s.notificationRepo.FindAll(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, buildNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		Page:          criteria.Page,
		PageSize:      criteria.PageSize,
		TotalPages:    int(math.Ceil(float64(total) / float64(criteria.PageSize))),
	}, nil
}

func (s *notificationService) GetPlatformStats(ctx context.Context) (*repositories.PlatformNotificationStats, error) {
	stats, err := s.notificationRepo.GetPlatformStats()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return stats, nil
}

func (s *notificationService) SendBulk(ctx context.Context, req dto.SendBulkNotificationRequest) (int, error) {
	if !repositories.ValidNotificationTypes[req.Type] {
		return 0, apperrors.ErrInvalidOperation("notification", "unknown notification type")
	}

	users, err := s.userRepo.FindByIDs(req.RecipientIDs)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}

	var payload datatypes.JSON
	if len(req.Data) > 0 {
		raw, err := json.Marshal(req.Data)
		if err != nil {
			return 0, apperrors.InternalError(err)
		}
		payload = datatypes.JSON(raw)
	}

	notifications := make([]*models.Notification, 0, len(users))
	for _, user := range users {
		notifications = append(notifications, &models.Notification{
			RecipientID: user.ID,
			Type:        req.Type,
			Title:       req.Title,
			Message:     req.Message,
			Data:        payload,
		})
	}
	if len(notifications) == 0 {
		return 0, nil
	}

	if err := s.notificationRepo.CreateBulk(notifications); err != nil {
		return 0, apperrors.InternalError(err)
	}
	return len(notifications), nil
}

func (s *notificationService) CleanOldNotifications(ctx context.Context, days int) error {
	if days < 1 {
		return apperrors.ErrInvalidOperation("notification", "retention must be at least one day")
	}
	if err := s.notificationRepo.CleanOldNotifications(days); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) findOwned(userID, notificationID string) (*models.Notification, error) {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if notification.RecipientID != userID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return notification, nil
}

func buildNotificationResponse(n *models.Notification) *dto.NotificationResponse {
	resp := &dto.NotificationResponse{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		IsRead:      n.IsRead,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
	if len(n.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(n.Data, &data); err == nil {
			resp.Data = data
		}
	}
	return resp
}
