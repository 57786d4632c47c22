package dto

import "time"

type NotificationResponse struct {
	ID          string                 `json:"id"`
	RecipientID string                 `json:"recipient_id"`
	Type        string                 `json:"type"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message,omitempty"`
	Data        map[string]interface{} `json:"data,omitempty"`
	IsRead      bool                   `json:"is_read"`
	ReadAt      *time.Time             `json:"read_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	Page          int                     `json:"page"`
	PageSize      int                     `json:"page_size"`
	TotalPages    int                     `json:"total_pages"`
}

// SendBulkNotificationRequest is the admin broadcast form.
type SendBulkNotificationRequest struct {
	RecipientIDs []string          `json:"recipient_ids" binding:"required,min=1"`
	Type         string            `json:"type" binding:"required"`
	Title        string            `json:"title" binding:"required"`
	Message      string            `json:"message"`
	Data         map[string]string `json:"data"`
}
