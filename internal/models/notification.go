package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	RecipientID string `gorm:"not null;index"`
	Type        string `gorm:"not null"` // "message", "reply", "like", "user_tagged", "challenge_invitation", "challenge_winner"
	Title       string `gorm:"not null"`
	Message     string
	Data        datatypes.JSON `gorm:"type:jsonb"` // payload keys fixed per type, e.g. {"post_id": "...", "liker_id": "..."}
	IsRead      bool           `gorm:"default:false"`
	ReadAt      *time.Time
}
