package models

import (
	"time"

	"gorm.io/datatypes"
)

// Engagement tracks a service request between a requester and an artisan,
// from the first inquiry through completion. ConfirmedAt is set exactly once
// on the move to accepted, CompletedAt on the move to completed; review
// linkage and the public showcase fields are only valid once completed.
type Engagement struct {
	BaseModel
	RequesterID    string `gorm:"not null;index"`
	ArtisanID      string `gorm:"not null;index"`
	ConversationID string `gorm:"index"`

	Status EngagementStatus `gorm:"not null;default:'pending'"`
	Title  string           `gorm:"not null"`

	PriceEstimate      *float64
	CompletionEstimate *time.Time
	ConfirmedAt        *time.Time
	CompletedAt        *time.Time
	ReviewID           *string `gorm:"index"`

	IsPublic            bool `gorm:"default:false"`
	ShowcaseDescription string
	ShowcasePhotos      datatypes.JSON `gorm:"type:jsonb"`

	City          string
	Address       *string
	Urgency       UrgencyLevel   `gorm:"not null;default:'medium'"`
	InquiryPhotos datatypes.JSON `gorm:"type:jsonb"`

	// Relations
	Requester User    `gorm:"foreignKey:RequesterID" json:"-"`
	Artisan   User    `gorm:"foreignKey:ArtisanID" json:"-"`
	Review    *Review `gorm:"foreignKey:ReviewID" json:"-"`
}

type Review struct {
	BaseModel
	EngagementID string `gorm:"not null;index"`
	AuthorID     string `gorm:"not null;index"`
	ArtisanID    string `gorm:"not null;index"`
	Rating       int    `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	ReviewText   string
	Status       ReviewStatus `gorm:"not null;default:'pending'"`
}
