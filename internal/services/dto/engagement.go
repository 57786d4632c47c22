package dto

import (
	"time"

	"allsers_backend/internal/models"
)

type CreateEngagementRequest struct {
	ArtisanID     string   `json:"artisan_id" binding:"required"`
	Title         string   `json:"title" binding:"required"`
	City          string   `json:"city"`
	Address       *string  `json:"address"`
	Urgency       string   `json:"urgency" binding:"omitempty,oneof=low medium high"`
	InquiryPhotos []string `json:"inquiry_photos"`
}

type TransitionRequest struct {
	Status string `json:"status" binding:"required,is-engagement-status"`
	// Quote details, accepted on the pending→quoted move only.
	PriceEstimate      *float64   `json:"price_estimate"`
	CompletionEstimate *time.Time `json:"completion_estimate"`
}

type ShowcaseRequest struct {
	Description string   `json:"description" binding:"required"`
	Photos      []string `json:"photos"`
	IsPublic    bool     `json:"is_public"`
}

type CreateReviewRequest struct {
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	ReviewText string `json:"review_text"`
}

type EngagementResponse struct {
	ID                 string                  `json:"id"`
	RequesterID        string                  `json:"requester_id"`
	ArtisanID          string                  `json:"artisan_id"`
	ConversationID     string                  `json:"conversation_id,omitempty"`
	Status             models.EngagementStatus `json:"status"`
	Title              string                  `json:"title"`
	PriceEstimate      *float64                `json:"price_estimate,omitempty"`
	CompletionEstimate *time.Time              `json:"completion_estimate,omitempty"`
	ConfirmedAt        *time.Time              `json:"confirmed_at,omitempty"`
	CompletedAt        *time.Time              `json:"completed_at,omitempty"`
	ReviewID           *string                 `json:"review_id,omitempty"`
	IsPublic           bool                    `json:"is_public"`
	City               string                  `json:"city,omitempty"`
	Urgency            models.UrgencyLevel     `json:"urgency"`
	CreatedAt          time.Time               `json:"created_at"`
}

type EngagementListResponse struct {
	Engagements []*EngagementResponse `json:"engagements"`
	Total       int64                 `json:"total"`
	Page        int                   `json:"page"`
	PageSize    int                   `json:"page_size"`
}
