package dto

import (
	"time"

	"allsers_backend/internal/models"
)

type CreateChallengeRequest struct {
	Title     string    `json:"title" binding:"required"`
	Hashtag   string    `json:"hashtag" binding:"required"`
	Guideline string    `json:"guideline"`
	Prize     string    `json:"prize"`
	StartsAt  time.Time `json:"starts_at" binding:"required"`
	EndsAt    time.Time `json:"ends_at" binding:"required"`
}

type InviteJudgeRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type RespondInvitationRequest struct {
	Status string `json:"status" binding:"required,is-judge-status"`
}

type RateRequest struct {
	Score int `json:"score" binding:"required,min=1,max=5"`
}

type SetWinnerRequest struct {
	WinnerID string `json:"winner_id" binding:"required"`
}

type ChallengeResponse struct {
	ID        string                 `json:"id"`
	CreatorID string                 `json:"creator_id"`
	Title     string                 `json:"title"`
	Hashtag   string                 `json:"hashtag"`
	Guideline string                 `json:"guideline,omitempty"`
	Prize     string                 `json:"prize,omitempty"`
	StartsAt  time.Time              `json:"starts_at"`
	EndsAt    time.Time              `json:"ends_at"`
	Status    models.ChallengeStatus `json:"status"`
	IsAdmin   bool                   `json:"is_admin"`
	WinnerID  *string                `json:"winner_id,omitempty"`
}

type ChallengeListResponse struct {
	Challenges []*ChallengeResponse `json:"challenges"`
	Total      int64                `json:"total"`
}

type PostRatingResponse struct {
	PostID  string  `json:"post_id"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
