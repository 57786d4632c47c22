package models

import (
	"time"
)

// Challenge is a time-boxed community contest tied to a hashtag. WinnerID is
// immutable once set.
type ChallengeStatus string

const (
	ChallengeStatusActive ChallengeStatus = "active"
	ChallengeStatusClosed ChallengeStatus = "closed"
)

type Challenge struct {
	BaseModel
	CreatorID string `gorm:"not null;index"`
	Title     string `gorm:"not null"`
	Hashtag   string `gorm:"uniqueIndex;not null"`
	Guideline string
	Prize     string
	StartsAt  time.Time
	EndsAt    time.Time
	Status    ChallengeStatus `gorm:"not null;default:'active'"`
	IsAdmin   bool            `gorm:"default:false"` // created by platform staff
	WinnerID  *string         `gorm:"index"`

	Creator User  `gorm:"foreignKey:CreatorID" json:"-"`
	Winner  *User `gorm:"foreignKey:WinnerID" json:"-"`
}

type ChallengeParticipant struct {
	BaseModel
	ChallengeID string `gorm:"not null;uniqueIndex:idx_challenge_participant"`
	UserID      string `gorm:"not null;uniqueIndex:idx_challenge_participant"`
}

// ChallengeJudge is a judging invitation. One invitation per (challenge, user);
// pending→accepted / pending→declined, no reversal.
type ChallengeJudge struct {
	BaseModel
	ChallengeID string      `gorm:"not null;uniqueIndex:idx_challenge_judge"`
	UserID      string      `gorm:"not null;uniqueIndex:idx_challenge_judge"`
	Status      JudgeStatus `gorm:"not null;default:'pending'"`
}

// ChallengeRating is a 1–5 score for a submission post. The unique index on
// (post, user) is the sole concurrency guard: concurrent duplicate creates
// fail on the index and fall back to update-in-place.
type ChallengeRating struct {
	BaseModel
	PostID string `gorm:"not null;uniqueIndex:idx_rating_post_user"`
	UserID string `gorm:"not null;uniqueIndex:idx_rating_post_user"`
	Score  int    `gorm:"not null;check:score >= 1 AND score <= 5"`
}

type Badge struct {
	BaseModel
	Name        string `gorm:"uniqueIndex;not null"`
	Description string
	IconURL     string
}

// UserBadge is awarded once per challenge outcome.
type UserBadge struct {
	BaseModel
	UserID      string `gorm:"not null;uniqueIndex:idx_user_badge_challenge"`
	ChallengeID string `gorm:"not null;uniqueIndex:idx_user_badge_challenge"`
	BadgeID     string `gorm:"not null;index"`
}
