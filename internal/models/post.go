package models

import (
	"gorm.io/datatypes"
)

type Post struct {
	BaseModelWithDeleted
	AuthorID    string `gorm:"not null;index"`
	Body        string
	Photos      datatypes.JSON `gorm:"type:jsonb"`
	Hashtag     string         `gorm:"index"`
	ChallengeID *string        `gorm:"index"` // set when the post is a challenge submission

	Author User `gorm:"foreignKey:AuthorID" json:"-"`
}

// Comment doubles as a reply when ParentID points at another comment.
type Comment struct {
	BaseModel
	PostID   string  `gorm:"not null;index"`
	AuthorID string  `gorm:"not null;index"`
	ParentID *string `gorm:"index"`
	Body     string  `gorm:"not null"`
}

type Like struct {
	BaseModel
	PostID string `gorm:"not null;uniqueIndex:idx_like_post_user"`
	UserID string `gorm:"not null;uniqueIndex:idx_like_post_user"`
}

type Repost struct {
	BaseModel
	PostID string `gorm:"not null;uniqueIndex:idx_repost_post_user"`
	UserID string `gorm:"not null;uniqueIndex:idx_repost_post_user"`
}

// PostTag records a user mentioned in a post.
type PostTag struct {
	BaseModel
	PostID       string `gorm:"not null;uniqueIndex:idx_tag_post_user"`
	TaggedUserID string `gorm:"not null;uniqueIndex:idx_tag_post_user"`
	TaggerID     string `gorm:"not null;index"`
}
