package dto

import "time"

type CreatePostRequest struct {
	Body    string   `json:"body" binding:"required"`
	Photos  []string `json:"photos"`
	Hashtag string   `json:"hashtag"`
	// Users mentioned in the post; each gets a user_tagged notification.
	TaggedUserIDs []string `json:"tagged_user_ids"`
}

type CreateCommentRequest struct {
	Body     string  `json:"body" binding:"required"`
	ParentID *string `json:"parent_id"`
}

type PostResponse struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	Body        string    `json:"body"`
	Photos      []string  `json:"photos,omitempty"`
	Hashtag     string    `json:"hashtag,omitempty"`
	ChallengeID *string   `json:"challenge_id,omitempty"`
	LikeCount   int64     `json:"like_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type PostListResponse struct {
	Posts []*PostResponse `json:"posts"`
	Total int64           `json:"total"`
}

type CommentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	ParentID  *string   `json:"parent_id,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
