package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"allsers_backend/internal/logger"
	"allsers_backend/internal/models"
	"allsers_backend/internal/repositories"
	"allsers_backend/internal/services/dto"
	"allsers_backend/pkg/apperrors"
)

const socialDomain = "social"

// SocialService handles posts, comments, likes, reposts and tagging. It is
// the main event source for the dispatcher; every dispatch site suppresses
// self-notification before calling Dispatch.
type SocialService interface {
	CreatePost(ctx context.Context, authorID string, req dto.CreatePostRequest) (*dto.PostResponse, error)
	GetPost(ctx context.Context, postID string) (*dto.PostResponse, error)
	GetFeed(ctx context.Context, limit, offset int) (*dto.PostListResponse, error)
	GetChallengePosts(ctx context.Context, challengeID string, limit, offset int) (*dto.PostListResponse, error)
	DeletePost(ctx context.Context, actorID, postID string) error

	CreateComment(ctx context.Context, authorID, postID string, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, postID string) ([]*dto.CommentResponse, error)

	LikePost(ctx context.Context, userID, postID string) error
	UnlikePost(ctx context.Context, userID, postID string) error
	RepostPost(ctx context.Context, userID, postID string) error
}

type socialService struct {
	postRepo      repositories.PostRepository
	userRepo      repositories.UserRepository
	challengeRepo repositories.ChallengeRepository
	dispatcher    NotificationDispatcher
	linkBaseURL   string
}

func NewSocialService(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	challengeRepo repositories.ChallengeRepository,
	dispatcher NotificationDispatcher,
	linkBaseURL string,
) SocialService {
	return &socialService{
		postRepo:      postRepo,
		userRepo:      userRepo,
		challengeRepo: challengeRepo,
		dispatcher:    dispatcher,
		linkBaseURL:   linkBaseURL,
	}
}

// CreatePost publishes a post. A hashtag matching an active challenge turns
// the post into a submission and enrolls the author as a participant. Each
// tagged user other than the author gets a user_tagged notification.
func (s *socialService) CreatePost(ctx context.Context, authorID string, req dto.CreatePostRequest) (*dto.PostResponse, error) {
	author, err := s.userRepo.FindByID(authorID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrStaleReference(socialDomain, "author no longer exists")
		}
		return nil, apperrors.InternalError(err)
	}

	post := &models.Post{
		AuthorID: authorID,
		Body:     req.Body,
		Hashtag:  req.Hashtag,
	}
	if len(req.Photos) > 0 {
		raw, err := json.Marshal(req.Photos)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		post.Photos = datatypes.JSON(raw)
	}

	if req.Hashtag != "" {
		challenge, err := s.challengeRepo.FindByHashtag(req.Hashtag)
		if err == nil && challenge.Status == models.ChallengeStatusActive {
			post.ChallengeID = &challenge.ID
		} else if err != nil && !apperrors.Is(err, repositories.ErrChallengeNotFound) {
			return nil, apperrors.InternalError(err)
		}
	}

	if err := s.postRepo.Create(post); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if post.ChallengeID != nil {
		err := s.challengeRepo.AddParticipant(&models.ChallengeParticipant{
			ChallengeID: *post.ChallengeID,
			UserID:      authorID,
		})
		if err != nil && !apperrors.Is(err, repositories.ErrParticipantDuplicate) {
			logger.CtxWithError(ctx, "failed to enroll challenge participant", err,
				"challenge_id", *post.ChallengeID, "user_id", authorID)
		}
	}

	for _, taggedID := range req.TaggedUserIDs {
		if taggedID == authorID {
			continue
		}
		tag := &models.PostTag{PostID: post.ID, TaggedUserID: taggedID, TaggerID: authorID}
		if err := s.postRepo.CreateTag(tag); err != nil {
			if apperrors.Is(err, repositories.ErrAlreadyTagged) {
				continue
			}
			logger.CtxWithError(ctx, "failed to tag user", err,
				"post_id", post.ID, "tagged_user_id", taggedID)
			continue
		}

		link := fmt.Sprintf("%s/posts/%s", s.linkBaseURL, post.ID)
		event := NewUserTaggedEvent(taggedID, post.ID, authorID, author.Name, author.AvatarURL, link)
		if err := s.dispatcher.Dispatch(ctx, event); err != nil {
			logger.CtxWithError(ctx, "failed to dispatch tag notification", err,
				"post_id", post.ID, "tagged_user_id", taggedID)
		}
	}

	return s.buildPostResponse(post)
}

func (s *socialService) GetPost(ctx context.Context, postID string) (*dto.PostResponse, error) {
	post, err := s.findPost(postID)
	if err != nil {
		return nil, err
	}
	return s.buildPostResponse(post)
}

func (s *socialService) GetFeed(ctx context.Context, limit, offset int) (*dto.PostListResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	posts, total, err := s.postRepo.FindUserFeed(limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.buildPostList(posts, total)
}

func (s *socialService) GetChallengePosts(ctx context.Context, challengeID string, limit, offset int) (*dto.PostListResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	posts, total, err := s.postRepo.FindByChallenge(challengeID, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.buildPostList(posts, total)
}

func (s *socialService) DeletePost(ctx context.Context, actorID, postID string) error {
	post, err := s.findPost(postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actorID {
		return apperrors.ErrInsufficientPermissions
	}
	if err := s.postRepo.Delete(postID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// CreateComment adds a comment, or a reply when ParentID is set. A reply to
// another user's comment dispatches the reply event to the parent's author.
func (s *socialService) CreateComment(ctx context.Context, authorID, postID string, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if _, err := s.findPost(postID); err != nil {
		return nil, err
	}

	var parent *models.Comment
	if req.ParentID != nil {
		var err error
		parent, err = s.postRepo.FindCommentByID(*req.ParentID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrCommentNotFound) {
				return nil, apperrors.ErrStaleReference(socialDomain, "parent comment no longer exists")
			}
			return nil, apperrors.InternalError(err)
		}
		if parent.PostID != postID {
			return nil, apperrors.ErrInvalidOperation(socialDomain, "parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		ParentID: req.ParentID,
		Body:     req.Body,
	}
	if err := s.postRepo.CreateComment(comment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if parent != nil && parent.AuthorID != authorID {
		author, err := s.userRepo.FindByID(authorID)
		if err == nil {
			event := NewReplyEvent(parent.AuthorID, parent.ID, authorID, author.Name, comment.ID, postID)
			if err := s.dispatcher.Dispatch(ctx, event); err != nil {
				logger.CtxWithError(ctx, "failed to dispatch reply notification", err,
					"comment_id", parent.ID, "reply_id", comment.ID)
			}
		}
	}

	return buildCommentResponse(comment), nil
}

func (s *socialService) ListComments(ctx context.Context, postID string) ([]*dto.CommentResponse, error) {
	comments, err := s.postRepo.ListComments(postID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	responses := make([]*dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, buildCommentResponse(&comments[i]))
	}
	return responses, nil
}

// LikePost records the like and notifies the post author, unless the liker
// is the author.
func (s *socialService) LikePost(ctx context.Context, userID, postID string) error {
	post, err := s.findPost(postID)
	if err != nil {
		return err
	}

	if err := s.postRepo.CreateLike(&models.Like{PostID: postID, UserID: userID}); err != nil {
		if apperrors.Is(err, repositories.ErrAlreadyLiked) {
			return apperrors.ErrConflict(err, socialDomain, "post already liked")
		}
		return apperrors.InternalError(err)
	}

	if post.AuthorID != userID {
		liker, err := s.userRepo.FindByID(userID)
		if err == nil {
			event := NewLikeEvent(post.AuthorID, postID, userID, liker.Name)
			if err := s.dispatcher.Dispatch(ctx, event); err != nil {
				logger.CtxWithError(ctx, "failed to dispatch like notification", err,
					"post_id", postID, "liker_id", userID)
			}
		}
	}
	return nil
}

func (s *socialService) UnlikePost(ctx context.Context, userID, postID string) error {
	if err := s.postRepo.DeleteLike(postID, userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *socialService) RepostPost(ctx context.Context, userID, postID string) error {
	if _, err := s.findPost(postID); err != nil {
		return err
	}
	if err := s.postRepo.CreateRepost(&models.Repost{PostID: postID, UserID: userID}); err != nil {
		if apperrors.Is(err, repositories.ErrAlreadyReposted) {
			return apperrors.ErrConflict(err, socialDomain, "post already reposted")
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *socialService) findPost(id string) (*models.Post, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPostNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return post, nil
}

func (s *socialService) buildPostResponse(post *models.Post) (*dto.PostResponse, error) {
	likes, err := s.postRepo.CountLikes(post.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.PostResponse{
		ID:          post.ID,
		AuthorID:    post.AuthorID,
		Body:        post.Body,
		Hashtag:     post.Hashtag,
		ChallengeID: post.ChallengeID,
		LikeCount:   likes,
		CreatedAt:   post.CreatedAt,
	}
	if len(post.Photos) > 0 {
		var photos []string
		if err := json.Unmarshal(post.Photos, &photos); err == nil {
			resp.Photos = photos
		}
	}
	return resp, nil
}

func (s *socialService) buildPostList(posts []models.Post, total int64) (*dto.PostListResponse, error) {
	responses := make([]*dto.PostResponse, 0, len(posts))
	for i := range posts {
		resp, err := s.buildPostResponse(&posts[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return &dto.PostListResponse{Posts: responses, Total: total}, nil
}

func buildCommentResponse(c *models.Comment) *dto.CommentResponse {
	return &dto.CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		ParentID:  c.ParentID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}
