package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"allsers_backend/internal/middleware"
	"allsers_backend/internal/services"
	"allsers_backend/internal/services/dto"
)

type SocialHandler struct {
	*BaseHandler
	socialService services.SocialService
}

func NewSocialHandler(base *BaseHandler, socialService services.SocialService) *SocialHandler {
	return &SocialHandler{BaseHandler: base, socialService: socialService}
}

func (h *SocialHandler) RegisterRoutes(r *gin.RouterGroup) {
	posts := r.Group("/posts")
	posts.Use(middleware.AuthMiddleware())
	{
		posts.POST("", h.CreatePost)
		posts.GET("", h.GetFeed)
		posts.GET("/:postId", h.GetPost)
		posts.DELETE("/:postId", h.DeletePost)
		posts.POST("/:postId/comments", h.CreateComment)
		posts.GET("/:postId/comments", h.ListComments)
		posts.POST("/:postId/like", h.LikePost)
		posts.DELETE("/:postId/like", h.UnlikePost)
		posts.POST("/:postId/repost", h.RepostPost)
	}
}

func (h *SocialHandler) CreatePost(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.socialService.CreatePost(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SocialHandler) GetFeed(c *gin.Context) {
	limit, offset := ParseLimitOffset(c)
	resp, err := h.socialService.GetFeed(c.Request.Context(), limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SocialHandler) GetPost(c *gin.Context) {
	resp, err := h.socialService.GetPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SocialHandler) DeletePost(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.socialService.DeletePost(c.Request.Context(), userID, c.Param("postId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func (h *SocialHandler) CreateComment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.socialService.CreateComment(c.Request.Context(), userID, c.Param("postId"), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SocialHandler) ListComments(c *gin.Context) {
	resp, err := h.socialService.ListComments(c.Request.Context(), c.Param("postId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": resp})
}

func (h *SocialHandler) LikePost(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.socialService.LikePost(c.Request.Context(), userID, c.Param("postId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Post liked"})
}

func (h *SocialHandler) UnlikePost(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.socialService.UnlikePost(c.Request.Context(), userID, c.Param("postId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Like removed"})
}

func (h *SocialHandler) RepostPost(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.socialService.RepostPost(c.Request.Context(), userID, c.Param("postId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Post reposted"})
}
