package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"allsers_backend/internal/middleware"
	"allsers_backend/internal/models"
	"allsers_backend/internal/services"
	"allsers_backend/internal/services/dto"
)

type ChallengeHandler struct {
	*BaseHandler
	challengeService services.ChallengeService
	socialService    services.SocialService
}

func NewChallengeHandler(base *BaseHandler, challengeService services.ChallengeService, socialService services.SocialService) *ChallengeHandler {
	return &ChallengeHandler{
		BaseHandler:      base,
		challengeService: challengeService,
		socialService:    socialService,
	}
}

func (h *ChallengeHandler) RegisterRoutes(r *gin.RouterGroup) {
	challenges := r.Group("/challenges")
	challenges.Use(middleware.AuthMiddleware())
	{
		challenges.POST("", h.CreateChallenge)
		challenges.GET("", h.ListActive)
		challenges.GET("/:challengeId", h.GetChallenge)
		challenges.GET("/:challengeId/posts", h.GetChallengePosts)
		challenges.POST("/:challengeId/join", h.Join)
		challenges.POST("/:challengeId/judges", h.InviteJudge)
		challenges.PUT("/:challengeId/judges/me", h.RespondToInvitation)
		challenges.PUT("/:challengeId/winner", h.SetWinner)
	}

	posts := r.Group("/posts")
	posts.Use(middleware.AuthMiddleware())
	{
		posts.PUT("/:postId/rating", h.RatePost)
	}

	admin := r.Group("/admin/challenges")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.POST("/close-expired", h.CloseExpired)
	}
}

func (h *ChallengeHandler) CreateChallenge(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateChallengeRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	isAdmin := h.GetUserRole(c) == models.UserRoleAdmin
	resp, err := h.challengeService.CreateChallenge(c.Request.Context(), userID, isAdmin, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ChallengeHandler) ListActive(c *gin.Context) {
	limit, offset := ParseLimitOffset(c)
	resp, err := h.challengeService.ListActive(c.Request.Context(), limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChallengeHandler) GetChallenge(c *gin.Context) {
	resp, err := h.challengeService.GetChallenge(c.Request.Context(), c.Param("challengeId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChallengeHandler) GetChallengePosts(c *gin.Context) {
	limit, offset := ParseLimitOffset(c)
	resp, err := h.socialService.GetChallengePosts(c.Request.Context(), c.Param("challengeId"), limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChallengeHandler) Join(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.challengeService.Join(c.Request.Context(), userID, c.Param("challengeId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Joined challenge"})
}

func (h *ChallengeHandler) InviteJudge(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.InviteJudgeRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.challengeService.InviteJudge(c.Request.Context(), userID, c.Param("challengeId"), req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Judge invited"})
}

func (h *ChallengeHandler) RespondToInvitation(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RespondInvitationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.challengeService.RespondToInvitation(c.Request.Context(), userID, c.Param("challengeId"), req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invitation updated"})
}

func (h *ChallengeHandler) RatePost(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RateRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.challengeService.SetRating(c.Request.Context(), userID, c.Param("postId"), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChallengeHandler) SetWinner(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SetWinnerRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.challengeService.SetWinner(c.Request.Context(), userID, c.Param("challengeId"), req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Winner set"})
}

func (h *ChallengeHandler) CloseExpired(c *gin.Context) {
	closed, err := h.challengeService.CloseExpired(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"closed": closed})
}
