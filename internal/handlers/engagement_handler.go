package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"allsers_backend/internal/middleware"
	"allsers_backend/internal/repositories"
	"allsers_backend/internal/services"
	"allsers_backend/internal/services/dto"
)

type EngagementHandler struct {
	*BaseHandler
	engagementService services.EngagementService
}

func NewEngagementHandler(base *BaseHandler, engagementService services.EngagementService) *EngagementHandler {
	return &EngagementHandler{
		BaseHandler:       base,
		engagementService: engagementService,
	}
}

func (h *EngagementHandler) RegisterRoutes(r *gin.RouterGroup) {
	engagements := r.Group("/engagements")
	engagements.Use(middleware.AuthMiddleware())
	{
		engagements.POST("", h.CreateEngagement)
		engagements.GET("", h.ListUserEngagements)
		engagements.GET("/:engagementId", h.GetEngagement)
		engagements.PUT("/:engagementId/status", h.Transition)
		engagements.POST("/:engagementId/review", h.LinkReview)
		engagements.PUT("/:engagementId/showcase", h.UpdateShowcase)
	}
}

func (h *EngagementHandler) CreateEngagement(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEngagementRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.engagementService.CreateEngagement(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *EngagementHandler) ListUserEngagements(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var criteria repositories.EngagementCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	resp, err := h.engagementService.ListUserEngagements(c.Request.Context(), userID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EngagementHandler) GetEngagement(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.engagementService.GetEngagement(c.Request.Context(), userID, c.Param("engagementId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EngagementHandler) Transition(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.TransitionRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.engagementService.Transition(c.Request.Context(), userID, c.Param("engagementId"), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EngagementHandler) LinkReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.engagementService.LinkReview(c.Request.Context(), userID, c.Param("engagementId"), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *EngagementHandler) UpdateShowcase(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ShowcaseRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.engagementService.UpdateShowcase(c.Request.Context(), userID, c.Param("engagementId"), req); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Showcase updated"})
}
