package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"allsers_backend/internal/middleware"
	"allsers_backend/internal/models"
	"allsers_backend/internal/repositories"
	"allsers_backend/internal/services"
	"allsers_backend/internal/services/dto"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", h.GetUserNotifications)
		notifications.GET("/unread-count", h.GetUnreadCount)
		notifications.PUT("/:notificationId/read", h.MarkAsRead)
		notifications.PUT("/read-all", h.MarkAllAsRead)
		notifications.DELETE("/:notificationId", h.DeleteNotification)
		notifications.DELETE("", h.ClearAll)
	}

	admin := r.Group("/admin/notifications")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.GET("", h.GetAllNotifications)
		admin.GET("/stats", h.GetPlatformStats)
		admin.POST("/bulk-send", h.SendBulk)
		admin.DELETE("/cleanup", h.CleanOldNotifications)
	}
}

func (h *NotificationHandler) GetUserNotifications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var criteria repositories.NotificationCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	resp, err := h.notificationService.GetUserNotifications(c.Request.Context(), userID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	count, err := h.notificationService.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAsRead(c.Request.Context(), userID, c.Param("notificationId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAllAsRead(c.Request.Context(), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.DeleteNotification(c.Request.Context(), userID, c.Param("notificationId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

func (h *NotificationHandler) ClearAll(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.notificationService.ClearAll(c.Request.Context(), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notifications cleared"})
}

// --- Admin ---

func (h *NotificationHandler) GetAllNotifications(c *gin.Context) {
	var criteria repositories.AdminNotificationCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	resp, err := h.notificationService.GetAllNotifications(c.Request.Context(), criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NotificationHandler) GetPlatformStats(c *gin.Context) {
	stats, err := h.notificationService.GetPlatformStats(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *NotificationHandler) SendBulk(c *gin.Context) {
	var req dto.SendBulkNotificationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	sent, err := h.notificationService.SendBulk(c.Request.Context(), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": sent})
}

func (h *NotificationHandler) CleanOldNotifications(c *gin.Context) {
	days := ParseQueryInt(c, "days", 90)
	if err := h.notificationService.CleanOldNotifications(c.Request.Context(), days); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Old notifications cleaned"})
}
