package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"allsers_backend/internal/middleware"
	"allsers_backend/internal/services"
	"allsers_backend/internal/services/dto"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
}

func NewChatHandler(base *BaseHandler, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{BaseHandler: base, chatService: chatService}
}

func (h *ChatHandler) RegisterRoutes(r *gin.RouterGroup) {
	conversations := r.Group("/conversations")
	conversations.Use(middleware.AuthMiddleware())
	{
		conversations.POST("", h.StartConversation)
		conversations.GET("", h.ListConversations)
		conversations.GET("/:conversationId/messages", h.ListMessages)
		conversations.POST("/:conversationId/messages", h.SendMessage)
	}
}

func (h *ChatHandler) StartConversation(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.StartConversationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.chatService.StartConversation(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.chatService.ListConversations(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": resp})
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	limit, offset := ParseLimitOffset(c)
	resp, err := h.chatService.ListMessages(c.Request.Context(), userID, c.Param("conversationId"), limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.chatService.SendMessage(c.Request.Context(), userID, c.Param("conversationId"), req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
