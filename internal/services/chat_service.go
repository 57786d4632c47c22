package services

import (
	"context"

	"allsers_backend/internal/logger"
	"allsers_backend/internal/models"
	"allsers_backend/internal/repositories"
	"allsers_backend/internal/services/dto"
	"allsers_backend/pkg/apperrors"
)

const chatDomain = "chat"

// ChatService manages two-party conversations. Sending a message raises the
// message event for the counterparty only, never for the sender.
type ChatService interface {
	StartConversation(ctx context.Context, userID string, req dto.StartConversationRequest) (*dto.ConversationResponse, error)
	ListConversations(ctx context.Context, userID string) ([]*dto.ConversationResponse, error)
	SendMessage(ctx context.Context, senderID, conversationID string, req dto.SendMessageRequest) (*dto.MessageResponse, error)
	ListMessages(ctx context.Context, userID, conversationID string, limit, offset int) (*dto.MessageListResponse, error)
}

type chatService struct {
	conversations repositories.ConversationRepository
	userRepo      repositories.UserRepository
	dispatcher    NotificationDispatcher
}

func NewChatService(
	conversations repositories.ConversationRepository,
	userRepo repositories.UserRepository,
	dispatcher NotificationDispatcher,
) ChatService {
	return &chatService{
		conversations: conversations,
		userRepo:      userRepo,
		dispatcher:    dispatcher,
	}
}

func (s *chatService) StartConversation(ctx context.Context, userID string, req dto.StartConversationRequest) (*dto.ConversationResponse, error) {
	if req.UserID == userID {
		return nil, apperrors.ErrInvalidOperation(chatDomain, "cannot start a conversation with yourself")
	}
	if _, err := s.userRepo.FindByID(req.UserID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrStaleReference(chatDomain, "user no longer exists")
		}
		return nil, apperrors.InternalError(err)
	}

	conversation, err := s.conversations.FindOrCreate(userID, req.UserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildConversationResponse(conversation, userID), nil
}

func (s *chatService) ListConversations(ctx context.Context, userID string) ([]*dto.ConversationResponse, error) {
	conversations, err := s.conversations.ListUserConversations(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	responses := make([]*dto.ConversationResponse, 0, len(conversations))
	for i := range conversations {
		responses = append(responses, buildConversationResponse(&conversations[i], userID))
	}
	return responses, nil
}

func (s *chatService) SendMessage(ctx context.Context, senderID, conversationID string, req dto.SendMessageRequest) (*dto.MessageResponse, error) {
	conversation, err := s.findConversation(conversationID)
	if err != nil {
		return nil, err
	}
	recipientID := conversation.OtherParticipant(senderID)
	if recipientID == "" {
		return nil, apperrors.ErrInsufficientPermissions
	}

	message := &models.ChatMessage{
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           req.Body,
	}
	if err := s.conversations.CreateMessage(message); err != nil {
		return nil, apperrors.InternalError(err)
	}

	sender, err := s.userRepo.FindByID(senderID)
	if err == nil {
		event := NewMessageEvent(recipientID, message.ID, senderID, sender.Name, req.Body, conversationID)
		if err := s.dispatcher.Dispatch(ctx, event); err != nil {
			logger.CtxWithError(ctx, "failed to dispatch message notification", err,
				"conversation_id", conversationID, "message_id", message.ID)
		}
	}

	return buildMessageResponse(message), nil
}

func (s *chatService) ListMessages(ctx context.Context, userID, conversationID string, limit, offset int) (*dto.MessageListResponse, error) {
	conversation, err := s.findConversation(conversationID)
	if err != nil {
		return nil, err
	}
	if conversation.OtherParticipant(userID) == "" {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if limit < 1 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	messages, total, err := s.conversations.ListMessages(conversationID, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, buildMessageResponse(&messages[i]))
	}
	return &dto.MessageListResponse{Messages: responses, Total: total}, nil
}

func (s *chatService) findConversation(id string) (*models.Conversation, error) {
	conversation, err := s.conversations.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrConversationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return conversation, nil
}

func buildConversationResponse(c *models.Conversation, viewerID string) *dto.ConversationResponse {
	return &dto.ConversationResponse{
		ID:            c.ID,
		ParticipantID: c.OtherParticipant(viewerID),
		CreatedAt:     c.CreatedAt,
	}
}

func buildMessageResponse(m *models.ChatMessage) *dto.MessageResponse {
	return &dto.MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		CreatedAt:      m.CreatedAt,
	}
}
