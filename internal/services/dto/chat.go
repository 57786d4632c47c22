package dto

import "time"

type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

type StartConversationRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type ConversationResponse struct {
	ID            string    `json:"id"`
	ParticipantID string    `json:"participant_id"` // the counterparty from the caller's perspective
	CreatedAt     time.Time `json:"created_at"`
}

type MessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

type MessageListResponse struct {
	Messages []*MessageResponse `json:"messages"`
	Total    int64              `json:"total"`
}
