package models

// Conversation is a two-party chat thread. One conversation per user pair;
// the pair is stored ordered (UserAID < UserBID) so the unique index holds.
type Conversation struct {
	BaseModel
	UserAID string `gorm:"not null;uniqueIndex:idx_conversation_pair"`
	UserBID string `gorm:"not null;uniqueIndex:idx_conversation_pair"`
}

// OtherParticipant returns the counterparty of userID, or "" when userID is
// not part of the conversation.
func (c *Conversation) OtherParticipant(userID string) string {
	switch userID {
	case c.UserAID:
		return c.UserBID
	case c.UserBID:
		return c.UserAID
	}
	return ""
}

type ChatMessage struct {
	BaseModel
	ConversationID string `gorm:"not null;index"`
	SenderID       string `gorm:"not null;index"`
	Body           string `gorm:"not null"`
}
