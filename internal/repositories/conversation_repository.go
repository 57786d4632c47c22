package repositories

import (
	"errors"

	"allsers_backend/internal/models"

	"gorm.io/gorm"
)

var ErrConversationNotFound = errors.New("conversation not found")

type ConversationRepository interface {
	// FindOrCreate returns the conversation between two users, creating it
	// when absent. The pair is stored ordered so there is exactly one row
	// per pair.
	FindOrCreate(userA, userB string) (*models.Conversation, error)
	FindByID(id string) (*models.Conversation, error)
	CreateMessage(message *models.ChatMessage) error
	FindMessageByID(id string) (*models.ChatMessage, error)
	ListMessages(conversationID string, limit, offset int) ([]models.ChatMessage, int64, error)
	ListUserConversations(userID string) ([]models.Conversation, error)
}

type ConversationRepositoryImpl struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &ConversationRepositoryImpl{db: db}
}

func orderedPair(userA, userB string) (string, string) {
	if userB < userA {
		return userB, userA
	}
	return userA, userB
}

func (r *ConversationRepositoryImpl) FindOrCreate(userA, userB string) (*models.Conversation, error) {
	a, b := orderedPair(userA, userB)

	var conversation models.Conversation
	err := r.db.First(&conversation, "user_a_id = ? AND user_b_id = ?", a, b).Error
	if err == nil {
		return &conversation, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conversation = models.Conversation{UserAID: a, UserBID: b}
	if err := r.db.Create(&conversation).Error; err != nil {
		if isUniqueViolation(err) {
			// Lost a create race; the row exists now.
			var existing models.Conversation
			if ferr := r.db.First(&existing, "user_a_id = ? AND user_b_id = ?", a, b).Error; ferr == nil {
				return &existing, nil
			}
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *ConversationRepositoryImpl) FindByID(id string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.First(&conversation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *ConversationRepositoryImpl) CreateMessage(message *models.ChatMessage) error {
	return r.db.Create(message).Error
}

func (r *ConversationRepositoryImpl) FindMessageByID(id string) (*models.ChatMessage, error) {
	var message models.ChatMessage
	err := r.db.First(&message, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &message, nil
}

func (r *ConversationRepositoryImpl) ListMessages(conversationID string, limit, offset int) ([]models.ChatMessage, int64, error) {
	query := r.db.Model(&models.ChatMessage{}).Where("conversation_id = ?", conversationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.ChatMessage
	err := query.Order("created_at ASC").Limit(limit).Offset(offset).Find(&messages).Error
	return messages, total, err
}

func (r *ConversationRepositoryImpl) ListUserConversations(userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&conversations).Error
	return conversations, err
}
