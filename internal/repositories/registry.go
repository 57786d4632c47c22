package repositories

import "gorm.io/gorm"

// RepositoryContainer holds all data-access implementations.
type RepositoryContainer struct {
	Users         UserRepository
	Notifications NotificationRepository
	Engagements   EngagementRepository
	Challenges    ChallengeRepository
	Posts         PostRepository
	Conversations ConversationRepository
}

func NewRepositoryContainer(db *gorm.DB) *RepositoryContainer {
	return &RepositoryContainer{
		Users:         NewUserRepository(db),
		Notifications: NewNotificationRepository(db),
		Engagements:   NewEngagementRepository(db),
		Challenges:    NewChallengeRepository(db),
		Posts:         NewPostRepository(db),
		Conversations: NewConversationRepository(db),
	}
}
