package services

import (
	"gorm.io/gorm"

	"allsers_backend/internal/queue"
	"allsers_backend/internal/repositories"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	AuthService         AuthService
	NotificationService NotificationService
	Dispatcher          NotificationDispatcher
	EngagementService   EngagementService
	ChallengeService    ChallengeService
	SocialService       SocialService
	ChatService         ChatService
}

// NewServiceContainer wires repositories, the delivery queue and the link
// base URL into the full service set.
func NewServiceContainer(
	db *gorm.DB,
	repos *repositories.RepositoryContainer,
	deliveryQueue queue.Queue,
	linkBaseURL string,
) *ServiceContainer {
	dispatcher := NewNotificationDispatcher(repos.Notifications, repos.Users, deliveryQueue)

	return &ServiceContainer{
		AuthService:         NewAuthService(repos.Users),
		NotificationService: NewNotificationService(repos.Notifications, repos.Users),
		Dispatcher:          dispatcher,
		EngagementService:   NewEngagementService(db, repos.Engagements, repos.Conversations, repos.Users),
		ChallengeService:    NewChallengeService(repos.Challenges, repos.Posts, repos.Users, dispatcher, linkBaseURL),
		SocialService:       NewSocialService(repos.Posts, repos.Users, repos.Challenges, dispatcher, linkBaseURL),
		ChatService:         NewChatService(repos.Conversations, repos.Users, dispatcher),
	}
}
