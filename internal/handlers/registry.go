package handlers

// AppHandlers holds all HTTP handlers.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	NotificationHandler *NotificationHandler
	EngagementHandler   *EngagementHandler
	ChallengeHandler    *ChallengeHandler
	SocialHandler       *SocialHandler
	ChatHandler         *ChatHandler
}
