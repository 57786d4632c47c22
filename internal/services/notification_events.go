package services

import (
	"allsers_backend/internal/repositories"
)

// Event is a tagged variant: Type selects which fields are meaningful and,
// through the channel table, which channels fire. Use the constructors; the
// dispatcher does not re-validate field presence per variant.
type Event struct {
	Type        string
	RecipientID string

	// message
	MessageID      string
	ConversationID string
	Content        string

	// reply
	CommentID string
	ReplyID   string

	// actor of the triggering action (sender / replier / liker / tagger)
	ActorID     string
	ActorName   string
	ActorAvatar string

	// like / reply / user_tagged
	PostID string

	// challenge_invitation / challenge_winner
	ChallengeID    string
	ChallengeTitle string

	// call-to-action link for email and push
	Link string
}

// channelSet says which channels fire for an event type. Push additionally
// requires a registered device token on the recipient.
type channelSet struct {
	Persist bool
	Push    bool
	Email   bool
}

var eventChannels = map[string]channelSet{
	repositories.NotificationTypeMessage:             {Persist: true},
	repositories.NotificationTypeReply:               {Persist: true, Push: true},
	repositories.NotificationTypeLike:                {Persist: true, Push: true},
	repositories.NotificationTypeUserTagged:          {Persist: true, Push: true, Email: true},
	repositories.NotificationTypeChallengeInvitation: {Persist: true, Email: true},
	repositories.NotificationTypeChallengeWinner:     {Persist: true, Email: true},
}

func NewMessageEvent(recipientID, messageID, senderID, senderName, content, conversationID string) Event {
	return Event{
		Type:           repositories.NotificationTypeMessage,
		RecipientID:    recipientID,
		MessageID:      messageID,
		ActorID:        senderID,
		ActorName:      senderName,
		Content:        content,
		ConversationID: conversationID,
	}
}

func NewReplyEvent(recipientID, commentID, replierID, replierName, replyID, postID string) Event {
	return Event{
		Type:        repositories.NotificationTypeReply,
		RecipientID: recipientID,
		CommentID:   commentID,
		ActorID:     replierID,
		ActorName:   replierName,
		ReplyID:     replyID,
		PostID:      postID,
	}
}

func NewLikeEvent(recipientID, postID, likerID, likerName string) Event {
	return Event{
		Type:        repositories.NotificationTypeLike,
		RecipientID: recipientID,
		PostID:      postID,
		ActorID:     likerID,
		ActorName:   likerName,
	}
}

func NewUserTaggedEvent(recipientID, postID, taggerID, taggerName, taggerAvatar, profileLink string) Event {
	return Event{
		Type:        repositories.NotificationTypeUserTagged,
		RecipientID: recipientID,
		PostID:      postID,
		ActorID:     taggerID,
		ActorName:   taggerName,
		ActorAvatar: taggerAvatar,
		Link:        profileLink,
	}
}

func NewJudgeInvitationEvent(recipientID, challengeID, challengeTitle, invitationLink string) Event {
	return Event{
		Type:           repositories.NotificationTypeChallengeInvitation,
		RecipientID:    recipientID,
		ChallengeID:    challengeID,
		ChallengeTitle: challengeTitle,
		Link:           invitationLink,
	}
}

func NewChallengeWinnerEvent(recipientID, challengeID, challengeTitle, profileLink string) Event {
	return Event{
		Type:           repositories.NotificationTypeChallengeWinner,
		RecipientID:    recipientID,
		ChallengeID:    challengeID,
		ChallengeTitle: challengeTitle,
		Link:           profileLink,
	}
}
