package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"allsers_backend/internal/logger"
	"allsers_backend/internal/models"
	"allsers_backend/internal/queue"
	"allsers_backend/internal/repositories"
	"allsers_backend/pkg/apperrors"
)

const excerptLen = 50

// NotificationDispatcher resolves the channel set for a domain event and
// fans it out: exactly one persisted Notification row per event per
// recipient, plus best-effort push/email delivery tasks on the queue.
//
// The persisted write is the primary action; an enqueue failure is logged
// and never surfaced. The dispatcher does not suppress self-notification —
// callers must not dispatch events a user triggered on their own content.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, event Event) error
}

type notificationDispatcher struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	deliveryQueue    queue.Queue
}

func NewNotificationDispatcher(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	deliveryQueue queue.Queue,
) NotificationDispatcher {
	return &notificationDispatcher{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		deliveryQueue:    deliveryQueue,
	}
}

func (d *notificationDispatcher) Dispatch(ctx context.Context, event Event) error {
	channels, ok := eventChannels[event.Type]
	if !ok {
		return apperrors.ErrInvalidOperation("notification", fmt.Sprintf("unknown event type %q", event.Type))
	}

	recipient, err := d.userRepo.FindByID(event.RecipientID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrStaleReference("notification", "recipient no longer exists")
		}
		return apperrors.InternalError(err)
	}

	content := buildContent(event)

	if channels.Persist {
		payload, err := json.Marshal(content.payload)
		if err != nil {
			return apperrors.InternalError(err)
		}

		notification := &models.Notification{
			RecipientID: event.RecipientID,
			Type:        event.Type,
			Title:       content.title,
			Message:     content.body,
			Data:        datatypes.JSON(payload),
		}
		if err := d.notificationRepo.Create(notification); err != nil {
			return apperrors.Wrap(err, apperrors.CodeDatabaseError, "notification", "failed to persist notification", 500)
		}
	}

	if channels.Push && recipient.PushToken != "" {
		task := queue.DeliveryTask{
			Kind:        queue.DeliveryKindPush,
			RecipientID: recipient.ID,
			DeviceToken: recipient.PushToken,
			Title:       content.title,
			Body:        content.body,
			TargetURL:   event.Link,
			Data:        content.payload,
		}
		if err := d.deliveryQueue.Publish(ctx, task); err != nil {
			logger.CtxWithError(ctx, "failed to enqueue push delivery", err,
				"recipient_id", recipient.ID, "type", event.Type)
		}
	}

	if channels.Email && recipient.Email != "" {
		task := queue.DeliveryTask{
			Kind:        queue.DeliveryKindEmail,
			RecipientID: recipient.ID,
			EmailTo:     recipient.Email,
			Title:       content.emailSubject,
			BodyLines:   content.emailBody,
			ActionLabel: content.emailAction,
			TargetURL:   event.Link,
		}
		if err := d.deliveryQueue.Publish(ctx, task); err != nil {
			logger.CtxWithError(ctx, "failed to enqueue email delivery", err,
				"recipient_id", recipient.ID, "type", event.Type)
		}
	}

	return nil
}

// eventContent is everything the channels need, built once per dispatch.
type eventContent struct {
	title        string
	body         string
	payload      map[string]string
	emailSubject string
	emailBody    []string
	emailAction  string
}

// buildContent is the single resolver producing per-variant titles, bodies
// and the fixed payload shape for each event type.
func buildContent(event Event) eventContent {
	switch event.Type {
	case repositories.NotificationTypeMessage:
		return eventContent{
			title: "New message",
			body:  fmt.Sprintf("%s: %s", event.ActorName, excerpt(event.Content)),
			payload: map[string]string{
				"message_id":      event.MessageID,
				"sender_id":       event.ActorID,
				"sender_name":     event.ActorName,
				"excerpt":         excerpt(event.Content),
				"conversation_id": event.ConversationID,
			},
		}

	case repositories.NotificationTypeReply:
		return eventContent{
			title: "New reply",
			body:  fmt.Sprintf("%s replied to your comment", event.ActorName),
			payload: map[string]string{
				"comment_id":   event.CommentID,
				"replier_id":   event.ActorID,
				"replier_name": event.ActorName,
				"reply_id":     event.ReplyID,
				"post_id":      event.PostID,
			},
		}

	case repositories.NotificationTypeLike:
		return eventContent{
			title: "Post liked",
			body:  fmt.Sprintf("%s liked your post", event.ActorName),
			payload: map[string]string{
				"post_id":    event.PostID,
				"liker_id":   event.ActorID,
				"liker_name": event.ActorName,
			},
		}

	case repositories.NotificationTypeUserTagged:
		return eventContent{
			title: "You were tagged",
			body:  fmt.Sprintf("%s tagged you in a post", event.ActorName),
			payload: map[string]string{
				"post_id":       event.PostID,
				"tagger_id":     event.ActorID,
				"tagger_name":   event.ActorName,
				"tagger_avatar": event.ActorAvatar,
				"profile_link":  event.Link,
			},
			emailSubject: "You were tagged in a post",
			emailBody: []string{
				fmt.Sprintf("%s tagged you in a post on Allsers.", event.ActorName),
			},
			emailAction: "View post",
		}

	case repositories.NotificationTypeChallengeInvitation:
		return eventContent{
			title: "Challenge judge invitation",
			body:  fmt.Sprintf("You are invited to judge %q", event.ChallengeTitle),
			payload: map[string]string{
				"challenge_id":    event.ChallengeID,
				"title":           event.ChallengeTitle,
				"invitation_link": event.Link,
			},
			emailSubject: fmt.Sprintf("Invitation to judge %q", event.ChallengeTitle),
			emailBody: []string{
				fmt.Sprintf("You have been invited to judge the challenge %q.", event.ChallengeTitle),
				"Accept or decline the invitation from your dashboard.",
			},
			emailAction: "Respond to invitation",
		}

	case repositories.NotificationTypeChallengeWinner:
		return eventContent{
			title: "Challenge won",
			body:  fmt.Sprintf("You won the challenge %q", event.ChallengeTitle),
			payload: map[string]string{
				"challenge_id": event.ChallengeID,
				"title":        event.ChallengeTitle,
				"profile_link": event.Link,
			},
			emailSubject: fmt.Sprintf("You won %q", event.ChallengeTitle),
			emailBody: []string{
				fmt.Sprintf("Congratulations, your submission won the challenge %q.", event.ChallengeTitle),
				"The badge has been added to your profile.",
			},
			emailAction: "View profile",
		}
	}

	return eventContent{}
}

// excerpt returns the first 50 characters of content, rune-safe, with an
// ellipsis when truncated.
func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLen {
		return content
	}
	return string(runes[:excerptLen]) + "…"
}
