package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"allsers_backend/internal/logger"
)

// FCMSender sends push notifications through Firebase Cloud Messaging.
type FCMSender struct {
	client *messaging.Client
}

// NewFCMSender builds the FCM client from a service account file. An empty
// path disables push: callers get a NoopSender instead of an error so dev
// environments run without Firebase credentials.
func NewFCMSender(ctx context.Context, credentialsFile string) (Sender, error) {
	if credentialsFile == "" {
		logger.Warn("push disabled: no FCM credentials configured")
		return NoopSender{}, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	logger.Info("push notifications enabled via FCM")
	return &FCMSender{client: client}, nil
}

func (s *FCMSender) Send(ctx context.Context, deviceToken, title, body, targetURL string, data map[string]string) error {
	if deviceToken == "" {
		return nil
	}

	msg := &messaging.Message{
		Token: deviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}

	payload := make(map[string]string, len(data)+1)
	for k, v := range data {
		payload[k] = v
	}
	if targetURL != "" {
		payload["url"] = targetURL
	}
	if len(payload) > 0 {
		msg.Data = payload
	}

	if _, err := s.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}
	return nil
}
