package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"allsers_backend/internal/models"
	"allsers_backend/internal/queue"
	"allsers_backend/internal/repositories"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Notification{},
		&models.Engagement{},
		&models.Review{},
		&models.Conversation{},
		&models.ChatMessage{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Repost{},
		&models.PostTag{},
		&models.Challenge{},
		&models.ChallengeParticipant{},
		&models.ChallengeJudge{},
		&models.ChallengeRating{},
		&models.Badge{},
		&models.UserBadge{},
	)
	require.NoError(t, err)
	return db
}

func newTestRepos(t *testing.T) (*gorm.DB, *repositories.RepositoryContainer) {
	t.Helper()
	db := newTestDB(t)
	return db, repositories.NewRepositoryContainer(db)
}

func createTestUser(t *testing.T, db *gorm.DB, email, name string, role models.UserRole, pushToken string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Name:         name,
		Role:         role,
		Status:       models.UserStatusActive,
		PushToken:    pushToken,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// fakeQueue records published tasks; Publish never fails unless told to.
type fakeQueue struct {
	mu      sync.Mutex
	tasks   []queue.DeliveryTask
	failure error
}

func (q *fakeQueue) Publish(ctx context.Context, task queue.DeliveryTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.failure != nil {
		return q.failure
	}
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *fakeQueue) Consume(ctx context.Context, handler queue.Handler) error { return nil }
func (q *fakeQueue) Close() error                                             { return nil }

func (q *fakeQueue) published() []queue.DeliveryTask {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]queue.DeliveryTask, len(q.tasks))
	copy(out, q.tasks)
	return out
}

func (q *fakeQueue) byKind(kind queue.DeliveryKind) []queue.DeliveryTask {
	var out []queue.DeliveryTask
	for _, task := range q.published() {
		if task.Kind == kind {
			out = append(out, task)
		}
	}
	return out
}
