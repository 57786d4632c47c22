package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allsers_backend/internal/auth"
	"allsers_backend/internal/models"
	"allsers_backend/internal/services/dto"
)

func newAuthFixture(t *testing.T) (AuthService, func() *models.User) {
	t.Helper()
	auth.Init("test-secret", 60)
	db, repos := newTestRepos(t)
	svc := NewAuthService(repos.Users)

	lookup := func() *models.User {
		var user models.User
		require.NoError(t, db.First(&user, "email = ?", "new@test.io").Error)
		return &user
	}
	return svc, lookup
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)

	registered, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email:    "new@test.io",
		Password: "strongpass1",
		Name:     "Nina",
		Role:     "artisan",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, models.UserRoleArtisan, registered.User.Role)

	claims, err := auth.ParseToken(registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	logged, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "new@test.io",
		Password: "strongpass1",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, logged.User.ID)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email:    "new@test.io",
		Password: "wrongpass",
	})
	require.Error(t, err)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)

	req := dto.RegisterRequest{Email: "new@test.io", Password: "strongpass1", Name: "Nina"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.Error(t, err)
}

func TestPushTokenLifecycle(t *testing.T) {
	svc, lookup := newAuthFixture(t)

	registered, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "new@test.io", Password: "strongpass1", Name: "Nina",
	})
	require.NoError(t, err)

	require.NoError(t, svc.RegisterPushToken(context.Background(), registered.User.ID, dto.RegisterPushTokenRequest{Token: "device-1"}))
	assert.Equal(t, "device-1", lookup().PushToken)

	require.NoError(t, svc.ClearPushToken(context.Background(), registered.User.ID))
	assert.Empty(t, lookup().PushToken)
}
