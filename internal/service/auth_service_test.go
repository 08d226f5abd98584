package service

import (
	"context"
	"testing"

	"quizverse_backend/internal/entity"
	"quizverse_backend/internal/repository"
	"quizverse_backend/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func TestSignUpAssignsAllMissions(t *testing.T) {
	db := newTestDB(t)
	missions := []entity.Mission{
		{Type: entity.MissionTypeDaily, Kind: entity.MissionKindQuestion, Description: "m1", Value: 1},
		{Type: entity.MissionTypeWeekly, Kind: entity.MissionKindRanking, Description: "m2", Value: 5},
	}
	for i := range missions {
		require.NoError(t, db.Create(&missions[i]).Error)
	}

	svc := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewMissionRepository(db),
		NewPresenceTracker(DefaultSessionTimeout),
		testJWTSecret,
	)

	user, err := svc.SignUp(context.Background(), "ada", "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEmpty(t, user.PasswordSalt)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)

	var assignments int64
	require.NoError(t, db.Model(&entity.MissionAssignment{}).
		Where("user_id = ?", user.ID).
		Count(&assignments).Error)
	assert.Equal(t, int64(2), assignments)
}

func TestSignUpRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewMissionRepository(db),
		NewPresenceTracker(DefaultSessionTimeout),
		testJWTSecret,
	)

	_, err := svc.SignUp(context.Background(), "ada", "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = svc.SignUp(context.Background(), "ada", "other@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = svc.SignUp(context.Background(), "other", "ada@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestLoginIssuesTokenAndRegistersPresence(t *testing.T) {
	db := newTestDB(t)
	presence := NewPresenceTracker(DefaultSessionTimeout)
	svc := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewMissionRepository(db),
		presence,
		testJWTSecret,
	)

	created, err := svc.SignUp(context.Background(), "ada", "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotNil(t, user.LastLoginAt)
	assert.Equal(t, 1, presence.OnlineCount())

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(tk *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims := parsed.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, "1", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewMissionRepository(db),
		NewPresenceTracker(DefaultSessionTimeout),
		testJWTSecret,
	)

	_, err := svc.SignUp(context.Background(), "ada", "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewMissionRepository(db),
		NewPresenceTracker(DefaultSessionTimeout),
		testJWTSecret,
	)

	user, err := svc.SignUp(context.Background(), "ada", "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), user.ID, "wrong", "new-password-1")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	require.NoError(t, svc.ChangePassword(context.Background(), user.ID, "hunter2hunter2", "new-password-1"))

	_, _, err = svc.Login(context.Background(), "ada@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	_, _, err = svc.Login(context.Background(), "ada@example.com", "new-password-1")
	assert.NoError(t, err)
}

func TestLoginWithLoginUpdatesLastLoginNotSignup(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewMissionRepository(db),
		NewPresenceTracker(DefaultSessionTimeout),
		testJWTSecret,
	)

	user, err := svc.SignUp(context.Background(), "ada", "ada@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Nil(t, user.LastLoginAt)
}
