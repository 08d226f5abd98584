package service

import (
	"context"
	"testing"

	"quizverse_backend/internal/entity"
	"quizverse_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedMissionUser(t *testing.T, db *gorm.DB) entity.User {
	t.Helper()
	user := entity.User{Username: "ada", Email: "ada@example.com", PasswordHash: "x", PasswordSalt: "y"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestMissionCompletesExactlyOnceAtTargetValue(t *testing.T) {
	db := newTestDB(t)
	missionRepo := repository.NewMissionRepository(db)
	svc := NewMissionService(missionRepo, repository.NewScoreRepository(db))

	user := seedMissionUser(t, db)
	mission := entity.Mission{
		Type: entity.MissionTypeDaily, Kind: entity.MissionKindAnswer,
		Description: "answer 3 questions", Value: 3,
		RewardPoints: 40, RewardCoins: 20,
	}
	require.NoError(t, db.Create(&mission).Error)
	require.NoError(t, missionRepo.AssignAll(context.Background(), user.ID))

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.OnEvent(context.Background(), entity.MissionKindAnswer, user.ID, nil))
	}

	var assignment entity.MissionAssignment
	require.NoError(t, db.Where("mission_id = ? AND user_id = ?", mission.ID, user.ID).First(&assignment).Error)
	assert.True(t, assignment.Completed)
	assert.Equal(t, 3, assignment.Progress)
	require.NotNil(t, assignment.CompletedAt)

	var got entity.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, 40, got.Points)
	assert.Equal(t, 20, got.Coins)

	// Further events change nothing: progress stays capped, reward stays single.
	require.NoError(t, svc.OnEvent(context.Background(), entity.MissionKindAnswer, user.ID, nil))
	require.NoError(t, db.Where("mission_id = ? AND user_id = ?", mission.ID, user.ID).First(&assignment).Error)
	assert.Equal(t, 3, assignment.Progress)
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, 40, got.Points)
}

func TestThemedMissionOnlyAdvancesOnMatchingTheme(t *testing.T) {
	db := newTestDB(t)
	missionRepo := repository.NewMissionRepository(db)
	svc := NewMissionService(missionRepo, repository.NewScoreRepository(db))

	user := seedMissionUser(t, db)
	history := entity.Theme{Name: "History"}
	require.NoError(t, db.Create(&history).Error)
	science := entity.Theme{Name: "Science"}
	require.NoError(t, db.Create(&science).Error)

	mission := entity.Mission{
		Type: entity.MissionTypeWeekly, Kind: entity.MissionKindQuestion,
		ThemeID: &history.ID, Description: "ask about history", Value: 2,
	}
	require.NoError(t, db.Create(&mission).Error)
	require.NoError(t, missionRepo.AssignAll(context.Background(), user.ID))

	progress := func() int {
		var a entity.MissionAssignment
		require.NoError(t, db.Where("mission_id = ? AND user_id = ?", mission.ID, user.ID).First(&a).Error)
		return a.Progress
	}

	// No theme on the event: themed mission does not move.
	require.NoError(t, svc.OnEvent(context.Background(), entity.MissionKindQuestion, user.ID, nil))
	assert.Equal(t, 0, progress())

	// Wrong theme: still no movement.
	require.NoError(t, svc.OnEvent(context.Background(), entity.MissionKindQuestion, user.ID, &science.ID))
	assert.Equal(t, 0, progress())

	require.NoError(t, svc.OnEvent(context.Background(), entity.MissionKindQuestion, user.ID, &history.ID))
	assert.Equal(t, 1, progress())
}

func TestWildcardMissionAdvancesOnAnyTheme(t *testing.T) {
	db := newTestDB(t)
	missionRepo := repository.NewMissionRepository(db)
	svc := NewMissionService(missionRepo, repository.NewScoreRepository(db))

	user := seedMissionUser(t, db)
	theme := entity.Theme{Name: "Science"}
	require.NoError(t, db.Create(&theme).Error)

	mission := entity.Mission{
		Type: entity.MissionTypeDaily, Kind: entity.MissionKindQuestion,
		Description: "ask anything", Value: 2,
	}
	require.NoError(t, db.Create(&mission).Error)
	require.NoError(t, missionRepo.AssignAll(context.Background(), user.ID))

	require.NoError(t, svc.OnEvent(context.Background(), entity.MissionKindQuestion, user.ID, nil))
	require.NoError(t, svc.OnEvent(context.Background(), entity.MissionKindQuestion, user.ID, &theme.ID))

	var assignment entity.MissionAssignment
	require.NoError(t, db.Where("mission_id = ? AND user_id = ?", mission.ID, user.ID).First(&assignment).Error)
	assert.True(t, assignment.Completed)
}

func TestMetaMissionCascade(t *testing.T) {
	db := newTestDB(t)
	missionRepo := repository.NewMissionRepository(db)
	svc := NewMissionService(missionRepo, repository.NewScoreRepository(db))

	user := seedMissionUser(t, db)
	badge := entity.Badge{Title: "Completionist", Tier: "gold"}
	require.NoError(t, db.Create(&badge).Error)

	base := entity.Mission{
		Type: entity.MissionTypeDaily, Kind: entity.MissionKindQuestion,
		Description: "ask a question", Value: 1, RewardPoints: 5,
	}
	require.NoError(t, db.Create(&base).Error)
	meta := entity.Mission{
		Type: entity.MissionTypeOther, Kind: entity.MissionKindMission,
		Description: "complete a mission", Value: 1, RewardBadgeID: &badge.ID,
	}
	require.NoError(t, db.Create(&meta).Error)
	require.NoError(t, missionRepo.AssignAll(context.Background(), user.ID))

	// One question event completes the base mission, and its completion
	// cascades into the meta-mission in the same call.
	require.NoError(t, svc.OnEvent(context.Background(), entity.MissionKindQuestion, user.ID, nil))

	var metaAssignment entity.MissionAssignment
	require.NoError(t, db.Where("mission_id = ? AND user_id = ?", meta.ID, user.ID).First(&metaAssignment).Error)
	assert.True(t, metaAssignment.Completed)

	var grants int64
	require.NoError(t, db.Model(&entity.BadgeUser{}).
		Where("badge_id = ? AND user_id = ?", badge.ID, user.ID).
		Count(&grants).Error)
	assert.Equal(t, int64(1), grants)
}

func TestBadgeGrantedOnlyOnce(t *testing.T) {
	db := newTestDB(t)
	missionRepo := repository.NewMissionRepository(db)

	user := seedMissionUser(t, db)
	badge := entity.Badge{Title: "Arbiter", Tier: "silver"}
	require.NoError(t, db.Create(&badge).Error)

	require.NoError(t, missionRepo.GrantBadge(context.Background(), badge.ID, user.ID))
	require.NoError(t, missionRepo.GrantBadge(context.Background(), badge.ID, user.ID))

	var grants int64
	require.NoError(t, db.Model(&entity.BadgeUser{}).
		Where("badge_id = ? AND user_id = ?", badge.ID, user.ID).
		Count(&grants).Error)
	assert.Equal(t, int64(1), grants)
}
