package sweep

import (
	"context"
	"testing"
	"time"

	"quizverse_backend/internal/entity"
	"quizverse_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedAssignment(t *testing.T, db *gorm.DB, missionType string, startedAgo time.Duration, now time.Time, completed bool) entity.MissionAssignment {
	t.Helper()

	user := entity.User{Username: "u" + missionType + startedAgo.String(), Email: missionType + startedAgo.String() + "@example.com", PasswordHash: "x", PasswordSalt: "y"}
	require.NoError(t, db.Create(&user).Error)

	mission := entity.Mission{Type: missionType, Kind: entity.MissionKindAnswer, Description: "m", Value: 3}
	require.NoError(t, db.Create(&mission).Error)

	assignment := entity.MissionAssignment{MissionID: mission.ID, UserID: user.ID, Progress: 2, Completed: completed}
	require.NoError(t, db.Create(&assignment).Error)
	require.NoError(t, db.Model(&entity.MissionAssignment{}).
		Where("id = ?", assignment.ID).
		UpdateColumn("started_at", now.Add(-startedAgo)).Error)
	return assignment
}

func reloadAssignment(t *testing.T, db *gorm.DB, id uint) entity.MissionAssignment {
	t.Helper()
	var a entity.MissionAssignment
	require.NoError(t, db.First(&a, id).Error)
	return a
}

func TestExpiryRestartsOverdueDailyMissions(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	job := NewExpiryJob(repository.NewMissionRepository(db), "")
	job.now = func() time.Time { return now }

	overdue := seedAssignment(t, db, entity.MissionTypeDaily, 25*time.Hour, now, false)
	fresh := seedAssignment(t, db, entity.MissionTypeDaily, 3*time.Hour, now, false)

	require.NoError(t, job.Run(context.Background()))

	// Overdue assignment got a fresh window; expired never survives the run
	// because the reset follows the marking pass.
	got := reloadAssignment(t, db, overdue.ID)
	assert.False(t, got.Expired)
	assert.Equal(t, 2, got.Progress)
	assert.WithinDuration(t, now, got.StartedAt, time.Second)

	gotFresh := reloadAssignment(t, db, fresh.ID)
	assert.False(t, gotFresh.Expired)
	assert.WithinDuration(t, now.Add(-3*time.Hour), gotFresh.StartedAt, time.Second)
}

func TestExpirySkipsCompletedAssignments(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	job := NewExpiryJob(repository.NewMissionRepository(db), "")
	job.now = func() time.Time { return now }

	completed := seedAssignment(t, db, entity.MissionTypeDaily, 48*time.Hour, now, true)

	require.NoError(t, job.Run(context.Background()))

	got := reloadAssignment(t, db, completed.ID)
	assert.False(t, got.Expired)
	assert.True(t, got.Completed)
	assert.WithinDuration(t, now.Add(-48*time.Hour), got.StartedAt, time.Second)
}

func TestExpiryWeeklyWindow(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	job := NewExpiryJob(repository.NewMissionRepository(db), "")
	job.now = func() time.Time { return now }

	// 25h into a weekly mission is nowhere near its window.
	withinWindow := seedAssignment(t, db, entity.MissionTypeWeekly, 25*time.Hour, now, false)
	overdue := seedAssignment(t, db, entity.MissionTypeWeekly, 8*24*time.Hour, now, false)

	require.NoError(t, job.Run(context.Background()))

	got := reloadAssignment(t, db, withinWindow.ID)
	assert.WithinDuration(t, now.Add(-25*time.Hour), got.StartedAt, time.Second)

	gotOverdue := reloadAssignment(t, db, overdue.ID)
	assert.WithinDuration(t, now, gotOverdue.StartedAt, time.Second)
}
