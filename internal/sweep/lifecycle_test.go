package sweep

import (
	"context"
	"fmt"
	"testing"
	"time"

	"quizverse_backend/internal/entity"
	"quizverse_backend/internal/repository"
	"quizverse_backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLifecycleJobForTest(t *testing.T, db *gorm.DB) *LifecycleJob {
	t.Helper()
	return NewLifecycleJob(
		repository.NewQuestionRepository(db),
		repository.NewUserRepository(db),
		service.NewScoringService(
			repository.NewScoreRepository(db),
			repository.NewAnswerRepository(db),
			repository.NewThemeRepository(db),
		),
		"",
	)
}

func seedUsers(t *testing.T, db *gorm.DB, n int) []entity.User {
	t.Helper()
	users := make([]entity.User, n)
	for i := range users {
		users[i] = entity.User{
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: "x",
			PasswordSalt: "y",
		}
		require.NoError(t, db.Create(&users[i]).Error)
	}
	return users
}

func backdateQuestion(t *testing.T, db *gorm.DB, id uint, age time.Duration, now time.Time) {
	t.Helper()
	require.NoError(t, db.Model(&entity.Question{}).
		Where("id = ?", id).
		UpdateColumn("created_at", now.Add(-age)).Error)
}

func addAnswers(t *testing.T, db *gorm.DB, questionID uint, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, db.Create(&entity.Answer{QuestionID: questionID, Text: "a"}).Error)
	}
}

func questionStatus(t *testing.T, db *gorm.DB, id uint) string {
	t.Helper()
	var q entity.Question
	require.NoError(t, db.First(&q, id).Error)
	return q.Status
}

func TestLifecyclePromotesOpenToRanking(t *testing.T) {
	db := newTestDB(t)
	job := newLifecycleJobForTest(t, db)

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return now }

	// 3 users: answer threshold is 5 + 3/2 = 6.5, so 7 answers qualify.
	users := seedUsers(t, db, 3)

	ripe := entity.Question{Text: "ripe", CreatedByUserID: &users[0].ID, Status: entity.QuestionStatusOpen}
	require.NoError(t, db.Create(&ripe).Error)
	backdateQuestion(t, db, ripe.ID, 8*24*time.Hour, now)
	addAnswers(t, db, ripe.ID, 7)

	tooFewAnswers := entity.Question{Text: "few", CreatedByUserID: &users[0].ID, Status: entity.QuestionStatusOpen}
	require.NoError(t, db.Create(&tooFewAnswers).Error)
	backdateQuestion(t, db, tooFewAnswers.ID, 8*24*time.Hour, now)
	addAnswers(t, db, tooFewAnswers.ID, 6)

	tooYoung := entity.Question{Text: "young", CreatedByUserID: &users[0].ID, Status: entity.QuestionStatusOpen}
	require.NoError(t, db.Create(&tooYoung).Error)
	backdateQuestion(t, db, tooYoung.ID, 6*24*time.Hour, now)
	addAnswers(t, db, tooYoung.ID, 7)

	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, entity.QuestionStatusRanking, questionStatus(t, db, ripe.ID))
	assert.Equal(t, entity.QuestionStatusOpen, questionStatus(t, db, tooFewAnswers.ID))
	assert.Equal(t, entity.QuestionStatusOpen, questionStatus(t, db, tooYoung.ID))
}

func TestLifecycleClosesRankedQuestions(t *testing.T) {
	db := newTestDB(t)
	job := newLifecycleJobForTest(t, db)

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return now }

	// 3 users: closing threshold is 3/2 = 1.5, so 2 rankings qualify.
	users := seedUsers(t, db, 3)

	done := entity.Question{Text: "done", CreatedByUserID: &users[0].ID, Status: entity.QuestionStatusRanking, RankingsTimes: 2}
	require.NoError(t, db.Create(&done).Error)
	backdateQuestion(t, db, done.ID, 15*24*time.Hour, now)

	notEnoughRankings := entity.Question{Text: "pending", CreatedByUserID: &users[0].ID, Status: entity.QuestionStatusRanking, RankingsTimes: 1}
	require.NoError(t, db.Create(&notEnoughRankings).Error)
	backdateQuestion(t, db, notEnoughRankings.ID, 15*24*time.Hour, now)

	require.NoError(t, job.Run(context.Background()))

	assert.Equal(t, entity.QuestionStatusClose, questionStatus(t, db, done.ID))
	assert.Equal(t, entity.QuestionStatusRanking, questionStatus(t, db, notEnoughRankings.ID))
}

func TestLifecyclePayoutRunsExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	job := newLifecycleJobForTest(t, db)

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return now }

	users := seedUsers(t, db, 2)
	creator, answerer := users[0], users[1]

	question := entity.Question{Text: "q", CreatedByUserID: &creator.ID, Status: entity.QuestionStatusClose}
	require.NoError(t, db.Create(&question).Error)
	answer := entity.Answer{QuestionID: question.ID, UserID: &answerer.ID, Text: "a", Points: 450}
	require.NoError(t, db.Create(&answer).Error)

	require.NoError(t, job.Run(context.Background()))
	require.NoError(t, job.Run(context.Background()))

	var gotAnswerer entity.User
	require.NoError(t, db.First(&gotAnswerer, answerer.ID).Error)
	assert.Equal(t, 450, gotAnswerer.Points)

	var gotCreator entity.User
	require.NoError(t, db.First(&gotCreator, creator.ID).Error)
	assert.Equal(t, 10, gotCreator.Points)

	var gotQuestion entity.Question
	require.NoError(t, db.First(&gotQuestion, question.ID).Error)
	assert.True(t, gotQuestion.PointsAssigned)
}
