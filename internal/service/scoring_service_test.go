package service

import (
	"context"
	"testing"

	"quizverse_backend/internal/entity"
	"quizverse_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwardQuestionCreationBasePoints(t *testing.T) {
	db := newTestDB(t)
	svc := NewScoringService(
		repository.NewScoreRepository(db),
		repository.NewAnswerRepository(db),
		repository.NewThemeRepository(db),
	)

	user := entity.User{Username: "ada", Email: "ada@example.com", PasswordHash: "x", PasswordSalt: "y"}
	require.NoError(t, db.Create(&user).Error)
	theme := entity.Theme{Name: "Science"}
	require.NoError(t, db.Create(&theme).Error)

	awarded, err := svc.AwardQuestionCreation(context.Background(), repository.ScoreTargetUser, user.ID, theme.ID)
	require.NoError(t, err)
	assert.Equal(t, PointsQuestionCreated, awarded)

	var got entity.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, PointsQuestionCreated, got.Points)
}

func TestAwardQuestionCreationThemeOfWeek(t *testing.T) {
	db := newTestDB(t)
	svc := NewScoringService(
		repository.NewScoreRepository(db),
		repository.NewAnswerRepository(db),
		repository.NewThemeRepository(db),
	)

	user := entity.User{Username: "ada", Email: "ada@example.com", PasswordHash: "x", PasswordSalt: "y"}
	require.NoError(t, db.Create(&user).Error)
	theme := entity.Theme{Name: "History", OfTheWeek: true}
	require.NoError(t, db.Create(&theme).Error)

	awarded, err := svc.AwardQuestionCreation(context.Background(), repository.ScoreTargetUser, user.ID, theme.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, awarded)

	var got entity.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, 25, got.Points)
}

func TestAwardRankingDistributesDescendingPoints(t *testing.T) {
	db := newTestDB(t)
	svc := NewScoringService(
		repository.NewScoreRepository(db),
		repository.NewAnswerRepository(db),
		repository.NewThemeRepository(db),
	)

	ranker := entity.User{Username: "ada", Email: "ada@example.com", PasswordHash: "x", PasswordSalt: "y"}
	require.NoError(t, db.Create(&ranker).Error)
	question := entity.Question{Text: "q", CreatedByUserID: &ranker.ID, Status: entity.QuestionStatusRanking}
	require.NoError(t, db.Create(&question).Error)

	answers := make([]entity.Answer, 5)
	for i := range answers {
		answers[i] = entity.Answer{QuestionID: question.ID, Text: "a"}
		require.NoError(t, db.Create(&answers[i]).Error)
	}

	ranking := map[int]uint{
		1: answers[2].ID,
		2: answers[0].ID,
		3: answers[4].ID,
		4: answers[1].ID,
		5: answers[3].ID,
	}
	require.NoError(t, svc.AwardRanking(context.Background(), ranker.ID, ranking))

	wantPoints := map[uint]int{
		answers[2].ID: 250,
		answers[0].ID: 200,
		answers[4].ID: 150,
		answers[1].ID: 100,
		answers[3].ID: 50,
	}
	for id, want := range wantPoints {
		var got entity.Answer
		require.NoError(t, db.First(&got, id).Error)
		assert.Equal(t, want, got.Points, "answer %d", id)
	}

	var gotRanker entity.User
	require.NoError(t, db.First(&gotRanker, ranker.ID).Error)
	assert.Equal(t, PointsRankerBonus, gotRanker.Points)
}

func TestAwardRankingPartialRanking(t *testing.T) {
	db := newTestDB(t)
	svc := NewScoringService(
		repository.NewScoreRepository(db),
		repository.NewAnswerRepository(db),
		repository.NewThemeRepository(db),
	)

	ranker := entity.User{Username: "ada", Email: "ada@example.com", PasswordHash: "x", PasswordSalt: "y"}
	require.NoError(t, db.Create(&ranker).Error)
	question := entity.Question{Text: "q", Status: entity.QuestionStatusRanking}
	require.NoError(t, db.Create(&question).Error)
	answer := entity.Answer{QuestionID: question.ID, Text: "a"}
	require.NoError(t, db.Create(&answer).Error)

	require.NoError(t, svc.AwardRanking(context.Background(), ranker.ID, map[int]uint{1: answer.ID}))

	var got entity.Answer
	require.NoError(t, db.First(&got, answer.ID).Error)
	assert.Equal(t, 250, got.Points)
}

func TestPayoutClosedQuestion(t *testing.T) {
	db := newTestDB(t)
	svc := NewScoringService(
		repository.NewScoreRepository(db),
		repository.NewAnswerRepository(db),
		repository.NewThemeRepository(db),
	)

	creator := entity.User{Username: "ada", Email: "ada@example.com", PasswordHash: "x", PasswordSalt: "y"}
	require.NoError(t, db.Create(&creator).Error)
	answerer := entity.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x", PasswordSalt: "y"}
	require.NoError(t, db.Create(&answerer).Error)
	model := entity.LanguageModel{Name: "llama3.1"}
	require.NoError(t, db.Create(&model).Error)

	question := entity.Question{Text: "q", CreatedByUserID: &creator.ID, Status: entity.QuestionStatusClose}
	require.NoError(t, db.Create(&question).Error)

	userAnswer := entity.Answer{QuestionID: question.ID, UserID: &answerer.ID, Text: "a", Points: 300}
	require.NoError(t, db.Create(&userAnswer).Error)
	modelAnswer := entity.Answer{QuestionID: question.ID, LLMID: &model.ID, Text: "b", Points: 150}
	require.NoError(t, db.Create(&modelAnswer).Error)

	require.NoError(t, svc.PayoutClosedQuestion(context.Background(), &question))

	var gotAnswerer entity.User
	require.NoError(t, db.First(&gotAnswerer, answerer.ID).Error)
	assert.Equal(t, 300, gotAnswerer.Points)

	var gotModel entity.LanguageModel
	require.NoError(t, db.First(&gotModel, model.ID).Error)
	assert.Equal(t, 150, gotModel.Points)

	// Creator gets the per-answer closure bonus.
	var gotCreator entity.User
	require.NoError(t, db.First(&gotCreator, creator.ID).Error)
	assert.Equal(t, 2*PointsPerAnswerOnClose, gotCreator.Points)
}
