package repository

import (
	"strings"
	"testing"

	"quizverse_backend/internal/entity"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.LanguageModel{},
		&entity.Avatar{},
		&entity.AvatarUser{},
		&entity.Title{},
		&entity.TitleUser{},
		&entity.Badge{},
		&entity.BadgeUser{},
		&entity.Theme{},
		&entity.Question{},
		&entity.QuestionTheme{},
		&entity.Answer{},
		&entity.QuestionUpvote{},
		&entity.QuestionDownvote{},
		&entity.UserRankedQuestion{},
		&entity.Report{},
		&entity.Mission{},
		&entity.MissionAssignment{},
	))
	return db
}

func seedUserAndQuestion(t *testing.T, db *gorm.DB) (entity.User, entity.Question) {
	t.Helper()

	user := entity.User{Username: "ada", Email: "ada@example.com", PasswordHash: "x", PasswordSalt: "y"}
	require.NoError(t, db.Create(&user).Error)
	question := entity.Question{Text: "q", CreatedByUserID: &user.ID, Status: entity.QuestionStatusOpen}
	require.NoError(t, db.Create(&question).Error)
	return user, question
}
