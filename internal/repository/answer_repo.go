package repository

import (
	"context"

	"quizverse_backend/internal/entity"

	"gorm.io/gorm"
)

type AnswerRepository interface {
	Create(ctx context.Context, answer *entity.Answer) error
	ListByQuestion(ctx context.Context, questionID uint) ([]entity.Answer, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Create(ctx context.Context, answer *entity.Answer) error {
	return storageErr(r.db.WithContext(ctx).Create(answer).Error)
}

func (r *answerRepository) ListByQuestion(ctx context.Context, questionID uint) ([]entity.Answer, error) {
	var answers []entity.Answer
	err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("id ASC").
		Find(&answers).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return answers, nil
}

func (r *answerRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Answer{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, storageErr(err)
}
