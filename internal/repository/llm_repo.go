package repository

import (
	"context"
	"errors"

	"quizverse_backend/internal/entity"
	"quizverse_backend/pkg/apperror"

	"gorm.io/gorm"
)

type LLMRepository interface {
	FindByName(ctx context.Context, name string) (*entity.LanguageModel, error)
	List(ctx context.Context) ([]entity.LanguageModel, error)
}

type llmRepository struct {
	db *gorm.DB
}

func NewLLMRepository(db *gorm.DB) LLMRepository {
	return &llmRepository{db: db}
}

func (r *llmRepository) FindByName(ctx context.Context, name string) (*entity.LanguageModel, error) {
	var model entity.LanguageModel
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &model, nil
}

func (r *llmRepository) List(ctx context.Context) ([]entity.LanguageModel, error) {
	var models []entity.LanguageModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, storageErr(err)
	}
	return models, nil
}
