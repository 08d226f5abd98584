package repository

import (
	"context"
	"errors"

	"quizverse_backend/internal/entity"
	"quizverse_backend/pkg/apperror"

	"gorm.io/gorm"
)

type ThemeRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.Theme, error)
	List(ctx context.Context) ([]entity.Theme, error)
	ListOfTheWeek(ctx context.Context) ([]entity.Theme, error)
	// IsOfTheWeek reads the flag at call time; the caller is expected to use
	// the value immediately, not re-validate later.
	IsOfTheWeek(ctx context.Context, id uint) (bool, error)
}

type themeRepository struct {
	db *gorm.DB
}

func NewThemeRepository(db *gorm.DB) ThemeRepository {
	return &themeRepository{db: db}
}

func (r *themeRepository) FindByID(ctx context.Context, id uint) (*entity.Theme, error) {
	var theme entity.Theme
	err := r.db.WithContext(ctx).First(&theme, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &theme, nil
}

func (r *themeRepository) List(ctx context.Context) ([]entity.Theme, error) {
	var themes []entity.Theme
	if err := r.db.WithContext(ctx).Find(&themes).Error; err != nil {
		return nil, storageErr(err)
	}
	return themes, nil
}

func (r *themeRepository) ListOfTheWeek(ctx context.Context) ([]entity.Theme, error) {
	var themes []entity.Theme
	err := r.db.WithContext(ctx).Where("of_the_week = ?", true).Find(&themes).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return themes, nil
}

func (r *themeRepository) IsOfTheWeek(ctx context.Context, id uint) (bool, error) {
	theme, err := r.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	return theme.OfTheWeek, nil
}
