package repository

import (
	"context"
	"errors"
	"time"

	"quizverse_backend/internal/entity"
	"quizverse_backend/pkg/apperror"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uint) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error

	TopContributors(ctx context.Context, limit int) ([]entity.User, error)
	// Rank returns the 1-based leaderboard position of a user by points.
	Rank(ctx context.Context, id uint) (int64, error)

	Badges(ctx context.Context, userID uint) ([]entity.Badge, error)
	Titles(ctx context.Context, userID uint) ([]entity.Title, error)
	Avatars(ctx context.Context, userID uint) ([]entity.Avatar, error)
	CountQuestions(ctx context.Context, userID uint) (int64, error)
	CountRankings(ctx context.Context, userID uint) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return storageErr(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return storageErr(r.db.WithContext(ctx).Save(user).Error)
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return storageErr(r.db.WithContext(ctx).Delete(&entity.User{}, id).Error)
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).Count(&count).Error; err != nil {
		return 0, storageErr(err)
	}
	return count, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
	return storageErr(err)
}

func (r *userRepository) TopContributors(ctx context.Context, limit int) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Order("points DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return users, nil
}

func (r *userRepository) Rank(ctx context.Context, id uint) (int64, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return 0, storageErr(err)
	}

	var ahead int64
	err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("points > ?", user.Points).
		Count(&ahead).Error
	if err != nil {
		return 0, storageErr(err)
	}
	return ahead + 1, nil
}

func (r *userRepository) Badges(ctx context.Context, userID uint) ([]entity.Badge, error) {
	var badges []entity.Badge
	err := r.db.WithContext(ctx).
		Joins("JOIN badge_users ON badge_users.badge_id = badges.id").
		Where("badge_users.user_id = ?", userID).
		Find(&badges).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return badges, nil
}

func (r *userRepository) Titles(ctx context.Context, userID uint) ([]entity.Title, error) {
	var titles []entity.Title
	err := r.db.WithContext(ctx).
		Joins("JOIN title_users ON title_users.title_id = titles.id").
		Where("title_users.user_id = ?", userID).
		Find(&titles).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return titles, nil
}

func (r *userRepository) Avatars(ctx context.Context, userID uint) ([]entity.Avatar, error) {
	var avatars []entity.Avatar
	err := r.db.WithContext(ctx).
		Joins("JOIN avatar_users ON avatar_users.avatar_id = avatars.id").
		Where("avatar_users.user_id = ?", userID).
		Find(&avatars).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return avatars, nil
}

func (r *userRepository) CountQuestions(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Question{}).
		Where("created_by_user_id = ?", userID).
		Count(&count).Error
	return count, storageErr(err)
}

func (r *userRepository) CountRankings(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.UserRankedQuestion{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, storageErr(err)
}
