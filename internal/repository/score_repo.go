package repository

import (
	"context"
	"fmt"

	"quizverse_backend/internal/entity"
	"quizverse_backend/pkg/apperror"

	"gorm.io/gorm"
)

// ScoreTarget selects which ledger row an adjustment lands on.
type ScoreTarget string

const (
	ScoreTargetUser   ScoreTarget = "user"
	ScoreTargetModel  ScoreTarget = "model"
	ScoreTargetAnswer ScoreTarget = "answer"
)

type ScoreRepository interface {
	// AddPoints applies value += delta as a single UPDATE. Concurrent
	// adjustments to the same row are serialized by the database, never
	// read-modify-written in application code.
	AddPoints(ctx context.Context, target ScoreTarget, id uint, delta int) error
	AddCoins(ctx context.Context, userID uint, delta int) error
}

type scoreRepository struct {
	db *gorm.DB
}

func NewScoreRepository(db *gorm.DB) ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *scoreRepository) AddPoints(ctx context.Context, target ScoreTarget, id uint, delta int) error {
	var tx *gorm.DB
	switch target {
	case ScoreTargetUser:
		tx = r.db.WithContext(ctx).Model(&entity.User{}).
			Where("id = ?", id).
			UpdateColumn("points", gorm.Expr("points + ?", delta))
	case ScoreTargetModel:
		tx = r.db.WithContext(ctx).Model(&entity.LanguageModel{}).
			Where("id = ?", id).
			UpdateColumn("points", gorm.Expr("points + ?", delta))
	case ScoreTargetAnswer:
		tx = r.db.WithContext(ctx).Model(&entity.Answer{}).
			Where("id = ?", id).
			UpdateColumn("points", gorm.Expr("points + ?", delta))
	default:
		return fmt.Errorf("%w: unknown score target %q", apperror.ErrInvalidInput, target)
	}

	return storageErr(tx.Error)
}

func (r *scoreRepository) AddCoins(ctx context.Context, userID uint, delta int) error {
	err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", userID).
		UpdateColumn("coins", gorm.Expr("coins + ?", delta)).Error
	return storageErr(err)
}

// storageErr tags database failures with the storage error kind so callers can
// match on apperror.ErrStorage instead of driver-specific errors.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", apperror.ErrStorage, err)
}
