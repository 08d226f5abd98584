package repository

import (
	"context"
	"errors"
	"time"

	"quizverse_backend/internal/entity"
	"quizverse_backend/pkg/apperror"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionRepository interface {
	Create(ctx context.Context, question *entity.Question) error
	FindByID(ctx context.Context, id uint) (*entity.Question, error)
	UpdateTags(ctx context.Context, id uint, tags string) error
	AttachTheme(ctx context.Context, questionID, themeID uint) error
	// ThemeID returns the theme of a question, nil when untagged.
	ThemeID(ctx context.Context, questionID uint) (*uint, error)
	List(ctx context.Context) ([]entity.Question, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	Trending(ctx context.Context, limit int) ([]entity.Question, error)

	// PromoteOpenToRanking moves open questions older than minAge with more
	// than answerThreshold answers into the ranking state.
	PromoteOpenToRanking(ctx context.Context, now time.Time, minAge time.Duration, answerThreshold float64) (int64, error)
	// PromoteRankingToClose moves ranking questions older than minAge whose
	// rankings_times exceeds rankingThreshold into the close state.
	PromoteRankingToClose(ctx context.Context, now time.Time, minAge time.Duration, rankingThreshold float64) (int64, error)
	// UnpaidClosed lists closed questions whose payout has not run yet.
	UnpaidClosed(ctx context.Context) ([]entity.Question, error)
	// ClaimPayout flips points_assigned false->true and reports whether this
	// caller won the claim; the flag never goes back.
	ClaimPayout(ctx context.Context, questionID uint) (bool, error)

	IncrementRankings(ctx context.Context, questionID uint) error
	// InsertRankedFact records that userID ranked questionID; a second insert
	// for the same pair returns apperror.ErrConflict.
	InsertRankedFact(ctx context.Context, userID, questionID uint) error

	Upvote(ctx context.Context, userID, questionID uint) error
	RemoveUpvote(ctx context.Context, userID, questionID uint) error
	Downvote(ctx context.Context, userID, questionID uint) error
	RemoveDownvote(ctx context.Context, userID, questionID uint) error

	CreateReport(ctx context.Context, userID, questionID uint) error
	RemoveReport(ctx context.Context, userID, questionID uint) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *entity.Question) error {
	return storageErr(r.db.WithContext(ctx).Create(question).Error)
}

func (r *questionRepository) FindByID(ctx context.Context, id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.WithContext(ctx).First(&question, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &question, nil
}

func (r *questionRepository) UpdateTags(ctx context.Context, id uint, tags string) error {
	err := r.db.WithContext(ctx).Model(&entity.Question{}).
		Where("id = ?", id).
		UpdateColumn("tags", tags).Error
	return storageErr(err)
}

func (r *questionRepository) AttachTheme(ctx context.Context, questionID, themeID uint) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.QuestionTheme{QuestionID: questionID, ThemeID: themeID}).Error
	return storageErr(err)
}

func (r *questionRepository) ThemeID(ctx context.Context, questionID uint) (*uint, error) {
	var link entity.QuestionTheme
	err := r.db.WithContext(ctx).Where("question_id = ?", questionID).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return &link.ThemeID, nil
}

func (r *questionRepository) List(ctx context.Context) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&questions).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return questions, nil
}

func (r *questionRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Question{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, storageErr(err)
}

func (r *questionRepository) Trending(ctx context.Context, limit int) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.QuestionStatusOpen).
		Order("upvotes - downvotes DESC").
		Limit(limit).
		Find(&questions).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return questions, nil
}

func (r *questionRepository) PromoteOpenToRanking(ctx context.Context, now time.Time, minAge time.Duration, answerThreshold float64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.Question{}).
		Where("status = ? AND created_at <= ?", entity.QuestionStatusOpen, now.Add(-minAge)).
		Where("(SELECT COUNT(*) FROM answers WHERE answers.question_id = questions.id) > ?", answerThreshold).
		UpdateColumn("status", entity.QuestionStatusRanking)
	return res.RowsAffected, storageErr(res.Error)
}

func (r *questionRepository) PromoteRankingToClose(ctx context.Context, now time.Time, minAge time.Duration, rankingThreshold float64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.Question{}).
		Where("status = ? AND created_at <= ?", entity.QuestionStatusRanking, now.Add(-minAge)).
		Where("rankings_times > ?", rankingThreshold).
		UpdateColumn("status", entity.QuestionStatusClose)
	return res.RowsAffected, storageErr(res.Error)
}

func (r *questionRepository) UnpaidClosed(ctx context.Context) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.WithContext(ctx).
		Where("status = ? AND points_assigned = ?", entity.QuestionStatusClose, false).
		Find(&questions).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return questions, nil
}

func (r *questionRepository) ClaimPayout(ctx context.Context, questionID uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.Question{}).
		Where("id = ? AND points_assigned = ?", questionID, false).
		UpdateColumn("points_assigned", true)
	if res.Error != nil {
		return false, storageErr(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *questionRepository) IncrementRankings(ctx context.Context, questionID uint) error {
	err := r.db.WithContext(ctx).Model(&entity.Question{}).
		Where("id = ?", questionID).
		UpdateColumn("rankings_times", gorm.Expr("rankings_times + 1")).Error
	return storageErr(err)
}

func (r *questionRepository) InsertRankedFact(ctx context.Context, userID, questionID uint) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.UserRankedQuestion{UserID: userID, QuestionID: questionID})
	if res.Error != nil {
		return storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.ErrConflict
	}
	return nil
}

func (r *questionRepository) Upvote(ctx context.Context, userID, questionID uint) error {
	return r.vote(ctx, &entity.QuestionUpvote{UserID: userID, QuestionID: questionID}, "upvotes", +1)
}

func (r *questionRepository) Downvote(ctx context.Context, userID, questionID uint) error {
	return r.vote(ctx, &entity.QuestionDownvote{UserID: userID, QuestionID: questionID}, "downvotes", +1)
}

func (r *questionRepository) vote(ctx context.Context, fact interface{}, column string, delta int) error {
	var questionID uint
	switch f := fact.(type) {
	case *entity.QuestionUpvote:
		questionID = f.QuestionID
	case *entity.QuestionDownvote:
		questionID = f.QuestionID
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(fact)
		if res.Error != nil {
			return storageErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.ErrConflict
		}
		err := tx.Model(&entity.Question{}).
			Where("id = ?", questionID).
			UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
		return storageErr(err)
	})
}

func (r *questionRepository) RemoveUpvote(ctx context.Context, userID, questionID uint) error {
	return r.removeVote(ctx, &entity.QuestionUpvote{}, "upvotes", userID, questionID)
}

func (r *questionRepository) RemoveDownvote(ctx context.Context, userID, questionID uint) error {
	return r.removeVote(ctx, &entity.QuestionDownvote{}, "downvotes", userID, questionID)
}

func (r *questionRepository) removeVote(ctx context.Context, fact interface{}, column string, userID, questionID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND question_id = ?", userID, questionID).Delete(fact)
		if res.Error != nil {
			return storageErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.ErrConflict
		}
		err := tx.Model(&entity.Question{}).
			Where("id = ?", questionID).
			UpdateColumn(column, gorm.Expr(column+" - 1")).Error
		return storageErr(err)
	})
}

func (r *questionRepository) CreateReport(ctx context.Context, userID, questionID uint) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.Report{UserID: userID, QuestionID: questionID})
	if res.Error != nil {
		return storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.ErrConflict
	}
	return nil
}

func (r *questionRepository) RemoveReport(ctx context.Context, userID, questionID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Delete(&entity.Report{})
	if res.Error != nil {
		return storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.ErrConflict
	}
	return nil
}
