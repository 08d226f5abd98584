package repository

import (
	"context"
	"time"

	"quizverse_backend/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MissionStats are the aggregate numbers shown on the missions page.
type MissionStats struct {
	Completed    int64 `json:"completed"`
	Active       int64 `json:"active"`
	BadgesEarned int64 `json:"badges"`
	PointsEarned int64 `json:"points"`
}

type MissionRepository interface {
	// EligibleAssignments returns the active assignments of userID whose
	// mission kind matches the event: missions with no theme filter always
	// qualify, themed missions only when the event carries the same theme.
	EligibleAssignments(ctx context.Context, userID uint, kind string, themeID *uint) ([]entity.MissionAssignment, error)
	// IncrementProgress bumps progress by one atomically, never past the
	// mission's target value.
	IncrementProgress(ctx context.Context, missionID, userID uint) error
	// Completable lists assignments whose progress reached the target but
	// are not yet marked completed.
	Completable(ctx context.Context, userID uint) ([]entity.MissionAssignment, error)
	// ClaimCompletion flips completed false->true and reports whether this
	// caller won the claim.
	ClaimCompletion(ctx context.Context, missionID, userID uint, now time.Time) (bool, error)
	GrantBadge(ctx context.Context, badgeID, userID uint) error
	GrantTitle(ctx context.Context, titleID, userID uint) error

	AssignAll(ctx context.Context, userID uint) error
	ListByUser(ctx context.Context, userID uint) ([]entity.MissionAssignment, error)
	Stats(ctx context.Context, userID uint) (*MissionStats, error)

	// MarkExpired expires daily/weekly assignments whose window has elapsed.
	// Completed assignments are never expired.
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
	// ResetExpired restarts the clock of expired-but-incomplete assignments.
	ResetExpired(ctx context.Context, now time.Time) (int64, error)
}

type missionRepository struct {
	db *gorm.DB
}

func NewMissionRepository(db *gorm.DB) MissionRepository {
	return &missionRepository{db: db}
}

func (r *missionRepository) EligibleAssignments(ctx context.Context, userID uint, kind string, themeID *uint) ([]entity.MissionAssignment, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN missions ON missions.id = mission_users.mission_id").
		Where("mission_users.user_id = ? AND mission_users.completed = ? AND missions.kind = ?", userID, false, kind)

	if themeID == nil {
		q = q.Where("missions.theme_id IS NULL")
	} else {
		q = q.Where("missions.theme_id IS NULL OR missions.theme_id = ?", *themeID)
	}

	var assignments []entity.MissionAssignment
	if err := q.Find(&assignments).Error; err != nil {
		return nil, storageErr(err)
	}
	return assignments, nil
}

func (r *missionRepository) IncrementProgress(ctx context.Context, missionID, userID uint) error {
	err := r.db.WithContext(ctx).Model(&entity.MissionAssignment{}).
		Where("mission_id = ? AND user_id = ? AND completed = ?", missionID, userID, false).
		Where("progress < (SELECT value FROM missions WHERE missions.id = mission_users.mission_id)").
		UpdateColumn("progress", gorm.Expr("progress + 1")).Error
	return storageErr(err)
}

func (r *missionRepository) Completable(ctx context.Context, userID uint) ([]entity.MissionAssignment, error) {
	var assignments []entity.MissionAssignment
	err := r.db.WithContext(ctx).
		Preload("Mission").
		Joins("JOIN missions ON missions.id = mission_users.mission_id").
		Where("mission_users.user_id = ? AND mission_users.completed = ? AND mission_users.progress = missions.value", userID, false).
		Find(&assignments).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return assignments, nil
}

func (r *missionRepository) ClaimCompletion(ctx context.Context, missionID, userID uint, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.MissionAssignment{}).
		Where("mission_id = ? AND user_id = ? AND completed = ?", missionID, userID, false).
		Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": now,
		})
	if res.Error != nil {
		return false, storageErr(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *missionRepository) GrantBadge(ctx context.Context, badgeID, userID uint) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.BadgeUser{BadgeID: badgeID, UserID: userID}).Error
	return storageErr(err)
}

func (r *missionRepository) GrantTitle(ctx context.Context, titleID, userID uint) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.TitleUser{TitleID: titleID, UserID: userID}).Error
	return storageErr(err)
}

func (r *missionRepository) AssignAll(ctx context.Context, userID uint) error {
	var missions []entity.Mission
	if err := r.db.WithContext(ctx).Find(&missions).Error; err != nil {
		return storageErr(err)
	}

	for _, m := range missions {
		assignment := entity.MissionAssignment{MissionID: m.ID, UserID: userID}
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&assignment).Error
		if err != nil {
			return storageErr(err)
		}
	}
	return nil
}

func (r *missionRepository) ListByUser(ctx context.Context, userID uint) ([]entity.MissionAssignment, error) {
	var assignments []entity.MissionAssignment
	err := r.db.WithContext(ctx).
		Preload("Mission").
		Joins("JOIN missions ON missions.id = mission_users.mission_id").
		Where("mission_users.user_id = ?", userID).
		Order("mission_users.expired ASC, mission_users.completed ASC, mission_users.progress DESC, missions.value ASC, missions.reward_points DESC, missions.reward_coins DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, storageErr(err)
	}
	return assignments, nil
}

func (r *missionRepository) Stats(ctx context.Context, userID uint) (*MissionStats, error) {
	stats := &MissionStats{}

	err := r.db.WithContext(ctx).Model(&entity.MissionAssignment{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&stats.Completed).Error
	if err != nil {
		return nil, storageErr(err)
	}

	err = r.db.WithContext(ctx).Model(&entity.MissionAssignment{}).
		Where("user_id = ? AND completed = ? AND expired = ?", userID, false, false).
		Count(&stats.Active).Error
	if err != nil {
		return nil, storageErr(err)
	}

	err = r.db.WithContext(ctx).Model(&entity.MissionAssignment{}).
		Joins("JOIN missions ON missions.id = mission_users.mission_id").
		Where("mission_users.user_id = ? AND mission_users.completed = ? AND missions.reward_badge_id IS NOT NULL", userID, true).
		Count(&stats.BadgesEarned).Error
	if err != nil {
		return nil, storageErr(err)
	}

	err = r.db.WithContext(ctx).Model(&entity.MissionAssignment{}).
		Joins("JOIN missions ON missions.id = mission_users.mission_id").
		Where("mission_users.user_id = ? AND mission_users.completed = ?", userID, true).
		Select("COALESCE(SUM(missions.reward_points), 0)").
		Scan(&stats.PointsEarned).Error
	if err != nil {
		return nil, storageErr(err)
	}

	return stats, nil
}

func (r *missionRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	var total int64

	windows := map[string]time.Duration{
		entity.MissionTypeDaily:  24 * time.Hour,
		entity.MissionTypeWeekly: 7 * 24 * time.Hour,
	}

	for missionType, window := range windows {
		cutoff := now.Add(-window)
		res := r.db.WithContext(ctx).Model(&entity.MissionAssignment{}).
			Where("expired = ? AND completed = ? AND started_at <= ?", false, false, cutoff).
			Where("mission_id IN (SELECT id FROM missions WHERE type = ?)", missionType).
			UpdateColumn("expired", true)
		if res.Error != nil {
			return total, storageErr(res.Error)
		}
		total += res.RowsAffected
	}

	return total, nil
}

func (r *missionRepository) ResetExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.MissionAssignment{}).
		Where("expired = ? AND completed = ?", true, false).
		Updates(map[string]interface{}{
			"expired":    false,
			"started_at": now,
		})
	if res.Error != nil {
		return 0, storageErr(res.Error)
	}
	return res.RowsAffected, nil
}
