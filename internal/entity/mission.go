package entity

import (
	"time"
)

const (
	MissionTypeDaily  = "daily"
	MissionTypeWeekly = "weekly"
	MissionTypeOther  = "other"
)

// Mission kinds match the event categories that advance them.
const (
	MissionKindQuestion = "question"
	MissionKindAnswer   = "answer"
	MissionKindRanking  = "ranking"
	MissionKindMission  = "mission"
)

// Mission is the shared template; per-user progress lives in MissionAssignment.
type Mission struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Type        string `gorm:"size:10;not null" json:"type"`
	Kind        string `gorm:"size:10;not null;index" json:"kind"`
	ThemeID     *uint  `gorm:"index" json:"theme_id,omitempty"`
	Description string `gorm:"type:text" json:"description"`
	Value       int    `gorm:"not null" json:"value"`

	RewardCoins   int   `gorm:"not null;default:0" json:"reward_coins"`
	RewardPoints  int   `gorm:"not null;default:0" json:"reward_points"`
	RewardBadgeID *uint `json:"reward_badge_id,omitempty"`
	RewardTitleID *uint `json:"reward_title_id,omitempty"`
}

// MissionAssignment tracks one user's run at a mission.
// Invariants: Progress <= Mission.Value; Completed implies Progress == Value;
// a completed assignment is never marked expired.
type MissionAssignment struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	MissionID uint `gorm:"not null;uniqueIndex:idx_mission_user,priority:1" json:"mission_id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_mission_user,priority:2;index" json:"user_id"`

	Progress    int        `gorm:"not null;default:0" json:"progress"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Expired     bool       `gorm:"not null;default:false" json:"expired"`
	StartedAt   time.Time  `gorm:"autoCreateTime" json:"started_at"`

	Mission Mission `gorm:"foreignKey:MissionID" json:"mission"`
}

func (MissionAssignment) TableName() string { return "mission_users" }
