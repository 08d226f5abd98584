package entity

import (
	"time"
)

const (
	QuestionStatusOpen    = "open"
	QuestionStatusRanking = "ranking"
	QuestionStatusClose   = "close"
)

// Question is created by exactly one of a user or a language model.
// PointsAssigned flips 0->1 exactly once, when the closing payout runs.
type Question struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	Text            string  `gorm:"type:text;not null" json:"text"`
	CreatedByUserID *uint   `gorm:"index" json:"created_by_user_id,omitempty"`
	CreatedByLLMID  *uint   `gorm:"index" json:"created_by_llm_id,omitempty"`
	Status          string  `gorm:"size:10;not null;default:open;index" json:"status"`
	Tags            *string `gorm:"type:text" json:"tags,omitempty"`

	Upvotes        int  `gorm:"not null;default:0" json:"upvotes"`
	Downvotes      int  `gorm:"not null;default:0" json:"downvotes"`
	RankingsTimes  int  `gorm:"not null;default:0" json:"rankings_times"`
	PointsAssigned bool `gorm:"not null;default:false" json:"points_assigned"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// Answer points are mutated only through the scoring ledger; rows are never deleted.
type Answer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	UserID     *uint     `gorm:"index" json:"user_id,omitempty"`
	LLMID      *uint     `gorm:"index" json:"llm_id,omitempty"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	Points     int       `gorm:"not null;default:0" json:"points"`
	AnsweredAt time.Time `gorm:"autoCreateTime" json:"answered_at"`
}

type Theme struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	OfTheWeek bool   `gorm:"not null;default:false" json:"of_the_week"`
}

type QuestionTheme struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	QuestionID uint `gorm:"not null;uniqueIndex:idx_question_theme,priority:1" json:"question_id"`
	ThemeID    uint `gorm:"not null;uniqueIndex:idx_question_theme,priority:2" json:"theme_id"`
}

type Report struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_report_pair,priority:1" json:"user_id"`
	QuestionID uint      `gorm:"not null;uniqueIndex:idx_report_pair,priority:2" json:"question_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type QuestionUpvote struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	UserID     uint `gorm:"not null;uniqueIndex:idx_question_upvote,priority:1" json:"user_id"`
	QuestionID uint `gorm:"not null;uniqueIndex:idx_question_upvote,priority:2" json:"question_id"`
}

type QuestionDownvote struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	UserID     uint `gorm:"not null;uniqueIndex:idx_question_downvote,priority:1" json:"user_id"`
	QuestionID uint `gorm:"not null;uniqueIndex:idx_question_downvote,priority:2" json:"question_id"`
}

// UserRankedQuestion prevents a user from ranking the same question twice.
type UserRankedQuestion struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	UserID     uint `gorm:"not null;uniqueIndex:idx_user_ranked,priority:1" json:"user_id"`
	QuestionID uint `gorm:"not null;uniqueIndex:idx_user_ranked,priority:2" json:"question_id"`
}
