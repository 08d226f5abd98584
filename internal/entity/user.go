package entity

import (
	"time"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	PasswordSalt string `gorm:"size:255;not null" json:"-"`

	Name    *string `gorm:"size:100" json:"name,omitempty"`
	Surname *string `gorm:"size:100" json:"surname,omitempty"`
	Bio     *string `gorm:"type:text" json:"bio,omitempty"`

	Points int `gorm:"not null;default:0" json:"points"`
	Coins  int `gorm:"not null;default:0" json:"coins"`

	CurrentAvatarID *uint   `json:"current_avatar_id,omitempty"`
	CurrentTitleID  *uint   `json:"current_title_id,omitempty"`
	CustomImage     *string `gorm:"type:text" json:"custom_image,omitempty"`

	Phone              *string `gorm:"size:30" json:"phone,omitempty"`
	EmailNotifications bool    `gorm:"not null;default:true" json:"email_notifications"`

	Birthday *string `gorm:"size:30" json:"birthday,omitempty"`
	Location *string `gorm:"size:100" json:"location,omitempty"`
	Website  *string `gorm:"size:200" json:"website,omitempty"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// LanguageModel is a registered LLM that can create questions and answers,
// and accumulates points the same way users do.
type LanguageModel struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Points int    `gorm:"not null;default:0" json:"points"`
}

func (LanguageModel) TableName() string { return "llms" }

type Avatar struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Path string `gorm:"size:255;not null" json:"path"`
}

type AvatarUser struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	AvatarID uint `gorm:"not null;uniqueIndex:idx_avatar_user,priority:1" json:"avatar_id"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_avatar_user,priority:2" json:"user_id"`
}

type Title struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

// TitleUser is granted exactly once per title; the unique index backs the
// do-nothing insert in the mission engine.
type TitleUser struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	TitleID uint `gorm:"not null;uniqueIndex:idx_title_user,priority:1" json:"title_id"`
	UserID  uint `gorm:"not null;uniqueIndex:idx_title_user,priority:2" json:"user_id"`
}

type Badge struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:100;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Tier        string `gorm:"size:20" json:"tier"`
	Path        string `gorm:"size:255" json:"path"`
}

type BadgeUser struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	BadgeID uint `gorm:"not null;uniqueIndex:idx_badge_user,priority:1" json:"badge_id"`
	UserID  uint `gorm:"not null;uniqueIndex:idx_badge_user,priority:2" json:"user_id"`
}
