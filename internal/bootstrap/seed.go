// Package bootstrap prepares a fresh database: schema migration and the
// default catalog of themes, missions, badges, titles, avatars and models.
package bootstrap

import (
	"log"

	"quizverse_backend/internal/entity"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.LanguageModel{},
		&entity.Avatar{},
		&entity.AvatarUser{},
		&entity.Title{},
		&entity.TitleUser{},
		&entity.Badge{},
		&entity.BadgeUser{},
		&entity.Theme{},
		&entity.Question{},
		&entity.QuestionTheme{},
		&entity.Answer{},
		&entity.QuestionUpvote{},
		&entity.QuestionDownvote{},
		&entity.UserRankedQuestion{},
		&entity.Report{},
		&entity.Mission{},
		&entity.MissionAssignment{},
	)
}

// Seed inserts the default catalog. Every seeder is idempotent: existing rows
// are left alone, so Seed is safe to run on every boot.
func Seed(db *gorm.DB) error {
	if err := seedThemes(db); err != nil {
		return err
	}
	if err := seedModels(db); err != nil {
		return err
	}
	if err := seedBadges(db); err != nil {
		return err
	}
	if err := seedTitles(db); err != nil {
		return err
	}
	if err := seedAvatars(db); err != nil {
		return err
	}
	if err := seedMissions(db); err != nil {
		return err
	}
	log.Println("default catalog seeded")
	return nil
}

func seedThemes(db *gorm.DB) error {
	themes := []entity.Theme{
		{Name: "History", OfTheWeek: true},
		{Name: "Science", OfTheWeek: false},
		{Name: "Geography", OfTheWeek: false},
		{Name: "Art", OfTheWeek: false},
		{Name: "Food", OfTheWeek: false},
		{Name: "Music", OfTheWeek: false},
		{Name: "Cinema", OfTheWeek: false},
		{Name: "Sport", OfTheWeek: false},
		{Name: "Literature", OfTheWeek: false},
		{Name: "Technology", OfTheWeek: false},
	}

	for _, theme := range themes {
		var count int64
		if err := db.Model(&entity.Theme{}).Where("name = ?", theme.Name).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&theme).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedModels(db *gorm.DB) error {
	models := []entity.LanguageModel{
		{Name: "gemini-2.5-flash"},
		{Name: "llama3.1"},
	}

	for _, model := range models {
		var count int64
		if err := db.Model(&entity.LanguageModel{}).Where("name = ?", model.Name).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&model).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedBadges(db *gorm.DB) error {
	badges := []entity.Badge{
		{Title: "Curious Mind", Description: "Asked your first questions", Tier: "bronze", Path: "/badges/curious-mind.webp"},
		{Title: "Knowledge Seeker", Description: "Answered questions across many themes", Tier: "silver", Path: "/badges/knowledge-seeker.webp"},
		{Title: "Arbiter", Description: "Ranked answers for the community", Tier: "silver", Path: "/badges/arbiter.webp"},
		{Title: "Completionist", Description: "Finished every mission of the week", Tier: "gold", Path: "/badges/completionist.webp"},
	}

	for _, badge := range badges {
		var count int64
		if err := db.Model(&entity.Badge{}).Where("title = ?", badge.Title).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&badge).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedTitles(db *gorm.DB) error {
	titles := []entity.Title{
		{Name: "Novice"},
		{Name: "Quizmaster"},
		{Name: "Sage"},
	}

	for _, title := range titles {
		var count int64
		if err := db.Model(&entity.Title{}).Where("name = ?", title.Name).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&title).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedAvatars(db *gorm.DB) error {
	avatars := []entity.Avatar{
		{Path: "/avatars/owl.webp"},
		{Path: "/avatars/fox.webp"},
		{Path: "/avatars/octopus.webp"},
		{Path: "/avatars/raven.webp"},
	}

	for _, avatar := range avatars {
		var count int64
		if err := db.Model(&entity.Avatar{}).Where("path = ?", avatar.Path).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&avatar).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func seedMissions(db *gorm.DB) error {
	var historyID *uint
	var history entity.Theme
	if err := db.Where("name = ?", "History").First(&history).Error; err == nil {
		historyID = &history.ID
	}

	var badge entity.Badge
	var badgeID *uint
	if err := db.Where("title = ?", "Completionist").First(&badge).Error; err == nil {
		badgeID = &badge.ID
	}
	var title entity.Title
	var titleID *uint
	if err := db.Where("name = ?", "Quizmaster").First(&title).Error; err == nil {
		titleID = &title.ID
	}

	missions := []entity.Mission{
		{Type: entity.MissionTypeDaily, Kind: entity.MissionKindQuestion, Description: "Ask a question today", Value: 1, RewardCoins: 10, RewardPoints: 5},
		{Type: entity.MissionTypeDaily, Kind: entity.MissionKindAnswer, Description: "Answer 3 questions today", Value: 3, RewardCoins: 15, RewardPoints: 10},
		{Type: entity.MissionTypeDaily, Kind: entity.MissionKindRanking, Description: "Rank the answers of a question", Value: 1, RewardCoins: 10, RewardPoints: 5},
		{Type: entity.MissionTypeWeekly, Kind: entity.MissionKindQuestion, ThemeID: historyID, Description: "Ask 5 questions on the theme of the week", Value: 5, RewardCoins: 50, RewardPoints: 40},
		{Type: entity.MissionTypeWeekly, Kind: entity.MissionKindRanking, Description: "Rank answers for 5 questions this week", Value: 5, RewardCoins: 50, RewardPoints: 40, RewardTitleID: titleID},
		{Type: entity.MissionTypeOther, Kind: entity.MissionKindMission, Description: "Complete 10 missions", Value: 10, RewardCoins: 100, RewardPoints: 80, RewardBadgeID: badgeID},
	}

	for _, mission := range missions {
		var count int64
		if err := db.Model(&entity.Mission{}).Where("description = ?", mission.Description).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&mission).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
