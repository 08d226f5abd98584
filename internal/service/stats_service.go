package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"quizverse_backend/internal/entity"
	"quizverse_backend/internal/repository"

	"github.com/redis/go-redis/v9"
)

const (
	contributorsCacheKey = "quizverse:contributors"
	contributorsCacheTTL = 5 * time.Minute
	contributorsLimit    = 10
)

// Contributor is a leaderboard row.
type Contributor struct {
	Username string `json:"username"`
	Points   int    `json:"points"`
}

// HomeInfo is the payload backing the landing page.
type HomeInfo struct {
	Contributors    []Contributor     `json:"contributors"`
	QuestionsOfWeek int64             `json:"questions_of_week"`
	WeekThemes      []entity.Theme    `json:"week_themes"`
	Trending        []entity.Question `json:"trending"`
	OnlineUsers     int               `json:"online_users"`
}

type StatsService interface {
	Home(ctx context.Context) (*HomeInfo, error)
	Contributors(ctx context.Context) ([]Contributor, error)
}

type statsService struct {
	users     repository.UserRepository
	questions repository.QuestionRepository
	themes    repository.ThemeRepository
	presence  *PresenceTracker
	cache     *redis.Client
	now       func() time.Time
}

func NewStatsService(
	users repository.UserRepository,
	questions repository.QuestionRepository,
	themes repository.ThemeRepository,
	presence *PresenceTracker,
	cache *redis.Client,
) StatsService {
	return &statsService{
		users:     users,
		questions: questions,
		themes:    themes,
		presence:  presence,
		cache:     cache,
		now:       time.Now,
	}
}

func (s *statsService) Home(ctx context.Context) (*HomeInfo, error) {
	contributors, err := s.Contributors(ctx)
	if err != nil {
		return nil, err
	}

	weekAgo := s.now().Add(-7 * 24 * time.Hour)
	questionCount, err := s.questions.CountCreatedSince(ctx, weekAgo)
	if err != nil {
		return nil, err
	}

	weekThemes, err := s.themes.ListOfTheWeek(ctx)
	if err != nil {
		return nil, err
	}

	trending, err := s.questions.Trending(ctx, 5)
	if err != nil {
		return nil, err
	}

	return &HomeInfo{
		Contributors:    contributors,
		QuestionsOfWeek: questionCount,
		WeekThemes:      weekThemes,
		Trending:        trending,
		OnlineUsers:     s.presence.OnlineCount(),
	}, nil
}

// Contributors returns the top users by points, served from Redis when the
// cached copy is still fresh. Cache failures fall through to the database.
func (s *statsService) Contributors(ctx context.Context) ([]Contributor, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, contributorsCacheKey).Result()
		if err == nil {
			var contributors []Contributor
			if err := json.Unmarshal([]byte(cached), &contributors); err == nil {
				return contributors, nil
			}
		} else if err != redis.Nil {
			log.Printf("contributors cache read failed: %v", err)
		}
	}

	users, err := s.users.TopContributors(ctx, contributorsLimit)
	if err != nil {
		return nil, err
	}

	contributors := make([]Contributor, 0, len(users))
	for _, u := range users {
		contributors = append(contributors, Contributor{Username: u.Username, Points: u.Points})
	}

	if s.cache != nil {
		payload, err := json.Marshal(contributors)
		if err == nil {
			if err := s.cache.Set(ctx, contributorsCacheKey, payload, contributorsCacheTTL).Err(); err != nil {
				log.Printf("contributors cache write failed: %v", err)
			}
		}
	}

	return contributors, nil
}
