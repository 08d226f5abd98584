package service

import (
	"context"
	"fmt"
	"io"
	"log"

	"quizverse_backend/internal/entity"
	"quizverse_backend/internal/repository"
	"quizverse_backend/pkg/apperror"
	"quizverse_backend/pkg/storage"
)

const avatarFolder = "quizverse/avatars"

// UpdateProfileInput carries the editable profile fields; nil means unchanged.
type UpdateProfileInput struct {
	Name            *string
	Surname         *string
	Bio             *string
	Birthday        *string
	Location        *string
	Website         *string
	CurrentAvatarID *uint
	CurrentTitleID  *uint
}

// ProfileInfo is the full profile page payload.
type ProfileInfo struct {
	User          *entity.User             `json:"user"`
	Rank          int64                    `json:"rank"`
	QuestionCount int64                    `json:"question_count"`
	AnswerCount   int64                    `json:"answer_count"`
	RankingCount  int64                    `json:"ranking_count"`
	Badges        []entity.Badge           `json:"badges"`
	Titles        []entity.Title           `json:"titles"`
	Avatars       []entity.Avatar          `json:"avatars"`
	MissionStats  *repository.MissionStats `json:"mission_stats"`
}

type ProfileService interface {
	Info(ctx context.Context, userID uint) (*ProfileInfo, error)
	Update(ctx context.Context, userID uint, input UpdateProfileInput) (*entity.User, error)
	// UploadCustomImage stores a custom profile picture and records its URL.
	UploadCustomImage(ctx context.Context, userID uint, r io.Reader, fileName string) (string, error)
	SetPhone(ctx context.Context, userID uint, phone string) error
	SetEmailNotifications(ctx context.Context, userID uint, enabled bool) error
}

type profileService struct {
	users    repository.UserRepository
	answers  repository.AnswerRepository
	missions repository.MissionRepository
	images   storage.ImageStorage
}

func NewProfileService(
	users repository.UserRepository,
	answers repository.AnswerRepository,
	missions repository.MissionRepository,
	images storage.ImageStorage,
) ProfileService {
	return &profileService{
		users:    users,
		answers:  answers,
		missions: missions,
		images:   images,
	}
}

func (s *profileService) Info(ctx context.Context, userID uint) (*ProfileInfo, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	rank, err := s.users.Rank(ctx, userID)
	if err != nil {
		return nil, err
	}
	questionCount, err := s.users.CountQuestions(ctx, userID)
	if err != nil {
		return nil, err
	}
	answerCount, err := s.answers.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	rankingCount, err := s.users.CountRankings(ctx, userID)
	if err != nil {
		return nil, err
	}

	badges, err := s.users.Badges(ctx, userID)
	if err != nil {
		return nil, err
	}
	titles, err := s.users.Titles(ctx, userID)
	if err != nil {
		return nil, err
	}
	avatars, err := s.users.Avatars(ctx, userID)
	if err != nil {
		return nil, err
	}
	missionStats, err := s.missions.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileInfo{
		User:          user,
		Rank:          rank,
		QuestionCount: questionCount,
		AnswerCount:   answerCount,
		RankingCount:  rankingCount,
		Badges:        badges,
		Titles:        titles,
		Avatars:       avatars,
		MissionStats:  missionStats,
	}, nil
}

func (s *profileService) Update(ctx context.Context, userID uint, input UpdateProfileInput) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = input.Name
	}
	if input.Surname != nil {
		user.Surname = input.Surname
	}
	if input.Bio != nil {
		user.Bio = input.Bio
	}
	if input.Birthday != nil {
		user.Birthday = input.Birthday
	}
	if input.Location != nil {
		user.Location = input.Location
	}
	if input.Website != nil {
		user.Website = input.Website
	}
	if input.CurrentTitleID != nil {
		owned, err := s.users.Titles(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !containsTitle(owned, *input.CurrentTitleID) {
			return nil, fmt.Errorf("%w: title not owned", apperror.ErrForbidden)
		}
		user.CurrentTitleID = input.CurrentTitleID
	}
	if input.CurrentAvatarID != nil {
		owned, err := s.users.Avatars(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !containsAvatar(owned, *input.CurrentAvatarID) {
			return nil, fmt.Errorf("%w: avatar not owned", apperror.ErrForbidden)
		}
		user.CurrentAvatarID = input.CurrentAvatarID
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *profileService) UploadCustomImage(ctx context.Context, userID uint, r io.Reader, fileName string) (string, error) {
	if s.images == nil {
		return "", fmt.Errorf("%w: image storage is not configured", apperror.ErrUpstream)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}

	url, err := s.images.UploadImage(ctx, r, avatarFolder, fileName)
	if err != nil {
		return "", fmt.Errorf("%w: uploading profile image: %v", apperror.ErrUpstream, err)
	}

	// Drop the previous custom image so the store does not accumulate orphans.
	if user.CustomImage != nil && *user.CustomImage != "" {
		if err := s.images.DeleteImage(ctx, *user.CustomImage); err != nil {
			log.Printf("failed to delete previous profile image of user %d: %v", userID, err)
		}
	}

	user.CustomImage = &url
	if err := s.users.Update(ctx, user); err != nil {
		return "", err
	}
	return url, nil
}

func (s *profileService) SetPhone(ctx context.Context, userID uint, phone string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	user.Phone = &phone
	return s.users.Update(ctx, user)
}

func (s *profileService) SetEmailNotifications(ctx context.Context, userID uint, enabled bool) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	user.EmailNotifications = enabled
	return s.users.Update(ctx, user)
}

func containsTitle(titles []entity.Title, id uint) bool {
	for _, t := range titles {
		if t.ID == id {
			return true
		}
	}
	return false
}

func containsAvatar(avatars []entity.Avatar, id uint) bool {
	for _, a := range avatars {
		if a.ID == id {
			return true
		}
	}
	return false
}
