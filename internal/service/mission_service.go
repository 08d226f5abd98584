package service

import (
	"context"
	"errors"
	"log"
	"time"

	"quizverse_backend/internal/entity"
	"quizverse_backend/internal/repository"
)

// maxCascadeDepth bounds the completion cascade: completing a mission emits a
// synthetic "mission" event so meta-missions can progress, and a misconfigured
// reward cycle must not spin forever.
const maxCascadeDepth = 16

// MissionService advances mission assignments on qualifying events and hands
// out rewards on completion.
type MissionService interface {
	// OnEvent records one qualifying event for the user. Themed missions
	// only progress when the event carries the matching theme.
	OnEvent(ctx context.Context, kind string, userID uint, themeID *uint) error

	ListForUser(ctx context.Context, userID uint) ([]entity.MissionAssignment, error)
	StatsForUser(ctx context.Context, userID uint) (*repository.MissionStats, error)
}

type missionEvent struct {
	kind    string
	themeID *uint
}

type missionService struct {
	missions repository.MissionRepository
	scores   repository.ScoreRepository
	now      func() time.Time
}

func NewMissionService(missions repository.MissionRepository, scores repository.ScoreRepository) MissionService {
	return &missionService{
		missions: missions,
		scores:   scores,
		now:      time.Now,
	}
}

func (s *missionService) OnEvent(ctx context.Context, kind string, userID uint, themeID *uint) error {
	queue := []missionEvent{{kind: kind, themeID: themeID}}
	var errs []error

	for depth := 0; len(queue) > 0; depth++ {
		if depth >= maxCascadeDepth {
			log.Printf("mission cascade for user %d cut off at depth %d", userID, depth)
			break
		}
		ev := queue[0]
		queue = queue[1:]

		eligible, err := s.missions.EligibleAssignments(ctx, userID, ev.kind, ev.themeID)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		for _, assignment := range eligible {
			if err := s.missions.IncrementProgress(ctx, assignment.MissionID, userID); err != nil {
				errs = append(errs, err)
			}
		}

		completable, err := s.missions.Completable(ctx, userID)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		for _, assignment := range completable {
			claimed, err := s.missions.ClaimCompletion(ctx, assignment.MissionID, userID, s.now())
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if !claimed {
				// Lost the race to a concurrent event, reward already handled.
				continue
			}

			if err := s.reward(ctx, userID, assignment.Mission); err != nil {
				errs = append(errs, err)
			}

			// Let "complete N missions" meta-missions see this completion.
			queue = append(queue, missionEvent{kind: entity.MissionKindMission, themeID: ev.themeID})
		}
	}

	return errors.Join(errs...)
}

func (s *missionService) reward(ctx context.Context, userID uint, mission entity.Mission) error {
	var errs []error

	if mission.RewardPoints != 0 {
		if err := s.scores.AddPoints(ctx, repository.ScoreTargetUser, userID, mission.RewardPoints); err != nil {
			errs = append(errs, err)
		}
	}
	if mission.RewardCoins != 0 {
		if err := s.scores.AddCoins(ctx, userID, mission.RewardCoins); err != nil {
			errs = append(errs, err)
		}
	}
	if mission.RewardBadgeID != nil {
		if err := s.missions.GrantBadge(ctx, *mission.RewardBadgeID, userID); err != nil {
			errs = append(errs, err)
		}
	}
	if mission.RewardTitleID != nil {
		if err := s.missions.GrantTitle(ctx, *mission.RewardTitleID, userID); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		log.Printf("mission %d completed by user %d (+%d points, +%d coins)",
			mission.ID, userID, mission.RewardPoints, mission.RewardCoins)
	}
	return errors.Join(errs...)
}

func (s *missionService) ListForUser(ctx context.Context, userID uint) ([]entity.MissionAssignment, error) {
	return s.missions.ListByUser(ctx, userID)
}

func (s *missionService) StatsForUser(ctx context.Context, userID uint) (*repository.MissionStats, error) {
	return s.missions.Stats(ctx, userID)
}
