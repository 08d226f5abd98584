package service

import (
	"context"
	"fmt"
	"log"

	"quizverse_backend/internal/entity"
	"quizverse_backend/internal/repository"
)

const (
	// Question creation award, multiplied when the theme is "of the week".
	PointsQuestionCreated = 10
	ThemeOfWeekMultiplier = 2.5

	// Ranking round: descending awards for the top answers, flat award for
	// the user who submitted the ranking.
	PointsRankingBase = 250
	PointsRankingStep = 50
	PointsRankerBonus = 50
	MaxRankedAnswers  = 5

	// Closure bonus for the question creator, per answer on the question.
	PointsPerAnswerOnClose = 10
)

// ScoringService applies the point rules on top of the atomic ledger.
type ScoringService interface {
	// AwardQuestionCreation credits the creator for a new question and
	// returns the amount awarded. The of-the-week flag is read once, at
	// creation time.
	AwardQuestionCreation(ctx context.Context, target repository.ScoreTarget, creatorID, themeID uint) (int, error)

	// AwardRanking distributes the descending point sequence to the ranked
	// answers (position 1 gets the base, each following position 50 less)
	// and the flat bonus to the ranking user.
	AwardRanking(ctx context.Context, rankerID uint, ranking map[int]uint) error

	// PayoutClosedQuestion pays every answer's accumulated points to its
	// creator and the per-answer bonus to the question creator. The caller
	// must have claimed the question's points_assigned flag first.
	PayoutClosedQuestion(ctx context.Context, question *entity.Question) error
}

type scoringService struct {
	scores    repository.ScoreRepository
	answers   repository.AnswerRepository
	themes    repository.ThemeRepository
}

func NewScoringService(scores repository.ScoreRepository, answers repository.AnswerRepository, themes repository.ThemeRepository) ScoringService {
	return &scoringService{
		scores:  scores,
		answers: answers,
		themes:  themes,
	}
}

func (s *scoringService) AwardQuestionCreation(ctx context.Context, target repository.ScoreTarget, creatorID, themeID uint) (int, error) {
	points := PointsQuestionCreated

	ofTheWeek, err := s.themes.IsOfTheWeek(ctx, themeID)
	if err != nil {
		return 0, fmt.Errorf("checking theme of the week: %w", err)
	}
	if ofTheWeek {
		points = int(float64(points) * ThemeOfWeekMultiplier)
	}

	if err := s.scores.AddPoints(ctx, target, creatorID, points); err != nil {
		return 0, err
	}
	return points, nil
}

func (s *scoringService) AwardRanking(ctx context.Context, rankerID uint, ranking map[int]uint) error {
	for position := 1; position <= MaxRankedAnswers; position++ {
		answerID, ok := ranking[position]
		if !ok {
			continue
		}
		points := PointsRankingBase - PointsRankingStep*(position-1)
		if err := s.scores.AddPoints(ctx, repository.ScoreTargetAnswer, answerID, points); err != nil {
			return fmt.Errorf("awarding %d points to answer %d: %w", points, answerID, err)
		}
	}

	if err := s.scores.AddPoints(ctx, repository.ScoreTargetUser, rankerID, PointsRankerBonus); err != nil {
		return fmt.Errorf("awarding ranker bonus to user %d: %w", rankerID, err)
	}
	return nil
}

func (s *scoringService) PayoutClosedQuestion(ctx context.Context, question *entity.Question) error {
	answers, err := s.answers.ListByQuestion(ctx, question.ID)
	if err != nil {
		return err
	}

	for _, answer := range answers {
		if answer.Points == 0 {
			continue
		}
		switch {
		case answer.LLMID != nil:
			if err := s.scores.AddPoints(ctx, repository.ScoreTargetModel, *answer.LLMID, answer.Points); err != nil {
				return err
			}
			log.Printf("assigned %d points to model %d for answer %d", answer.Points, *answer.LLMID, answer.ID)
		case answer.UserID != nil:
			if err := s.scores.AddPoints(ctx, repository.ScoreTargetUser, *answer.UserID, answer.Points); err != nil {
				return err
			}
			log.Printf("assigned %d points to user %d for answer %d", answer.Points, *answer.UserID, answer.ID)
		}
	}

	bonus := len(answers) * PointsPerAnswerOnClose
	if bonus == 0 {
		return nil
	}
	switch {
	case question.CreatedByUserID != nil:
		return s.scores.AddPoints(ctx, repository.ScoreTargetUser, *question.CreatedByUserID, bonus)
	case question.CreatedByLLMID != nil:
		return s.scores.AddPoints(ctx, repository.ScoreTargetModel, *question.CreatedByLLMID, bonus)
	}
	return nil
}
