package sweep

import (
	"context"
	"log"
	"time"

	"quizverse_backend/internal/repository"
	"quizverse_backend/internal/service"
)

const (
	// An open question needs a week of age and a healthy answer count before
	// its ranking round starts; the count scales with the user base.
	openMinAge          = 7 * 24 * time.Hour
	answerBaseThreshold = 5.0

	// A ranking-phase question closes after two weeks, once enough users
	// have ranked its answers.
	rankingMinAge = 14 * 24 * time.Hour
)

// LifecycleJob advances questions through open -> ranking -> close and pays
// out the points of freshly closed questions exactly once.
type LifecycleJob struct {
	questions repository.QuestionRepository
	users     repository.UserRepository
	scoring   service.ScoringService
	schedule  string
	now       func() time.Time
}

func NewLifecycleJob(
	questions repository.QuestionRepository,
	users repository.UserRepository,
	scoring service.ScoringService,
	schedule string,
) *LifecycleJob {
	return &LifecycleJob{
		questions: questions,
		users:     users,
		scoring:   scoring,
		schedule:  schedule,
		now:       time.Now,
	}
}

func (j *LifecycleJob) Name() string     { return "question-lifecycle" }
func (j *LifecycleJob) Schedule() string { return j.schedule }

func (j *LifecycleJob) Run(ctx context.Context) error {
	userCount, err := j.users.Count(ctx)
	if err != nil {
		return err
	}
	halfUsers := float64(userCount) / 2

	now := j.now()

	promoted, err := j.questions.PromoteOpenToRanking(ctx, now, openMinAge, answerBaseThreshold+halfUsers)
	if err != nil {
		return err
	}
	if promoted > 0 {
		log.Printf("promoted %d questions to ranking", promoted)
	}

	closed, err := j.questions.PromoteRankingToClose(ctx, now, rankingMinAge, halfUsers)
	if err != nil {
		return err
	}
	if closed > 0 {
		log.Printf("closed %d questions", closed)
	}

	return j.payoutClosed(ctx)
}

// payoutClosed settles every closed question that has not paid out yet. The
// points_assigned flag is claimed before paying, so a question is settled at
// most once even if a previous run crashed mid-pass.
func (j *LifecycleJob) payoutClosed(ctx context.Context) error {
	questions, err := j.questions.UnpaidClosed(ctx)
	if err != nil {
		return err
	}

	for i := range questions {
		question := &questions[i]

		claimed, err := j.questions.ClaimPayout(ctx, question.ID)
		if err != nil {
			return err
		}
		if !claimed {
			continue
		}

		if err := j.scoring.PayoutClosedQuestion(ctx, question); err != nil {
			log.Printf("payout of question %d failed after claim: %v", question.ID, err)
			continue
		}
		log.Printf("paid out closed question %d", question.ID)
	}
	return nil
}
