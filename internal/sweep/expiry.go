package sweep

import (
	"context"
	"log"
	"time"

	"quizverse_backend/internal/repository"
)

// ExpiryJob expires daily and weekly mission assignments whose window has
// elapsed and then restarts their clocks. Completed assignments keep their
// state; only unfinished progress is subject to the window.
type ExpiryJob struct {
	missions repository.MissionRepository
	schedule string
	now      func() time.Time
}

func NewExpiryJob(missions repository.MissionRepository, schedule string) *ExpiryJob {
	return &ExpiryJob{
		missions: missions,
		schedule: schedule,
		now:      time.Now,
	}
}

func (j *ExpiryJob) Name() string     { return "mission-expiry" }
func (j *ExpiryJob) Schedule() string { return j.schedule }

func (j *ExpiryJob) Run(ctx context.Context) error {
	now := j.now()

	expired, err := j.missions.MarkExpired(ctx, now)
	if err != nil {
		return err
	}
	if expired > 0 {
		log.Printf("expired %d mission assignments", expired)
	}

	reset, err := j.missions.ResetExpired(ctx, now)
	if err != nil {
		return err
	}
	if reset > 0 {
		log.Printf("restarted %d expired mission assignments", reset)
	}
	return nil
}
