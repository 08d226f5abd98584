// Package sweep runs the periodic maintenance passes: question lifecycle
// promotion with closure payouts, and mission window expiry.
package sweep

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// Job is a named maintenance pass with a cron schedule.
type Job interface {
	// Name identifies the job in logs and manual triggers.
	Name() string

	// Schedule returns the cron expression; empty means on-demand only.
	Schedule() string

	// Run executes one pass.
	Run(ctx context.Context) error
}

// Scheduler owns the cron runner and the registered jobs.
type Scheduler struct {
	cron *cron.Cron
	jobs []Job
}

func NewScheduler() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Register adds a job; jobs with a schedule are wired into cron immediately.
func (s *Scheduler) Register(job Job) {
	s.jobs = append(s.jobs, job)

	schedule := job.Schedule()
	if schedule == "" {
		log.Printf("[%s] registered as on-demand job", job.Name())
		return
	}

	_, err := s.cron.AddFunc(schedule, func() {
		log.Printf("[%s] starting scheduled run", job.Name())
		if err := job.Run(context.Background()); err != nil {
			log.Printf("[%s] run failed: %v", job.Name(), err)
			return
		}
		log.Printf("[%s] run completed", job.Name())
	})
	if err != nil {
		log.Printf("failed to schedule job %s: %v", job.Name(), err)
		return
	}
	log.Printf("[%s] scheduled with cron: %s", job.Name(), schedule)
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("sweep scheduler started with %d jobs", len(s.jobs))
}

// Stop halts the cron runner; running jobs finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("sweep scheduler stopped")
}

// RunByName triggers a job immediately, outside its schedule.
func (s *Scheduler) RunByName(ctx context.Context, name string) error {
	for _, job := range s.jobs {
		if job.Name() == name {
			log.Printf("[%s] running on demand", name)
			return job.Run(ctx)
		}
	}
	log.Printf("no job named %q", name)
	return nil
}

// Jobs lists the registered job names.
func (s *Scheduler) Jobs() []string {
	names := make([]string, len(s.jobs))
	for i, job := range s.jobs {
		names[i] = job.Name()
	}
	return names
}
