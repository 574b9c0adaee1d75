package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/i474232898/series-resampler/internal/pipeline"
)

// Scheduler periodically refreshes every configured series source.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *pipeline.Service
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler.
func New(interval time.Duration, service *pipeline.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		interval:  interval,
		timeout:   30 * time.Second,
	}
}

// Start schedules the periodic refresh job, runs it once immediately and starts
// the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	runID := uuid.NewString()
	log.Printf("scheduler: run %s refreshing series", runID)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.service.Refresh(ctx); err != nil {
		log.Printf("scheduler: run %s failed: %v", runID, err)
		return
	}
	log.Printf("scheduler: run %s completed, %d series stored", runID, len(s.service.IDs()))
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
