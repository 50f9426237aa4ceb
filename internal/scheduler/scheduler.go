package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Job represents a scheduled task
type Job func(ctx context.Context) error

// Scheduler runs a single job on a cron schedule. Runs never overlap: a tick
// that arrives while the previous run is still going is skipped.
type Scheduler struct {
	cron    *cron.Cron
	entry   cron.EntryID
	timeout time.Duration
}

// New creates a scheduler. timeout bounds each run; zero means no bound.
func New(timeout time.Duration) *Scheduler {
	logger := cron.PrintfLogger(log.Default())
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(logger))),
		timeout: timeout,
	}
}

// Schedule registers job under name with a standard cron spec or descriptor
// such as "@hourly"
func (s *Scheduler) Schedule(name, spec string, job Job) error {
	id, err := s.cron.AddFunc(spec, func() {
		if err := s.RunNow(name, job); err != nil {
			log.Printf("[scheduler] Job %s failed: %v", name, err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.entry = id
	log.Printf("[scheduler] Added job: %s (schedule: %s)", name, spec)
	return nil
}

// RunNow executes job immediately and logs how long it took
func (s *Scheduler) RunNow(name string, job Job) error {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	log.Printf("[scheduler] Starting job: %s", name)
	start := time.Now()

	if err := job(ctx); err != nil {
		return err
	}

	log.Printf("[scheduler] Job %s completed in %v", name, time.Since(start))
	return nil
}

// Next returns when the scheduled job runs next
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Next
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() {
	log.Println("[scheduler] Starting scheduler")
	s.cron.Start()
}

// Stop halts the scheduler and returns a context done once running jobs finish
func (s *Scheduler) Stop() context.Context {
	log.Println("[scheduler] Stopping scheduler")
	return s.cron.Stop()
}
