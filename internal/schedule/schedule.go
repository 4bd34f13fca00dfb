// Package schedule triggers scrape runs on a fixed cron cadence.
package schedule

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Scheduler invokes a job function on a cron schedule.
type Scheduler struct {
	c *cron.Cron
}

// New creates a Scheduler that runs job per the given standard 5-field
// cron expression.
func New(spec string, job func()) (*Scheduler, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, fmt.Errorf("parsing cron expression %q: %w", spec, err)
	}
	return &Scheduler{c: c}, nil
}

// Start begins running the schedule in its own goroutine.
func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop stops the scheduler and waits for any in-flight job to finish.
func (s *Scheduler) Stop() {
	<-s.c.Stop().Done()
}
