package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// Scheduler manages background jobs
type Scheduler struct {
	cron *cron.Cron
	log  *logrus.Entry
}

// New creates a new scheduler using standard five-field cron specs
func New(log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log.WithField("component", "scheduler"),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Scheduler stopped")
}

// AddJob registers a job, e.g. "0 7 * * *" for every day at 07:00
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.RunNow(job)
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"schedule": schedule, "job": job.Name()}).Info("Job registered")
	return nil
}

// RunNow executes a job immediately and logs the outcome
func (s *Scheduler) RunNow(job Job) {
	entry := s.log.WithField("job", job.Name())
	entry.Debug("Running job")
	if err := job.Run(); err != nil {
		entry.WithError(err).Error("Job failed")
		return
	}
	entry.Debug("Job completed")
}
