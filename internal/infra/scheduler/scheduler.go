package scheduler

import (
	"context"
	"fmt"
	"time"

	"homework_status_bot/internal/domain/homework"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Poller runs one poll iteration. Implemented by *app.StatusService.
type Poller interface {
	PollOnce(ctx context.Context) error
}

// PollScheduler drives the poller sequentially: one iteration, one wait, repeat.
type PollScheduler struct {
	poller   Poller
	schedule cron.Schedule
	spec     string
	logger   *logrus.Entry
	now      func() time.Time
	wait     func(ctx context.Context, d time.Duration) error
}

// NewPollScheduler builds a scheduler firing every period, or on cronSpec
// (standard 5-field syntax or descriptors like "@hourly") when it is set.
func NewPollScheduler(poller Poller, period time.Duration, cronSpec string, logger *logrus.Entry) (*PollScheduler, error) {
	var (
		schedule cron.Schedule
		spec     string
	)
	if cronSpec != "" {
		parsed, err := cron.ParseStandard(cronSpec)
		if err != nil {
			return nil, fmt.Errorf("invalid poll cron spec %q: %w", cronSpec, err)
		}
		schedule, spec = parsed, cronSpec
	} else {
		if period <= 0 {
			return nil, fmt.Errorf("poll period must be positive, got %s", period)
		}
		schedule, spec = cron.Every(period), "@every "+period.String()
	}

	return &PollScheduler{
		poller:   poller,
		schedule: schedule,
		spec:     spec,
		logger:   logger,
		now:      time.Now,
		wait:     sleepContext,
	}, nil
}

// Spec describes the active schedule, e.g. "@every 10m0s".
func (s *PollScheduler) Spec() string {
	return s.spec
}

// Run polls until ctx is cancelled. Iteration failures never stop the loop.
func (s *PollScheduler) Run(ctx context.Context) {
	s.logger.WithField("schedule", s.spec).Info("Starting homework status polling")
	for {
		if ctx.Err() != nil {
			break
		}
		s.runIteration(ctx)

		delay := s.nextDelay()
		s.logger.WithField("delay", delay.String()).Debug("Waiting before next poll")
		if err := s.wait(ctx, delay); err != nil {
			break
		}
	}
	s.logger.Info("Homework status polling stopped")
}

func (s *PollScheduler) runIteration(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("panic", r).Error("Program failure: poll iteration panicked")
		}
	}()

	if err := s.poller.PollOnce(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.WithError(err).WithField("error_kind", homework.KindOf(err).String()).
			Errorf("Program failure: %v", err)
	}
}

func (s *PollScheduler) nextDelay() time.Duration {
	now := s.now()
	delay := s.schedule.Next(now).Sub(now)
	if delay < 0 {
		delay = 0
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
