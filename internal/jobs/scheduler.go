package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// StreakResetter zeroes streaks whose last contribution predates the
// cutoff; satisfied by the user repository.
type StreakResetter interface {
	ResetLapsedStreaks(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler runs the nightly streak sweep: a user who skipped a full
// calendar day loses the streak.
type Scheduler struct {
	cron  *cron.Cron
	users StreakResetter
	log   zerolog.Logger
}

func NewScheduler(users StreakResetter, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:  c,
		users: users,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 5 0 * * *", s.sweepStreaks); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for an in-flight sweep to finish, up to a short deadline.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) sweepStreaks() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Anything before yesterday's midnight means a missed day.
	now := time.Now().UTC()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)

	reset, err := s.users.ResetLapsedStreaks(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("streak sweep failed")
		return
	}
	if reset > 0 {
		s.log.Info().Int64("users", reset).Msg("lapsed streaks reset")
	}
}
