package job

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const (
	sessionCleanupInterval = 15 * time.Minute
	billPurgeInterval      = time.Minute
	jobTimeout             = 30 * time.Second
)

type SessionCleaner interface {
	CleanExpiredSessions(ctx context.Context) (int64, error)
}

type ReleasePromoter interface {
	PromoteReleasedMovies(ctx context.Context) (int64, error)
}

// BillPurger is implemented by bill stores that do not expire entries on their own.
type BillPurger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

type Scheduler struct {
	scheduler gocron.Scheduler
	sessions  SessionCleaner
	movies    ReleasePromoter
	bills     BillPurger
	log       *zap.Logger
}

// NewScheduler registers the background jobs. bills may be nil.
func NewScheduler(sessions SessionCleaner, movies ReleasePromoter, bills BillPurger, log *zap.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, err
	}

	sch := &Scheduler{
		scheduler: s,
		sessions:  sessions,
		movies:    movies,
		bills:     bills,
		log:       log.With(zap.String("component", "scheduler")),
	}

	_, err = s.NewJob(
		gocron.DurationJob(sessionCleanupInterval),
		gocron.NewTask(sch.cleanSessions),
		gocron.WithName("clean-expired-sessions"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(sch.promoteReleases),
		gocron.WithName("promote-released-movies"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return nil, err
	}

	if bills != nil {
		_, err = s.NewJob(
			gocron.DurationJob(billPurgeInterval),
			gocron.NewTask(sch.purgeBills),
			gocron.WithName("purge-expired-bills"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return nil, err
		}
	}

	return sch, nil
}

func (s *Scheduler) Start() {
	s.scheduler.Start()
	s.log.Info("Scheduler started", zap.Int("jobs", len(s.scheduler.Jobs())))
}

func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}

func (s *Scheduler) cleanSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.sessions.CleanExpiredSessions(ctx); err != nil {
		s.log.Error("Session cleanup failed", zap.Error(err))
	}
}

func (s *Scheduler) promoteReleases() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.movies.PromoteReleasedMovies(ctx); err != nil {
		s.log.Error("Release status update failed", zap.Error(err))
	}
}

func (s *Scheduler) purgeBills() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	purged, err := s.bills.PurgeExpired(ctx)
	if err != nil {
		s.log.Error("Bill purge failed", zap.Error(err))
		return
	}
	if purged > 0 {
		s.log.Debug("Expired bills purged", zap.Int("count", purged))
	}
}
