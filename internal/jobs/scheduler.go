package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/redis/go-redis/v9"

	"accounthub/internal/repositories"
	"accounthub/internal/services"
	"accounthub/pkg/logger"
)

const (
	staleInviteAge       = 30 * 24 * time.Hour
	backlogWarnThreshold = 1000
	invitePruneInterval  = time.Hour
	backlogCheckInterval = 5 * time.Minute
)

// Scheduler runs periodic maintenance jobs. Jobs are singletons, so a slow
// run never piles up behind itself.
type Scheduler struct {
	scheduler gocron.Scheduler
	invites   repositories.InviteRepository
	redis     *redis.Client
	log       *logger.Logger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

func NewScheduler(invites repositories.InviteRepository, client *redis.Client, log *logger.Logger) (*Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		scheduler: scheduler,
		invites:   invites,
		redis:     client,
		log:       log,
		jobs:      make(map[string]gocron.Job),
	}

	s.registerJobs()
	return s, nil
}

func (s *Scheduler) Start() {
	s.log.Info().Int("jobs", len(s.jobs)).Msg("starting background scheduler")
	s.scheduler.Start()
}

func (s *Scheduler) Stop() error {
	s.log.Info().Msg("stopping background scheduler")
	return s.scheduler.Shutdown()
}

func (s *Scheduler) registerJobs() {
	pruneJob, err := s.scheduler.NewJob(
		gocron.DurationJob(invitePruneInterval),
		gocron.NewTask(s.pruneStaleInvites, context.Background()),
		gocron.WithName("stale-invite-prune"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to register invite prune job")
	} else {
		s.jobs["stale-invite-prune"] = pruneJob
	}

	backlogJob, err := s.scheduler.NewJob(
		gocron.DurationJob(backlogCheckInterval),
		gocron.NewTask(s.checkNotificationBacklog, context.Background()),
		gocron.WithName("notification-backlog"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to register backlog check job")
	} else {
		s.jobs["notification-backlog"] = backlogJob
	}
}

// pruneStaleInvites drops unaccepted invites past the retention age. Their
// codes expired long ago; the rows only clutter listings.
func (s *Scheduler) pruneStaleInvites(ctx context.Context) {
	cutoff := time.Now().Add(-staleInviteAge)

	pruned, err := s.invites.PruneStale(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to prune stale invites")
		return
	}
	if pruned > 0 {
		s.log.Info().Int64("pruned", pruned).Msg("pruned stale invites")
	}
}

// checkNotificationBacklog warns when the mailer queue is not draining.
func (s *Scheduler) checkNotificationBacklog(ctx context.Context) {
	depth, err := s.redis.LLen(ctx, services.NotificationQueue).Result()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to read notification queue depth")
		return
	}

	if depth > backlogWarnThreshold {
		s.log.Warn().Int64("depth", depth).Msg("notification queue backlog")
	} else {
		s.log.Debug().Int64("depth", depth).Msg("notification queue depth")
	}
}

// JobNames reports the registered job names.
func (s *Scheduler) JobNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}
