package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type notificationCleaner interface {
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupJob periodically deletes read notifications older than the
// retention window. Unread rows are never touched, however old.
type CleanupJob struct {
	notifications notificationCleaner
	retention     time.Duration
	interval      time.Duration
	done          chan struct{}
}

func NewCleanupJob(notifications notificationCleaner, retention, interval time.Duration) *CleanupJob {
	return &CleanupJob{
		notifications: notifications,
		retention:     retention,
		interval:      interval,
		done:          make(chan struct{}),
	}
}

func (j *CleanupJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Dur("retention", j.retention).Msg("cleanup job started")
}

func (j *CleanupJob) Stop() {
	close(j.done)
	log.Info().Msg("cleanup job stopped")
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.cleanup()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.cleanup()
		}
	}
}

func (j *CleanupJob) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-j.retention)
	count, err := j.notifications.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("failed to clean up read notifications")
	} else if count > 0 {
		log.Info().Int64("count", count).Msg("cleaned up read notifications")
	}
}
