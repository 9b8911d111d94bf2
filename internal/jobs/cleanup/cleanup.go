package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const defaultInterval = time.Hour

type registrationExpirer interface {
	ExpireLapsed(ctx context.Context) (int64, error)
}

// Job periodically moves lapsed temporary registrations to expired.
type Job struct {
	registrations registrationExpirer
	interval      time.Duration
	logger        *zap.Logger
}

func NewRegistrationExpiryJob(registrations registrationExpirer, interval time.Duration, logger *zap.Logger) *Job {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		registrations: registrations,
		interval:      interval,
		logger:        logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.registrations == nil {
		return nil
	}

	expired, err := j.registrations.ExpireLapsed(ctx)
	if err != nil {
		return fmt.Errorf("expire lapsed registrations: %w", err)
	}
	if expired > 0 {
		j.logger.Info("expired lapsed registrations", zap.Int64("count", expired))
	}

	return nil
}

// Start runs the job immediately, then on every tick until ctx is done.
// Sweep failures are logged and do not stop the loop.
func (j *Job) Start(ctx context.Context) error {
	if j.registrations == nil {
		return nil
	}

	if err := j.Run(ctx); err != nil {
		j.logger.Warn("registration expiry sweep failed", zap.Error(err))
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Warn("registration expiry sweep failed", zap.Error(err))
			}
		}
	}
}
