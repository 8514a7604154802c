// Package scheduler runs periodic maintenance jobs. The only job today
// sweeps subscriptions whose paid period has lapsed.
package scheduler

import (
	"context"
	"time"

	"github.com/swaylabs/sway/internal/clock"
	"github.com/swaylabs/sway/internal/ratelimit"
	subscriptiondomain "github.com/swaylabs/sway/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	expireLockKey = "scheduler:lock:expire_subscriptions"
	expireLockTTL = time.Minute
)

// Config controls the sweep interval.
type Config struct {
	RunInterval time.Duration
}

func DefaultConfig() Config {
	return Config{RunInterval: time.Hour}
}

func (c Config) withDefaults() Config {
	if c.RunInterval <= 0 {
		c.RunInterval = DefaultConfig().RunInterval
	}
	return c
}

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Clock  clock.Clock
	Locker *ratelimit.Locker `optional:"true"`
	Config Config            `optional:"true"`
}

type Scheduler struct {
	db     *gorm.DB
	log    *zap.Logger
	clock  clock.Clock
	locker *ratelimit.Locker
	cfg    Config
}

func New(p Params) *Scheduler {
	return &Scheduler{
		db:     p.DB,
		log:    p.Log.Named("scheduler"),
		clock:  p.Clock,
		locker: p.Locker,
		cfg:    p.Config.withDefaults(),
	}
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) RunOnce(ctx context.Context) error {
	// Only one instance sweeps at a time; without Redis the lock is
	// skipped and the sweep runs anyway.
	if s.locker != nil {
		token, ok, err := s.locker.TryLock(ctx, expireLockKey, expireLockTTL)
		if err != nil {
			s.log.Warn("scheduler lock unavailable", zap.Error(err))
		} else if !ok {
			return nil
		} else {
			defer func() {
				if err := s.locker.Release(ctx, expireLockKey, token); err != nil {
					s.log.Warn("scheduler lock release failed", zap.Error(err))
				}
			}()
		}
	}

	return s.ExpireLapsedSubscriptions(ctx)
}

// ExpireLapsedSubscriptions moves every active subscription past its
// end date to expired.
func (s *Scheduler) ExpireLapsedSubscriptions(ctx context.Context) error {
	now := s.clock.Now()
	res := s.db.WithContext(ctx).
		Model(&subscriptiondomain.Subscription{}).
		Where("status = ? AND end_date <= ?", subscriptiondomain.SubscriptionStatusActive, now).
		Updates(map[string]any{
			"status":     subscriptiondomain.SubscriptionStatusExpired,
			"updated_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		s.log.Info("subscriptions expired", zap.Int64("count", res.RowsAffected))
	}
	return nil
}
