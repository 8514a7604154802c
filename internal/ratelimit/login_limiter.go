package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	redis "github.com/redis/go-redis/v9"
	"github.com/swaylabs/sway/internal/config"
	"go.uber.org/zap"
)

const keyLogin = "ratelimit:login:%s:%s"

// LoginLimiter throttles credential attempts per tenant and client IP.
// Without a Redis connection it is disabled and every attempt passes.
type LoginLimiter struct {
	enabled bool
	bucket  *TokenBucket
	rate    float64
	burst   int
	log     *zap.Logger
}

func NewLoginLimiter(cfg config.Config, client *redis.Client, log *zap.Logger) *LoginLimiter {
	limiter := &LoginLimiter{log: log.Named("ratelimit")}
	if client == nil || cfg.LoginRatePerMin <= 0 {
		return limiter
	}
	limiter.enabled = true
	limiter.bucket = NewTokenBucket(client)
	limiter.rate = float64(cfg.LoginRatePerMin) / 60.0
	limiter.burst = cfg.LoginRatePerMin
	return limiter
}

// Allow reports whether another attempt may proceed. Redis outages fail
// open so authentication stays available.
func (l *LoginLimiter) Allow(ctx context.Context, companyID snowflake.ID, clientIP string) (bool, time.Duration) {
	if l == nil || !l.enabled {
		return true, 0
	}

	key := fmt.Sprintf(keyLogin, companyID.String(), clientIP)
	res, err := l.bucket.Allow(ctx, key, l.rate, l.burst)
	if err != nil {
		l.log.Warn("rate limit check failed", zap.Error(err))
		return true, 0
	}
	return res.Allowed, res.RetryAfter
}
