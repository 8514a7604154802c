package service

import (
	"context"
	"time"

	"github.com/swaylabs/sway/internal/clock"
	"github.com/swaylabs/sway/internal/conversation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("conversation.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Stats(ctx context.Context, q domain.StatsQuery) (*domain.Stats, error) {
	now := s.clock.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.repo.Stats(ctx, q, startOfDay)
}
