package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/swaylabs/sway/internal/activity/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func NewService(p Params) domain.Recorder {
	return &Service{
		log:   p.Log.Named("activity.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Record(ctx context.Context, userID snowflake.ID, activityType, message string) {
	activityType = strings.TrimSpace(activityType)
	if activityType == "" || userID == 0 {
		return
	}

	entry := &domain.Activity{
		ID:        s.genID.Generate(),
		UserID:    userID,
		Type:      activityType,
		Message:   strings.TrimSpace(message),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		s.log.Warn("failed to record activity",
			zap.String("type", activityType),
			zap.Error(err),
		)
	}
}

func (s *Service) Recent(ctx context.Context, userID snowflake.ID, limit int) ([]domain.Activity, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.repo.Recent(ctx, userID, limit)
}
