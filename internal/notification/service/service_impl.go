package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/swaylabs/sway/internal/notification/domain"
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

func NewService(p Params) domain.Notifier {
	return &Service{
		log:   p.Log.Named("notification.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Notify(ctx context.Context, userID snowflake.ID, notificationType, title, message string) {
	notificationType = strings.TrimSpace(notificationType)
	if notificationType == "" || userID == 0 {
		return
	}

	entry := &domain.Notification{
		ID:        s.genID.Generate(),
		UserID:    userID,
		Type:      notificationType,
		Title:     strings.TrimSpace(title),
		Message:   strings.TrimSpace(message),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		s.log.Warn("failed to deliver notification",
			zap.String("type", notificationType),
			zap.Error(err),
		)
	}
}

func (s *Service) Recent(ctx context.Context, userID snowflake.ID, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.repo.Recent(ctx, userID, limit)
}
