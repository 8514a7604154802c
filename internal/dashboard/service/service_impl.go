package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/swaylabs/sway/internal/activity/domain"
	authdomain "github.com/swaylabs/sway/internal/auth/domain"
	conversationdomain "github.com/swaylabs/sway/internal/conversation/domain"
	"github.com/swaylabs/sway/internal/dashboard/domain"
	notificationdomain "github.com/swaylabs/sway/internal/notification/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const recentItems = 5

type Params struct {
	fx.In

	Log           *zap.Logger
	Users         authdomain.Service
	Conversations conversationdomain.Service
	Activities    activitydomain.Recorder
	Notifications notificationdomain.Notifier
}

type Service struct {
	log           *zap.Logger
	users         authdomain.Service
	conversations conversationdomain.Service
	activities    activitydomain.Recorder
	notifications notificationdomain.Notifier
}

func NewService(p Params) domain.Service {
	return &Service{
		log:           p.Log.Named("dashboard.service"),
		users:         p.Users,
		conversations: p.Conversations,
		activities:    p.Activities,
		notifications: p.Notifications,
	}
}

func (s *Service) GetHome(ctx context.Context, companyID, userID snowflake.ID) (*domain.HomeData, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats, err := s.conversations.Stats(ctx, conversationdomain.StatsQuery{
		CompanyID: companyID,
		UserID:    &userID,
	})
	if err != nil {
		return nil, err
	}

	activities, err := s.activities.Recent(ctx, userID, recentItems)
	if err != nil {
		return nil, err
	}

	notifications, err := s.notifications.Recent(ctx, userID, recentItems)
	if err != nil {
		return nil, err
	}

	data := &domain.HomeData{
		User: domain.HomeUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
		Stats:          *stats,
		RecentActivity: make([]domain.ActivityItem, 0, len(activities)),
		Notifications:  make([]domain.NotificationItem, 0, len(notifications)),
	}
	for _, a := range activities {
		data.RecentActivity = append(data.RecentActivity, domain.ActivityItem{
			Type:    a.Type,
			Message: a.Message,
			Time:    a.CreatedAt,
		})
	}
	for _, n := range notifications {
		data.Notifications = append(data.Notifications, domain.NotificationItem{
			ID:      n.ID,
			Type:    n.Type,
			Message: n.Message,
			Read:    n.Read,
			Time:    n.CreatedAt,
		})
	}
	return data, nil
}
