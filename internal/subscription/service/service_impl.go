package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/swaylabs/sway/internal/clock"
	"github.com/swaylabs/sway/internal/config"
	"github.com/swaylabs/sway/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// subscriptionPeriod is the paid window granted per confirmed order.
const subscriptionPeriod = 30 * 24 * time.Hour

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("subscription.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) ActivateOrExtend(ctx context.Context, tx *gorm.DB, userID snowflake.ID, plan config.Plan, paymentMethod string) (*domain.Subscription, error) {
	now := s.clock.Now()

	existing, err := s.repo.FindActiveByUser(ctx, tx, userID)
	if err != nil && !errors.Is(err, domain.ErrSubscriptionNotFound) {
		return nil, err
	}

	if existing != nil && existing.ActiveAt(now) {
		// Paying again resets the term from now and moves the
		// subscription to the purchased plan.
		endDate := now.Add(subscriptionPeriod)
		fields := map[string]any{
			"plan":           plan.Name,
			"price":          plan.Price,
			"currency":       plan.Currency,
			"payment_method": paymentMethod,
			"end_date":       endDate,
			"updated_at":     now,
		}
		if err := s.repo.Update(ctx, tx, existing.ID, fields); err != nil {
			return nil, err
		}
		existing.Plan = plan.Name
		existing.Price = plan.Price
		existing.Currency = plan.Currency
		existing.PaymentMethod = paymentMethod
		existing.EndDate = endDate
		existing.UpdatedAt = now
		return existing, nil
	}

	if existing != nil {
		if err := s.repo.Update(ctx, tx, existing.ID, map[string]any{
			"status":     domain.SubscriptionStatusExpired,
			"updated_at": now,
		}); err != nil {
			return nil, err
		}
	}

	sub := &domain.Subscription{
		ID:            s.genID.Generate(),
		UserID:        userID,
		Plan:          plan.Name,
		Price:         plan.Price,
		Currency:      plan.Currency,
		Status:        domain.SubscriptionStatusActive,
		PaymentMethod: paymentMethod,
		StartDate:     now,
		EndDate:       now.Add(subscriptionPeriod),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Insert(ctx, tx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *Service) Current(ctx context.Context, userID snowflake.ID) (*domain.Subscription, error) {
	now := s.clock.Now()

	sub, err := s.repo.FindActiveByUser(ctx, s.db, userID)
	if errors.Is(err, domain.ErrSubscriptionNotFound) {
		// No active row; surface the latest term so the dashboard can
		// still show when the user's plan ended.
		return s.repo.FindLatestByUser(ctx, s.db, userID)
	}
	if err != nil {
		return nil, err
	}
	if !now.Before(sub.EndDate) {
		if err := s.repo.Update(ctx, s.db, sub.ID, map[string]any{
			"status":     domain.SubscriptionStatusExpired,
			"updated_at": now,
		}); err != nil {
			return nil, err
		}
		sub.Status = domain.SubscriptionStatusExpired
		sub.UpdatedAt = now
	}
	return sub, nil
}
