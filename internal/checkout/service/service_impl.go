package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/swaylabs/sway/internal/activity/domain"
	"github.com/swaylabs/sway/internal/checkout/domain"
	"github.com/swaylabs/sway/internal/clock"
	"github.com/swaylabs/sway/internal/config"
	notificationdomain "github.com/swaylabs/sway/internal/notification/domain"
	"github.com/swaylabs/sway/internal/observability/metrics"
	subscriptiondomain "github.com/swaylabs/sway/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Cfg           config.Config
	Log           *zap.Logger
	GenID         *snowflake.Node
	Clock         clock.Clock
	Plans         *config.PlanCatalogHolder
	Repo          domain.Repository
	Subscriptions subscriptiondomain.Service
	Events        activitydomain.Recorder
	Notifier      notificationdomain.Notifier
	Metrics       *metrics.Metrics
}

type Service struct {
	db            *gorm.DB
	cfg           config.Config
	log           *zap.Logger
	genID         *snowflake.Node
	clock         clock.Clock
	plans         *config.PlanCatalogHolder
	repo          domain.Repository
	subscriptions subscriptiondomain.Service
	events        activitydomain.Recorder
	notifier      notificationdomain.Notifier
	metrics       *metrics.Metrics
}

func NewService(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		cfg:           p.Cfg,
		log:           p.Log.Named("checkout.service"),
		genID:         p.GenID,
		clock:         p.Clock,
		plans:         p.Plans,
		repo:          p.Repo,
		subscriptions: p.Subscriptions,
		events:        p.Events,
		notifier:      p.Notifier,
		metrics:       p.Metrics,
	}
}

func (s *Service) GetPlan(ctx context.Context, name string) (config.Plan, error) {
	plan, ok := s.plans.Get().Find(name)
	if !ok {
		return config.Plan{}, domain.ErrPlanNotFound
	}
	return plan, nil
}

func (s *Service) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.CreateOrderResult, error) {
	plan, ok := s.plans.Get().Find(req.Plan)
	if !ok {
		return nil, domain.ErrPlanNotFound
	}

	method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	now := s.clock.Now()

	metadata := datatypes.JSONMap{
		"createdAt": now.Format("2006-01-02T15:04:05Z07:00"),
	}
	if req.CompanyData != nil {
		metadata["companyData"] = req.CompanyData
	}
	if card := sanitizeCard(req.CardData); card != nil {
		metadata["cardData"] = card
	}

	order := &domain.Order{
		ID:            s.genID.Generate(),
		UserID:        req.UserID,
		Plan:          plan.Name,
		Amount:        plan.Price,
		Currency:      plan.Currency,
		PaymentMethod: method,
		Status:        domain.OrderStatusPending,
		Metadata:      metadata,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Insert(ctx, order); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated(ctx, plan.Name, method)
	}
	s.log.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("plan", plan.Name),
		zap.String("payment_method", method),
	)

	return &domain.CreateOrderResult{
		Order:      order,
		PaymentURL: s.paymentURL(method, order.ID),
	}, nil
}

// paymentURL renders the gateway link for the payment method, when one
// is configured. Card payments are collected inline and have no link.
func (s *Service) paymentURL(method string, orderID snowflake.ID) string {
	template, ok := s.plans.Get().PaymentLinks[method]
	if !ok {
		return ""
	}
	return fmt.Sprintf(template, orderID.String())
}

func (s *Service) ConfirmPayment(ctx context.Context, req domain.ConfirmPaymentRequest) error {
	order, err := s.repo.FindByID(ctx, req.OrderID)
	if err != nil {
		return err
	}
	if order.Status != domain.OrderStatusPending {
		return domain.ErrOrderAlreadyProcessed
	}

	now := s.clock.Now()

	if req.Status != "paid" {
		if err := s.repo.Update(ctx, nil, order.ID, map[string]any{
			"status":     domain.OrderStatusFailed,
			"payment_id": req.PaymentID,
			"updated_at": now,
		}); err != nil {
			return err
		}
		if s.metrics != nil {
			s.metrics.RecordPaymentEvent(ctx, "failed")
		}
		s.log.Warn("payment failed",
			zap.String("order_id", order.ID.String()),
			zap.String("gateway_status", req.Status),
		)
		return nil
	}

	plan, ok := s.plans.Get().Find(order.Plan)
	if !ok {
		// The plan was removed from the catalog after the order was
		// placed; settle with the amount recorded on the order.
		plan = config.Plan{
			Name:     order.Plan,
			Price:    order.Amount,
			Currency: order.Currency,
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub, err := s.subscriptions.ActivateOrExtend(ctx, tx, order.UserID, plan, order.PaymentMethod)
		if err != nil {
			return err
		}
		return s.repo.Update(ctx, tx, order.ID, map[string]any{
			"status":          domain.OrderStatusPaid,
			"payment_id":      req.PaymentID,
			"subscription_id": sub.ID,
			"updated_at":      now,
		})
	})
	if err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordPaymentEvent(ctx, "paid")
	}
	s.events.Record(ctx, order.UserID, "subscription", fmt.Sprintf("Assinatura %s ativada com sucesso", order.Plan))
	s.notifier.Notify(ctx, order.UserID, "info", "Assinatura ativa",
		fmt.Sprintf("Bem-vindo ao plano %s! Sua assinatura está ativa.", order.Plan))

	s.log.Info("payment confirmed",
		zap.String("order_id", order.ID.String()),
		zap.String("plan", order.Plan),
	)
	return nil
}

func (s *Service) GetOrder(ctx context.Context, userID, orderID snowflake.ID) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// Ownership mismatch is indistinguishable from a missing order.
	if order.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// sanitizeCard keeps only the last four digits and a derived brand.
func sanitizeCard(card *domain.CardData) map[string]any {
	if card == nil {
		return nil
	}
	number := strings.ReplaceAll(strings.TrimSpace(card.Number), " ", "")
	if number == "" {
		return nil
	}
	brand := "mastercard"
	if strings.HasPrefix(number, "4") {
		brand = "visa"
	}
	last4 := number
	if len(number) > 4 {
		last4 = number[len(number)-4:]
	}
	return map[string]any{
		"last4": last4,
		"brand": brand,
	}
}
