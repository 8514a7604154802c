package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/swaylabs/sway/internal/activity/domain"
	activityrepo "github.com/swaylabs/sway/internal/activity/repository"
	activityservice "github.com/swaylabs/sway/internal/activity/service"
	authdomain "github.com/swaylabs/sway/internal/auth/domain"
	authrepo "github.com/swaylabs/sway/internal/auth/repository"
	authservice "github.com/swaylabs/sway/internal/auth/service"
	"github.com/swaylabs/sway/internal/auth/token"
	"github.com/swaylabs/sway/internal/clock"
	"github.com/swaylabs/sway/internal/config"
	conversationdomain "github.com/swaylabs/sway/internal/conversation/domain"
	conversationrepo "github.com/swaylabs/sway/internal/conversation/repository"
	conversationservice "github.com/swaylabs/sway/internal/conversation/service"
	notificationdomain "github.com/swaylabs/sway/internal/notification/domain"
	notificationrepo "github.com/swaylabs/sway/internal/notification/repository"
	notificationservice "github.com/swaylabs/sway/internal/notification/service"
	"github.com/swaylabs/sway/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testCompanyID = snowflake.ID(42)

type harness struct {
	svc   *Service
	auth  authdomain.Service
	db    *gorm.DB
	clock *clock.FakeClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(
		&authdomain.User{},
		&authdomain.PasswordReset{},
		&activitydomain.Activity{},
		&notificationdomain.Notification{},
		&conversationdomain.Conversation{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}
	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	tokens, err := token.NewService(token.Config{
		SecretKey: "test-secret-key-with-32-characters!",
		Duration:  time.Hour,
	})
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}

	users, resets := authrepo.New(dbConn)
	events := activityservice.NewService(activityservice.Params{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  activityrepo.New(dbConn),
	})
	notifier := notificationservice.NewService(notificationservice.Params{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  notificationrepo.New(dbConn),
	})
	auth := authservice.NewService(authservice.Params{
		DB:     dbConn,
		Cfg:    config.Config{FrontendURL: "http://localhost:3000"},
		Log:    zap.NewNop(),
		GenID:  node,
		Clock:  fake,
		Repo:   users,
		Resets: resets,
		Tokens: tokens,
		Events: events,
	})
	conversations := conversationservice.NewService(conversationservice.Params{
		Log:   zap.NewNop(),
		Clock: fake,
		Repo:  conversationrepo.New(dbConn),
	})

	svc := NewService(Params{
		Log:           zap.NewNop(),
		Users:         auth,
		Conversations: conversations,
		Activities:    events,
		Notifications: notifier,
	}).(*Service)

	return &harness{svc: svc, auth: auth, db: dbConn, clock: fake}
}

func TestGetHomeAggregates(t *testing.T) {
	h := newHarness(t)

	res, err := h.auth.Register(context.Background(), authdomain.RegisterRequest{
		CompanyID: testCompanyID,
		Name:      "Maria Silva",
		Email:     "maria@example.com",
		CpfCnpj:   "52998224725",
		Password:  "segredo1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	userID := res.User.ID

	resolvedAt := h.clock.Now().Add(-time.Hour)
	conv := conversationdomain.Conversation{
		ID:         snowflake.ID(1),
		CompanyID:  testCompanyID,
		UserID:     &userID,
		Status:     conversationdomain.StatusResolved,
		ResolvedAt: &resolvedAt,
	}
	if err := h.db.Create(&conv).Error; err != nil {
		t.Fatalf("seed conversation: %v", err)
	}

	home, err := h.svc.GetHome(context.Background(), testCompanyID, userID)
	if err != nil {
		t.Fatalf("get home: %v", err)
	}
	if home.User.Name != "Maria Silva" {
		t.Fatalf("unexpected user: %+v", home.User)
	}
	if home.Stats.Total != 1 || home.Stats.Resolved != 1 {
		t.Fatalf("unexpected stats: %+v", home.Stats)
	}
	// Registration wrote one activity.
	if len(home.RecentActivity) != 1 || home.RecentActivity[0].Type != "register" {
		t.Fatalf("unexpected activity: %+v", home.RecentActivity)
	}
	if len(home.Notifications) != 0 {
		t.Fatalf("expected no notifications, got %+v", home.Notifications)
	}
}

func TestGetHomeUnknownUser(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.GetHome(context.Background(), testCompanyID, snowflake.ID(999))
	if !errors.Is(err, authdomain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
