package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/swaylabs/sway/internal/clock"
	"github.com/swaylabs/sway/internal/conversation/domain"
	"github.com/swaylabs/sway/internal/conversation/repository"
	"github.com/swaylabs/sway/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testCompanyID = snowflake.ID(42)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock, *gorm.DB) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Conversation{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	svc := NewService(Params{
		Log:   zap.NewNop(),
		Clock: fake,
		Repo:  repository.New(dbConn),
	})
	return svc, fake, dbConn
}

func seedConversation(t *testing.T, dbConn *gorm.DB, id int64, userID *snowflake.ID, status domain.ConversationStatus, resolvedAt *time.Time) {
	t.Helper()
	conv := domain.Conversation{
		ID:         snowflake.ID(id),
		CompanyID:  testCompanyID,
		UserID:     userID,
		Status:     status,
		ResolvedAt: resolvedAt,
	}
	if err := dbConn.Create(&conv).Error; err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
}

func TestStatsCountsByStatus(t *testing.T) {
	svc, fake, dbConn := newTestService(t)

	today := fake.Now().Add(-time.Hour)
	yesterday := fake.Now().Add(-30 * time.Hour)

	seedConversation(t, dbConn, 1, nil, domain.StatusActive, nil)
	seedConversation(t, dbConn, 2, nil, domain.StatusActive, nil)
	seedConversation(t, dbConn, 3, nil, domain.StatusPending, nil)
	seedConversation(t, dbConn, 4, nil, domain.StatusResolved, &today)
	seedConversation(t, dbConn, 5, nil, domain.StatusResolved, &yesterday)

	stats, err := svc.Stats(context.Background(), domain.StatsQuery{CompanyID: testCompanyID})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 5 {
		t.Fatalf("expected total 5, got %d", stats.Total)
	}
	if stats.Active != 2 {
		t.Fatalf("expected 2 active, got %d", stats.Active)
	}
	// Only the conversation resolved today counts.
	if stats.Resolved != 1 {
		t.Fatalf("expected 1 resolved today, got %d", stats.Resolved)
	}
	if stats.Pending != 1 {
		t.Fatalf("expected 1 pending, got %d", stats.Pending)
	}
}

func TestStatsScopedToUser(t *testing.T) {
	svc, _, dbConn := newTestService(t)

	operator := snowflake.ID(7)
	other := snowflake.ID(8)
	seedConversation(t, dbConn, 1, &operator, domain.StatusActive, nil)
	seedConversation(t, dbConn, 2, &other, domain.StatusActive, nil)
	seedConversation(t, dbConn, 3, nil, domain.StatusPending, nil)

	stats, err := svc.Stats(context.Background(), domain.StatsQuery{
		CompanyID: testCompanyID,
		UserID:    &operator,
	})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 1 || stats.Active != 1 {
		t.Fatalf("expected only the operator's conversation, got %+v", stats)
	}
}
