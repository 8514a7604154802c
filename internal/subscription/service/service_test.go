package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/swaylabs/sway/internal/clock"
	"github.com/swaylabs/sway/internal/config"
	"github.com/swaylabs/sway/internal/subscription/domain"
	"github.com/swaylabs/sway/internal/subscription/repository"
	"github.com/swaylabs/sway/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testPlan = config.Plan{Name: "pro", DisplayName: "Pro", Price: 799, Currency: "BRL"}

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock, *gorm.DB) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Subscription{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	svc := NewService(Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  repository.Provide(),
	})
	return svc, fake, dbConn
}

func TestActivateCreatesThirtyDayPeriod(t *testing.T) {
	svc, fake, dbConn := newTestService(t)
	userID := snowflake.ID(7)

	sub, err := svc.ActivateOrExtend(context.Background(), dbConn, userID, testPlan, "pix")
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if sub.Status != domain.SubscriptionStatusActive {
		t.Fatalf("expected active, got %s", sub.Status)
	}
	want := fake.Now().Add(30 * 24 * time.Hour)
	if !sub.EndDate.Equal(want) {
		t.Fatalf("expected end date %v, got %v", want, sub.EndDate)
	}
}

func TestActivateRenewsExistingSubscription(t *testing.T) {
	svc, fake, dbConn := newTestService(t)
	userID := snowflake.ID(7)

	first, err := svc.ActivateOrExtend(context.Background(), dbConn, userID, testPlan, "pix")
	if err != nil {
		t.Fatalf("first activate: %v", err)
	}

	fake.Advance(10 * 24 * time.Hour)

	upgrade := config.Plan{Name: "enterprise", Price: 1999, Currency: "BRL"}
	second, err := svc.ActivateOrExtend(context.Background(), dbConn, userID, upgrade, "credit_card")
	if err != nil {
		t.Fatalf("second activate: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same subscription, got %v and %v", first.ID, second.ID)
	}
	if second.Plan != "enterprise" {
		t.Fatalf("expected plan moved to enterprise, got %s", second.Plan)
	}
	// Paying again resets the term: 30 days from the new payment, not
	// stacked onto the previous end date.
	want := fake.Now().Add(30 * 24 * time.Hour)
	if !second.EndDate.Equal(want) {
		t.Fatalf("expected end date %v, got %v", want, second.EndDate)
	}

	var count int64
	if err := dbConn.Model(&domain.Subscription{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 subscription, got %d", count)
	}
}

func TestActivateAfterExpiryCreatesNewSubscription(t *testing.T) {
	svc, fake, dbConn := newTestService(t)
	userID := snowflake.ID(7)

	first, err := svc.ActivateOrExtend(context.Background(), dbConn, userID, testPlan, "pix")
	if err != nil {
		t.Fatalf("first activate: %v", err)
	}

	fake.Advance(31 * 24 * time.Hour)

	second, err := svc.ActivateOrExtend(context.Background(), dbConn, userID, testPlan, "pix")
	if err != nil {
		t.Fatalf("second activate: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("expected a new subscription after expiry")
	}

	var old domain.Subscription
	if err := dbConn.First(&old, "id = ?", first.ID).Error; err != nil {
		t.Fatalf("load old: %v", err)
	}
	if old.Status != domain.SubscriptionStatusExpired {
		t.Fatalf("expected old subscription expired, got %s", old.Status)
	}
}

func TestCurrentExpiresLapsedSubscription(t *testing.T) {
	svc, fake, dbConn := newTestService(t)
	userID := snowflake.ID(7)

	created, err := svc.ActivateOrExtend(context.Background(), dbConn, userID, testPlan, "pix")
	if err != nil {
		t.Fatalf("activate: %v", err)
	}

	sub, err := svc.Current(context.Background(), userID)
	if err != nil {
		t.Fatalf("current while active: %v", err)
	}
	if sub.Status != domain.SubscriptionStatusActive {
		t.Fatalf("expected active, got %s", sub.Status)
	}

	fake.Advance(31 * 24 * time.Hour)

	sub, err = svc.Current(context.Background(), userID)
	if err != nil {
		t.Fatalf("current after lapse: %v", err)
	}
	if sub.ID != created.ID || sub.Status != domain.SubscriptionStatusExpired {
		t.Fatalf("expected the lapsed term marked expired, got %v %s", sub.ID, sub.Status)
	}

	var stored domain.Subscription
	if err := dbConn.First(&stored, "id = ?", created.ID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.Status != domain.SubscriptionStatusExpired {
		t.Fatalf("expected stored row expired, got %s", stored.Status)
	}
}

func TestCurrentWithoutSubscription(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Current(context.Background(), snowflake.ID(7))
	if !errors.Is(err, domain.ErrSubscriptionNotFound) {
		t.Fatalf("expected ErrSubscriptionNotFound, got %v", err)
	}
}
