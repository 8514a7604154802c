package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/swaylabs/sway/internal/clock"
	subscriptiondomain "github.com/swaylabs/sway/internal/subscription/domain"
	"github.com/swaylabs/sway/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestScheduler(t *testing.T) (*Scheduler, *clock.FakeClock, *gorm.DB) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&subscriptiondomain.Subscription{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	sched := New(Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		Clock: fake,
	})
	return sched, fake, dbConn
}

func seedSubscription(t *testing.T, dbConn *gorm.DB, id int64, status subscriptiondomain.SubscriptionStatus, endDate time.Time) {
	t.Helper()
	sub := subscriptiondomain.Subscription{
		ID:            snowflake.ID(id),
		UserID:        snowflake.ID(7),
		Plan:          "pro",
		Price:         799,
		Currency:      "BRL",
		Status:        status,
		PaymentMethod: "pix",
		StartDate:     endDate.Add(-30 * 24 * time.Hour),
		EndDate:       endDate,
	}
	if err := dbConn.Create(&sub).Error; err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
}

func TestExpireLapsedSubscriptions(t *testing.T) {
	sched, fake, dbConn := newTestScheduler(t)

	seedSubscription(t, dbConn, 1, subscriptiondomain.SubscriptionStatusActive, fake.Now().Add(-time.Hour))
	seedSubscription(t, dbConn, 2, subscriptiondomain.SubscriptionStatusActive, fake.Now().Add(time.Hour))
	seedSubscription(t, dbConn, 3, subscriptiondomain.SubscriptionStatusCancelled, fake.Now().Add(-time.Hour))

	if err := sched.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}

	var expired, active, cancelled int64
	dbConn.Model(&subscriptiondomain.Subscription{}).Where("status = ?", subscriptiondomain.SubscriptionStatusExpired).Count(&expired)
	dbConn.Model(&subscriptiondomain.Subscription{}).Where("status = ?", subscriptiondomain.SubscriptionStatusActive).Count(&active)
	dbConn.Model(&subscriptiondomain.Subscription{}).Where("status = ?", subscriptiondomain.SubscriptionStatusCancelled).Count(&cancelled)

	if expired != 1 || active != 1 || cancelled != 1 {
		t.Fatalf("unexpected state: expired=%d active=%d cancelled=%d", expired, active, cancelled)
	}
}

func TestRunOnceIsIdempotent(t *testing.T) {
	sched, fake, dbConn := newTestScheduler(t)

	seedSubscription(t, dbConn, 1, subscriptiondomain.SubscriptionStatusActive, fake.Now().Add(-time.Hour))

	for i := 0; i < 3; i++ {
		if err := sched.RunOnce(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	var expired int64
	dbConn.Model(&subscriptiondomain.Subscription{}).Where("status = ?", subscriptiondomain.SubscriptionStatusExpired).Count(&expired)
	if expired != 1 {
		t.Fatalf("expected 1 expired, got %d", expired)
	}
}
