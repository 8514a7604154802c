package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/swaylabs/sway/internal/config"
	"gorm.io/gorm"
)

// Service manages plan subscriptions on behalf of the checkout flow.
type Service interface {
	// ActivateOrExtend grants the user a paid period for the plan. An
	// existing active subscription is moved to the new plan and its end
	// date extended; otherwise a fresh subscription is created. Runs on
	// the caller's transaction handle.
	ActivateOrExtend(ctx context.Context, tx *gorm.DB, userID snowflake.ID, plan config.Plan, paymentMethod string) (*Subscription, error)

	// Current returns the user's newest subscription, expiring an
	// active row first when its paid period has lapsed. Callers check
	// Status; ErrSubscriptionNotFound means the user never subscribed.
	Current(ctx context.Context, userID snowflake.ID) (*Subscription, error)
}
