// Package domain contains persistence models for plan subscriptions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// SubscriptionStatus represents lifecycle states for a subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription grants a user access to a plan for a paid period.
type Subscription struct {
	ID            snowflake.ID       `gorm:"primaryKey" json:"id"`
	UserID        snowflake.ID       `gorm:"not null;index:ix_subscriptions_user_status,priority:1" json:"userId"`
	Plan          string             `gorm:"type:text;not null" json:"plan"`
	Price         float64            `gorm:"not null" json:"price"`
	Currency      string             `gorm:"type:text;not null;default:BRL" json:"currency"`
	Status        SubscriptionStatus `gorm:"type:text;not null;index:ix_subscriptions_user_status,priority:2" json:"status"`
	PaymentMethod string             `gorm:"type:text;not null" json:"paymentMethod"`
	StartDate     time.Time          `gorm:"not null" json:"startDate"`
	EndDate       time.Time          `gorm:"not null" json:"endDate"`
	CreatedAt     time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt     time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// Active reports whether the subscription covers the given instant.
func (s *Subscription) ActiveAt(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && now.Before(s.EndDate)
}
