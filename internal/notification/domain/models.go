// Package domain contains the notification model.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Notification is a message surfaced on the customer dashboard.
type Notification struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"column:user_id;not null;index:ix_notifications_user_created,priority:1" json:"userId"`
	Type      string       `gorm:"type:text;not null" json:"type"`
	Title     string       `gorm:"type:text;not null" json:"title"`
	Message   string       `gorm:"type:text;not null" json:"message"`
	Read      bool         `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;index:ix_notifications_user_created,priority:2,sort:desc" json:"createdAt"`
}

// TableName sets the database table name.
func (Notification) TableName() string { return "notifications" }

// Notifier delivers notifications. Notify is best-effort: failures are
// logged and never propagate to the caller.
type Notifier interface {
	Notify(ctx context.Context, userID snowflake.ID, notificationType, title, message string)
	Recent(ctx context.Context, userID snowflake.ID, limit int) ([]Notification, error)
}

type Repository interface {
	Insert(ctx context.Context, notification *Notification) error
	Recent(ctx context.Context, userID snowflake.ID, limit int) ([]Notification, error)
}
