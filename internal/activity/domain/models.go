// Package domain contains the activity log model.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Activity is an append-only record of something a user did.
type Activity struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"column:user_id;not null;index:ix_activities_user_created,priority:1" json:"userId"`
	Type      string       `gorm:"type:text;not null" json:"type"`
	Message   string       `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;index:ix_activities_user_created,priority:2,sort:desc" json:"createdAt"`
}

// TableName sets the database table name.
func (Activity) TableName() string { return "activities" }

// Recorder writes activity entries. Record is best-effort: failures are
// logged and never propagate to the caller.
type Recorder interface {
	Record(ctx context.Context, userID snowflake.ID, activityType, message string)
	Recent(ctx context.Context, userID snowflake.ID, limit int) ([]Activity, error)
}

type Repository interface {
	Insert(ctx context.Context, activity *Activity) error
	Recent(ctx context.Context, userID snowflake.ID, limit int) ([]Activity, error)
}
