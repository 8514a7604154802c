package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository persists subscriptions. Every method takes the database
// handle so callers can run them inside their own transaction.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, subscription *Subscription) error
	Update(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error
	FindActiveByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Subscription, error)
	FindLatestByUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Subscription, error)
}
