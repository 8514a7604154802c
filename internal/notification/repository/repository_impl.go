package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/swaylabs/sway/internal/notification/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, notification *domain.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *repository) Recent(ctx context.Context, userID snowflake.ID, limit int) ([]domain.Notification, error) {
	var items []domain.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
