package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/swaylabs/sway/internal/activity/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, activity *domain.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *repository) Recent(ctx context.Context, userID snowflake.ID, limit int) ([]domain.Activity, error) {
	var items []domain.Activity
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
