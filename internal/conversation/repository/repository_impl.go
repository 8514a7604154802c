package repository

import (
	"context"
	"time"

	"github.com/swaylabs/sway/internal/conversation/domain"
	"gorm.io/gorm"
)

type conversationRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Stats(ctx context.Context, q domain.StatsQuery, startOfDay time.Time) (*domain.Stats, error) {
	scope := func() *gorm.DB {
		tx := r.db.WithContext(ctx).
			Model(&domain.Conversation{}).
			Where("company_id = ?", q.CompanyID)
		if q.UserID != nil {
			tx = tx.Where("user_id = ?", *q.UserID)
		}
		return tx
	}

	var stats domain.Stats
	if err := scope().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := scope().Where("status = ?", domain.StatusActive).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	if err := scope().
		Where("status = ? AND resolved_at >= ?", domain.StatusResolved, startOfDay).
		Count(&stats.Resolved).Error; err != nil {
		return nil, err
	}
	if err := scope().Where("status = ?", domain.StatusPending).Count(&stats.Pending).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
