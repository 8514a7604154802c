package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/swaylabs/sway/internal/checkout/domain"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &orderRepository{db: db}
}

func (r *orderRepository) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *orderRepository) Insert(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) Update(ctx context.Context, tx *gorm.DB, id snowflake.ID, fields map[string]any) error {
	return r.handle(tx).WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Updates(fields).Error
}
