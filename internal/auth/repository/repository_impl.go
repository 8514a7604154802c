package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/swaylabs/sway/internal/auth/domain"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

type resetRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) (domain.Repository, domain.PasswordResetRepository) {
	return &userRepository{db: db}, &resetRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (r *userRepository) FindByCpfCnpj(ctx context.Context, companyID snowflake.ID, cpfCnpj string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND cpf_cnpj = ?", companyID, cpfCnpj).
		First(&user).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, companyID snowflake.ID, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND email = ?", companyID, email).
		First(&user).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (r *userRepository) FindByProvider(ctx context.Context, companyID snowflake.ID, provider, providerID string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND provider = ? AND provider_id = ?", companyID, provider, providerID).
		First(&user).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (r *userRepository) UpdateFields(ctx context.Context, tx *gorm.DB, id snowflake.ID, fields map[string]any) error {
	handle := r.db
	if tx != nil {
		handle = tx
	}
	return handle.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *resetRepository) Create(ctx context.Context, tx *gorm.DB, reset *domain.PasswordReset) error {
	return r.handle(tx).WithContext(ctx).Create(reset).Error
}

func (r *resetRepository) InvalidateUnused(ctx context.Context, tx *gorm.DB, userID snowflake.ID) error {
	return r.handle(tx).WithContext(ctx).
		Model(&domain.PasswordReset{}).
		Where("user_id = ? AND used = ?", userID, false).
		Update("used", true).Error
}

func (r *resetRepository) FindByToken(ctx context.Context, token string) (*domain.PasswordReset, error) {
	var reset domain.PasswordReset
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&reset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrResetTokenInvalid
		}
		return nil, err
	}
	return &reset, nil
}

func (r *resetRepository) MarkUsed(ctx context.Context, tx *gorm.DB, id snowflake.ID) error {
	return r.handle(tx).WithContext(ctx).
		Model(&domain.PasswordReset{}).
		Where("id = ?", id).
		Update("used", true).Error
}

func (r *resetRepository) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrUserNotFound
	}
	return err
}
