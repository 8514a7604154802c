package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/swaylabs/sway/internal/activity/domain"
	"github.com/swaylabs/sway/internal/auth/domain"
	"github.com/swaylabs/sway/internal/auth/password"
	"github.com/swaylabs/sway/internal/auth/token"
	"github.com/swaylabs/sway/internal/clock"
	"github.com/swaylabs/sway/internal/config"
	"github.com/swaylabs/sway/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	minPasswordLength = 6
	resetTokenBytes   = 32
	resetTokenTTL     = time.Hour
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Cfg    config.Config
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Repo   domain.Repository
	Resets domain.PasswordResetRepository
	Tokens *token.Service
	Events activitydomain.Recorder
}

type Service struct {
	db     *gorm.DB
	cfg    config.Config
	log    *zap.Logger
	genID  *snowflake.Node
	clock  clock.Clock
	repo   domain.Repository
	resets domain.PasswordResetRepository
	tokens *token.Service
	events activitydomain.Recorder
}

func NewService(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		cfg:    p.Cfg,
		log:    p.Log.Named("auth.service"),
		genID:  p.GenID,
		clock:  p.Clock,
		repo:   p.Repo,
		resets: p.Resets,
		tokens: p.Tokens,
		events: p.Events,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error) {
	cpfCnpj, err := normalizeCpfCnpj(req.CpfCnpj)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return nil, domain.ErrPasswordTooShort
	}

	if _, err := s.repo.FindByCpfCnpj(ctx, req.CompanyID, cpfCnpj); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:           s.genID.Generate(),
		CompanyID:    req.CompanyID,
		Name:         strings.TrimSpace(req.Name),
		CpfCnpj:      &cpfCnpj,
		PasswordHash: &hashed,
		Provider:     "local",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if email := normalizeEmail(req.Email); email != "" {
		user.Email = &email
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// The unique index catches registrations racing on the same
		// document inside one tenant.
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}

	s.events.Record(ctx, user.ID, "register", "Conta criada")

	return s.issueToken(user)
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error) {
	cpfCnpj, err := normalizeCpfCnpj(req.CpfCnpj)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByCpfCnpj(ctx, req.CompanyID, cpfCnpj)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.HasPassword() {
		return nil, &domain.SocialAccountError{Provider: user.Provider}
	}
	if !password.Verify(req.Password, *user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	s.events.Record(ctx, user.ID, "login", "Login realizado")

	return s.issueToken(user)
}

func (s *Service) SocialLogin(ctx context.Context, req domain.SocialLoginRequest) (*domain.AuthResult, error) {
	provider := strings.ToLower(strings.TrimSpace(req.Provider))
	providerID := strings.TrimSpace(req.ProviderID)
	if provider == "" || providerID == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByProvider(ctx, req.CompanyID, provider, providerID)
	if errors.Is(err, domain.ErrUserNotFound) {
		user, err = s.adoptOrCreateSocialUser(ctx, req, provider, providerID)
	}
	if err != nil {
		return nil, err
	}

	s.events.Record(ctx, user.ID, "login", fmt.Sprintf("Login via %s", provider))

	return s.issueToken(user)
}

// adoptOrCreateSocialUser links the provider identity to an existing
// account with the same email, or provisions a password-less account.
func (s *Service) adoptOrCreateSocialUser(ctx context.Context, req domain.SocialLoginRequest, provider, providerID string) (*domain.User, error) {
	if email := normalizeEmail(req.Email); email != "" {
		existing, err := s.repo.FindByEmail(ctx, req.CompanyID, email)
		if err == nil {
			fields := map[string]any{
				"provider":    provider,
				"provider_id": providerID,
				"updated_at":  s.clock.Now(),
			}
			if avatar := strings.TrimSpace(req.Avatar); avatar != "" {
				fields["avatar"] = avatar
			}
			if err := s.repo.UpdateFields(ctx, nil, existing.ID, fields); err != nil {
				return nil, err
			}
			return s.repo.FindByID(ctx, existing.ID)
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:         s.genID.Generate(),
		CompanyID:  req.CompanyID,
		Name:       strings.TrimSpace(req.Name),
		Provider:   provider,
		ProviderID: &providerID,
		Avatar:     strings.TrimSpace(req.Avatar),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if email := normalizeEmail(req.Email); email != "" {
		user.Email = &email
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.events.Record(ctx, user.ID, "register", fmt.Sprintf("Conta criada via %s", provider))
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id snowflake.ID, req domain.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"updated_at": s.clock.Now()}
	if name := strings.TrimSpace(req.Name); name != "" {
		fields["name"] = name
	}
	if email := normalizeEmail(req.Email); email != "" {
		fields["email"] = email
	}

	if err := s.repo.UpdateFields(ctx, nil, user.ID, fields); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	s.events.Record(ctx, user.ID, "profile_update", "Perfil atualizado")

	return s.repo.FindByID(ctx, user.ID)
}

func (s *Service) ChangePassword(ctx context.Context, id snowflake.ID, current, next string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.HasPassword() {
		return &domain.SocialAccountError{Provider: user.Provider}
	}
	if !password.Verify(current, *user.PasswordHash) {
		return domain.ErrWrongPassword
	}
	if len(strings.TrimSpace(next)) < minPasswordLength {
		return domain.ErrPasswordTooShort
	}

	hashed, err := password.Hash(next)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateFields(ctx, nil, user.ID, map[string]any{
		"password_hash": hashed,
		"updated_at":    s.clock.Now(),
	}); err != nil {
		return err
	}

	s.events.Record(ctx, user.ID, "password_change", "Senha alterada")
	return nil
}

func (s *Service) ForgotPassword(ctx context.Context, companyID snowflake.ID, cpfCnpj string) error {
	normalized, err := normalizeCpfCnpj(cpfCnpj)
	if err != nil {
		return nil
	}

	user, err := s.repo.FindByCpfCnpj(ctx, companyID, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return err
	}
	resetToken := hex.EncodeToString(raw)

	now := s.clock.Now()
	reset := &domain.PasswordReset{
		ID:        s.genID.Generate(),
		UserID:    user.ID,
		Token:     resetToken,
		ExpiresAt: now.Add(resetTokenTTL),
		CreatedAt: now,
	}

	// A fresh request supersedes any pending token for this user.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.resets.InvalidateUnused(ctx, tx, user.ID); err != nil {
			return err
		}
		return s.resets.Create(ctx, tx, reset)
	})
	if err != nil {
		return err
	}

	// Email delivery is out of scope; the link is logged for operators.
	s.log.Info("password reset requested",
		zap.String("user_id", user.ID.String()),
		zap.String("reset_url", fmt.Sprintf("%s/reset-password?token=%s", s.cfg.FrontendURL, resetToken)),
	)

	return nil
}

func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	resetToken = strings.TrimSpace(resetToken)
	if resetToken == "" {
		return domain.ErrResetTokenInvalid
	}
	if len(strings.TrimSpace(newPassword)) < minPasswordLength {
		return domain.ErrPasswordTooShort
	}

	reset, err := s.resets.FindByToken(ctx, resetToken)
	if err != nil {
		return err
	}
	if reset.Used {
		return domain.ErrResetTokenUsed
	}
	if s.clock.Now().After(reset.ExpiresAt) {
		return domain.ErrResetTokenExpired
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpdateFields(ctx, tx, reset.UserID, map[string]any{
			"password_hash": hashed,
			"updated_at":    s.clock.Now(),
		}); err != nil {
			return err
		}
		return s.resets.MarkUsed(ctx, tx, reset.ID)
	})
	if err != nil {
		return err
	}

	s.events.Record(ctx, reset.UserID, "password_reset", "Senha redefinida")
	return nil
}

func (s *Service) issueToken(user *domain.User) (*domain.AuthResult, error) {
	cpfCnpj := ""
	if user.CpfCnpj != nil {
		cpfCnpj = *user.CpfCnpj
	}
	signed, expiresAt, err := s.tokens.Generate(user.ID.String(), cpfCnpj, user.Name)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{
		User:      user,
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

func normalizeCpfCnpj(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	normalized := digits.String()
	if len(normalized) != 11 && len(normalized) != 14 {
		return "", domain.ErrInvalidCpfCnpj
	}
	return normalized, nil
}

func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
