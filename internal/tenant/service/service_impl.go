package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/swaylabs/sway/internal/config"
	"github.com/swaylabs/sway/internal/tenant/domain"
	"github.com/swaylabs/sway/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg   config.Config
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	cfg   config.Config
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		cfg:   p.Cfg,
		log:   p.Log.Named("tenant.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Resolve(ctx context.Context, host string) (*domain.Company, error) {
	subdomain := domain.ExtractSubdomain(host, s.cfg.BaseBrand)
	if subdomain == "" {
		return s.ensureDefaultCompany(ctx)
	}

	company, err := s.repo.FindBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, err
	}
	if !company.Active {
		return nil, domain.ErrCompanyInactive
	}
	return company, nil
}

func (s *Service) FindBySubdomain(ctx context.Context, subdomain string) (*domain.Company, error) {
	return s.repo.FindBySubdomain(ctx, strings.ToLower(strings.TrimSpace(subdomain)))
}

func (s *Service) Create(ctx context.Context, req domain.CreateCompanyRequest) (*domain.Company, error) {
	subdomain := slug.Make(req.Subdomain)
	if subdomain == "" {
		subdomain = slug.Make(req.Name)
	}
	if subdomain == "" {
		return nil, domain.ErrInvalidSubdomain
	}

	now := time.Now().UTC()
	company := &domain.Company{
		ID:        s.genID.Generate(),
		Name:      strings.TrimSpace(req.Name),
		Subdomain: subdomain,
		Domain:    strings.TrimSpace(req.Domain),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, company); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSubdomainTaken
		}
		return nil, err
	}
	return company, nil
}

// ensureDefaultCompany upserts the demo tenant. Concurrent first
// requests may race on the unique subdomain; the loser re-reads.
func (s *Service) ensureDefaultCompany(ctx context.Context) (*domain.Company, error) {
	company, err := s.repo.FindBySubdomain(ctx, s.cfg.DefaultTenantSubdomain)
	if err == nil {
		if !company.Active {
			return nil, domain.ErrCompanyInactive
		}
		return company, nil
	}
	if !errors.Is(err, domain.ErrCompanyNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	created := &domain.Company{
		ID:        s.genID.Generate(),
		Name:      s.cfg.DefaultTenantName,
		Subdomain: s.cfg.DefaultTenantSubdomain,
		Domain:    s.cfg.DefaultTenantDomain,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, created); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return s.repo.FindBySubdomain(ctx, s.cfg.DefaultTenantSubdomain)
		}
		return nil, err
	}

	s.log.Info("default tenant created", zap.String("subdomain", created.Subdomain))
	return created, nil
}
