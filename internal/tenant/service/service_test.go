package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/swaylabs/sway/internal/config"
	"github.com/swaylabs/sway/internal/tenant/domain"
	"github.com/swaylabs/sway/internal/tenant/repository"
	"github.com/swaylabs/sway/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Company{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	cfg := config.Config{
		BaseBrand:              "swaybrasil",
		DefaultTenantName:      "Empresa Demo",
		DefaultTenantSubdomain: "demo",
		DefaultTenantDomain:    "demo.swaybrasil.com",
	}

	svc := NewService(Params{
		Cfg:   cfg,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.New(dbConn),
	})
	return svc, dbConn
}

func TestResolveBareHostCreatesDefaultTenant(t *testing.T) {
	svc, dbConn := newTestService(t)

	company, err := svc.Resolve(context.Background(), "swaybrasil.com")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if company.Subdomain != "demo" {
		t.Fatalf("expected demo tenant, got %s", company.Subdomain)
	}
	if !company.Active {
		t.Fatal("expected default tenant active")
	}

	// Second resolve reuses the same row.
	again, err := svc.Resolve(context.Background(), "localhost:8080")
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if again.ID != company.ID {
		t.Fatalf("expected same tenant, got %v and %v", company.ID, again.ID)
	}

	var count int64
	if err := dbConn.Model(&domain.Company{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 company, got %d", count)
	}
}

func TestResolveUnknownSubdomain(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Resolve(context.Background(), "ghost.swaybrasil.com")
	if !errors.Is(err, domain.ErrCompanyNotFound) {
		t.Fatalf("expected ErrCompanyNotFound, got %v", err)
	}
}

func TestResolveInactiveCompany(t *testing.T) {
	svc, dbConn := newTestService(t)

	created, err := svc.Create(context.Background(), domain.CreateCompanyRequest{
		Name:      "Acme",
		Subdomain: "acme",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := dbConn.Model(&domain.Company{}).
		Where("id = ?", created.ID).
		Update("active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, err = svc.Resolve(context.Background(), "acme.swaybrasil.com")
	if !errors.Is(err, domain.ErrCompanyInactive) {
		t.Fatalf("expected ErrCompanyInactive, got %v", err)
	}
}

func TestCreateDuplicateSubdomain(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Create(context.Background(), domain.CreateCompanyRequest{Name: "Acme", Subdomain: "acme"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(context.Background(), domain.CreateCompanyRequest{Name: "Other", Subdomain: "Acme"})
	if !errors.Is(err, domain.ErrSubdomainTaken) {
		t.Fatalf("expected ErrSubdomainTaken, got %v", err)
	}
}
