package logger

import (
	"context"
	"testing"
	"time"

	"github.com/swaylabs/sway/pkg/tenantctx"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func captureLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)
	return logs
}

func TestTraceTagsQueryWithTenant(t *testing.T) {
	logs := captureLogs(t)

	cfg := DefaultGormLoggerConfig()
	cfg.Level = gormlogger.Info
	l := NewGormLogger(cfg)

	ctx := tenantctx.WithCompanyID(context.Background(), 42)
	ctx = tenantctx.WithSubdomain(ctx, "acme")

	l.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM conversations WHERE company_id = ?", 3
	}, nil)

	entries := logs.FilterMessage("db.query").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 query log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["company_id"] != int64(42) {
		t.Fatalf("expected company_id 42, got %v", fields["company_id"])
	}
	if fields["subdomain"] != "acme" {
		t.Fatalf("expected subdomain acme, got %v", fields["subdomain"])
	}
	if fields["operation"] != "SELECT" {
		t.Fatalf("expected SELECT operation, got %v", fields["operation"])
	}
}

func TestTraceIgnoresRecordNotFoundByDefault(t *testing.T) {
	logs := captureLogs(t)

	l := NewGormLogger(DefaultGormLoggerConfig())
	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM subscriptions WHERE user_id = ?", 0
	}, gormlogger.ErrRecordNotFound)

	if got := logs.FilterMessage("db.query").Len(); got != 0 {
		t.Fatalf("expected record-not-found to be suppressed, got %d logs", got)
	}
}
