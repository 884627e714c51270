package service_test

import (
	"context"
	"testing"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/service"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/testutil"
)

// TestSystemService_GetVersionInfo tests the reported versions and feature flags.
func TestSystemService_GetVersionInfo(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)

	cfg := testutil.TestConfig()
	cfg.Backup.Key = "configured"
	svc := service.NewSystemService(db, cfg)

	info, err := svc.GetVersionInfo(ctx)
	if err != nil {
		t.Fatalf("GetVersionInfo() returned unexpected error: %v", err)
	}

	if info.AppVersion != service.AppVersion {
		t.Errorf("Expected app version %s, got %s", service.AppVersion, info.AppVersion)
	}
	if info.DbVersion != "1" {
		t.Errorf("Expected schema version 1, got %s", info.DbVersion)
	}
	if info.MigrationNeeded || info.MigrationMessage != nil {
		t.Errorf("Expected no pending migrations on a migrated database")
	}
	if !info.Features["encrypted_backup"] {
		t.Errorf("Expected encrypted_backup to be enabled")
	}
	if info.Features["scheduled_refresh"] {
		t.Errorf("Expected scheduled_refresh to be disabled without a schedule")
	}
}

// TestSystemService_CheckHealth tests the database health check.
func TestSystemService_CheckHealth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestSystemService(t, db)

	if err := svc.CheckHealth(context.Background()); err != nil {
		t.Errorf("CheckHealth() returned unexpected error: %v", err)
	}

	// WHY: a closed pool is how a lost database shows up to the health endpoint.
	db.Close()
	if err := svc.CheckHealth(context.Background()); err == nil {
		t.Errorf("Expected CheckHealth() to fail on a closed database")
	}
}
