package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/config"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/database"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
)

// AppVersion is the version reported by the version endpoint. Overridden at build time with
// -ldflags "-X github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/service.AppVersion=..."
var AppVersion = "dev"

// SystemService reports health and build information.
type SystemService struct {
	db  *sql.DB
	cfg *config.Config
}

// NewSystemService creates a new SystemService.
func NewSystemService(db *sql.DB, cfg *config.Config) *SystemService {
	return &SystemService{
		db:  db,
		cfg: cfg,
	}
}

// CheckHealth verifies the database connection.
func (s *SystemService) CheckHealth(ctx context.Context) error {
	return database.HealthCheck(ctx, s.db)
}

// GetVersionInfo returns the application version, the applied schema version, and which
// optional features are enabled.
func (s *SystemService) GetVersionInfo(ctx context.Context) (model.VersionInfo, error) {
	dbVersion, err := database.Version(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}
	pending, err := database.HasPending(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("failed to check pending migrations: %w", err)
	}

	info := model.VersionInfo{
		AppVersion:            AppVersion,
		DbVersion:             strconv.FormatInt(dbVersion, 10),
		CorporateActionSource: s.cfg.Feed.CorporateActionSource,
		Features: map[string]bool{
			"encrypted_backup":  s.cfg.Backup.Key != "",
			"scheduled_refresh": s.cfg.Scheduler.Schedule != "",
			"finmind_token":     s.cfg.Feed.FinMindToken != "",
		},
		MigrationNeeded: pending,
	}
	if pending {
		msg := "Database schema is behind the application; restart the server to apply pending migrations"
		info.MigrationMessage = &msg
	}
	return info, nil
}
