package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/smartagri/seat-allocator/internal/config"
	"github.com/smartagri/seat-allocator/pkg/core/services"
	"github.com/smartagri/seat-allocator/pkg/db"
	"github.com/smartagri/seat-allocator/pkg/metrics"
)

// Migrator applies pending schema migrations
type Migrator interface {
	RunMigrations(ctx context.Context) error
}

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database db.Database
	Migrator Migrator
	Notifier *services.Notifier
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
	Ctx      context.Context
}
