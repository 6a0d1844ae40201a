package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/Skotchmaster/content_backend/internal/migrations"
	"github.com/Skotchmaster/content_backend/internal/models"
)

// Migrate applies the embedded goose migrations on postgres. SQLite is used
// for development and tests only and is brought up with AutoMigrate.
func Migrate(ctx context.Context, gdb *gorm.DB) error {
	if gdb.Dialector.Name() == "postgres" {
		sqlDB, err := gdb.DB()
		if err != nil {
			return fmt.Errorf("get sql.DB: %w", err)
		}
		return RunMigrations(ctx, sqlDB, "up")
	}

	if err := gdb.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func RunMigrations(ctx context.Context, sqlDB *sql.DB, command string) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	switch command {
	case "up":
		return goose.UpContext(ctx, sqlDB, ".")
	case "down":
		return goose.DownContext(ctx, sqlDB, ".")
	case "status":
		return goose.StatusContext(ctx, sqlDB, ".")
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
}
