package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"nursing-album-service/internal/config"
	pgmigrations "nursing-album-service/internal/infra/postgres/migrations"
	"nursing-album-service/internal/logger"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runMigrationsWithConfig(cmd.Context(), cfg, logger.New(serviceName, cfg.Log.Level))
		},
	}
}

func openBun(cfg config.Config) (*bun.DB, error) {
	if cfg.Postgres.URL == "" {
		return nil, fmt.Errorf("postgres url not configured")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config, log logrus.FieldLogger) error {
	db, err := openBun(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		log.Info("no new migrations")
		return nil
	}
	log.WithField("group", group.String()).Info("migrations applied")
	return nil
}
