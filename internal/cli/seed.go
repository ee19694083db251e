package cli

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"nursing-album-service/internal/app"
	"nursing-album-service/internal/config"
	"nursing-album-service/internal/domain"
	"nursing-album-service/internal/infra/postgres"
	"nursing-album-service/internal/logger"
)

// NewSeedCmd loads the starter content and admin account into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Upsert starter topics, questions, stickers, packs and the admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log := logger.New(serviceName, cfg.Log.Level)
			if err := runMigrationsWithConfig(cmd.Context(), cfg, log); err != nil {
				return err
			}
			db, err := openBun(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			return seedStore(cmd.Context(), postgres.NewStore(db), log)
		},
	}
}

// seedStore upserts the starter data. Running it twice leaves the same rows;
// an existing admin account keeps its progress.
func seedStore(ctx context.Context, store app.Store, log logrus.FieldLogger) error {
	cat := starterCatalog()
	for _, t := range cat.Topics {
		if err := store.SaveTopic(ctx, t); err != nil {
			return err
		}
	}
	for _, q := range cat.Questions {
		if err := store.SaveQuestion(ctx, q); err != nil {
			return err
		}
	}
	for _, s := range cat.Stickers {
		if err := store.SaveSticker(ctx, s); err != nil {
			return err
		}
	}
	for _, p := range cat.Packs {
		if err := store.SavePack(ctx, p); err != nil {
			return err
		}
	}

	admin := adminProfile()
	_, err := store.User(ctx, admin.Email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if err := store.SaveUser(ctx, admin); err != nil {
			return err
		}
	case err != nil:
		return err
	}

	log.WithFields(logrus.Fields{
		"topics":    len(cat.Topics),
		"questions": len(cat.Questions),
		"stickers":  len(cat.Stickers),
		"packs":     len(cat.Packs),
	}).Info("starter data seeded")
	return nil
}
