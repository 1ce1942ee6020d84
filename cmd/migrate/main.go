// Command migrate imports café saves from the legacy Mongo deployment into
// the store configured in config.toml.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/netcafe-dev/cafebot/cafebot"
	"github.com/netcafe-dev/cafebot/cafebot/database"
	"github.com/netcafe-dev/cafebot/cafebot/database/repositories"
	"github.com/netcafe-dev/cafebot/cafebot/game"
	"github.com/netcafe-dev/cafebot/cafebot/logger"
	"github.com/netcafe-dev/cafebot/cafebot/migration"
	"github.com/netcafe-dev/cafebot/cafebot/store"
)

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(slog.LevelInfo)))

	configPath := flag.String("config", "config.toml", "path to config")
	mongoURI := flag.String("mongo-uri", "mongodb://localhost:27017", "legacy mongo connection string")
	mongoDB := flag.String("mongo-db", "netcafe", "legacy mongo database name")
	collection := flag.String("collection", "cafes", "legacy mongo collection name")
	overwrite := flag.Bool("overwrite", false, "replace records that already exist in the store")
	flag.Parse()

	cfg, err := cafebot.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	var dest store.Store
	switch cfg.Store.Driver {
	case "postgres":
		db, err := database.New(ctx, cfg.DB)
		if err != nil {
			slog.Error("Database connection failed", slog.Any("error", err))
			os.Exit(1)
		}
		defer db.Close()
		if err := db.InitializeSchema(ctx); err != nil {
			slog.Error("Failed to initialize database schema", slog.Any("error", err))
			os.Exit(1)
		}
		dest = store.NewPGStore(repositories.NewCafeRepository(db.BunDB()), game.RealClock{})
	default:
		fs, err := store.NewFileStore(cfg.Store.Path, game.RealClock{})
		if err != nil {
			slog.Error("Failed to open save file", slog.Any("error", err))
			os.Exit(1)
		}
		dest = fs
	}

	migrator := migration.NewMigrator(dest, *mongoURI, *mongoDB)
	migrator.SetCollection(*collection)
	migrator.SetOverwrite(*overwrite)

	if err := migrator.MigrateAll(ctx); err != nil {
		logger.LogError("Migration failed", err)
		os.Exit(1)
	}

	slog.Info("Migration completed successfully!")
}
