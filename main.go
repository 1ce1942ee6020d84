package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/netcafe-dev/cafebot/cafebot"
	"github.com/netcafe-dev/cafebot/cafebot/commands"
	"github.com/netcafe-dev/cafebot/cafebot/components"
	"github.com/netcafe-dev/cafebot/cafebot/database"
	"github.com/netcafe-dev/cafebot/cafebot/database/repositories"
	"github.com/netcafe-dev/cafebot/cafebot/game"
	"github.com/netcafe-dev/cafebot/cafebot/handlers"
	"github.com/netcafe-dev/cafebot/cafebot/logger"
	"github.com/netcafe-dev/cafebot/cafebot/scheduler"
	"github.com/netcafe-dev/cafebot/cafebot/services"
	"github.com/netcafe-dev/cafebot/cafebot/store"
	"github.com/netcafe-dev/cafebot/cafebot/ui"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	shouldBackupNow := flag.Bool("backup-now", false, "Whether to upload a save backup on startup")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := cafebot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	// Initialize custom logger
	customHandler := logger.NewHandler(cfg.Log.Level)
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting NetCafe Discord Bot",
		slog.String("version", version),
		slog.String("commit", commit))
	slog.Info("Configuration loaded successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	b := cafebot.New(*cfg, version, commit)
	b.Clock = game.RealClock{}
	b.Engine = game.NewEngine(cfg.Sim.TickInterval)

	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	b.RNG = game.NewRand(seed)

	// Persistence driver: one JSON save document by default, Postgres when
	// configured.
	switch cfg.Store.Driver {
	case "postgres":
		slog.Info("Initializing database connection...")
		dbStartTime := time.Now()

		db, err := database.New(ctx, cfg.DB)
		if err != nil {
			slog.Error("Database connection failed",
				slog.String("error", err.Error()),
				slog.Duration("attempted_for", time.Since(dbStartTime)))
			os.Exit(-1)
		}
		defer db.Close()

		slog.Info("Database connected successfully",
			slog.String("database", cfg.DB.Database),
			slog.Duration("took", time.Since(dbStartTime)))

		slog.Info("Initializing database schema...")
		if err := db.InitializeSchema(ctx); err != nil {
			slog.Error("Failed to initialize database schema",
				slog.String("error", err.Error()))
			os.Exit(-1)
		}
		slog.Info("Database schema initialized successfully")

		b.DB = db
		b.Store = store.NewPGStore(repositories.NewCafeRepository(db.BunDB()), b.Clock)
	case "file":
		fs, err := store.NewFileStore(cfg.Store.Path, b.Clock)
		if err != nil {
			slog.Error("Failed to open save file",
				slog.String("path", cfg.Store.Path),
				slog.Any("error", err))
			os.Exit(-1)
		}
		b.Store = fs
	default:
		slog.Error("Unknown store driver", slog.String("driver", cfg.Store.Driver))
		os.Exit(-1)
	}

	b.Manager = store.NewManager(b.Store)
	b.Panels = ui.NewPanelRenderer()
	b.PanelImages = services.NewPanelImageService()

	logger.LogSystem("Store ready",
		slog.String("driver", cfg.Store.Driver),
		slog.Duration("tick_interval", cfg.Sim.TickInterval))

	h := handler.New()

	// Café commands
	h.Command("/cafe", handlers.WrapWithLogging("cafe", commands.CafeHandler(b)))
	h.Command("/shop", handlers.WrapWithLogging("shop", commands.ShopHandler(b)))
	h.Autocomplete("/shop", commands.ShopAutocompleteHandler(b))
	h.Command("/top", handlers.WrapWithLogging("top", commands.TopHandler(b)))

	// System commands
	h.Command("/version", commands.VersionHandler(b))

	// Panel interactions
	panelHandler := handlers.WrapComponentWithLogging("cafe-panel", components.PanelComponentHandler(b))
	h.Component("/cafe/action/{kind}/{owner}", panelHandler)
	h.Component("/cafe/menu/{owner}", panelHandler)

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
			slog.String("component", "bot_setup"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("component", "command_sync"),
				slog.String("status", "failed"),
			)
		}
	}

	// Background simulation: tick every player's café on the configured
	// interval and push updated panels back into Discord.
	refresher := ui.NewPanelRefresher(b.Client, b.Panels)
	b.Scheduler = scheduler.New(b.Manager, b.Engine, b.RNG, b.Clock, refresher)

	tickCtx, tickCancel := context.WithCancel(context.Background())
	defer tickCancel()
	go b.Scheduler.Run(tickCtx)

	// Save backups to Spaces, if configured.
	if cfg.Spaces.Bucket != "" {
		b.Backups = services.NewBackupService(
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.Prefix,
			b.Manager,
			cfg.Spaces.Interval,
		)
		go b.Backups.Run(tickCtx)

		if *shouldBackupNow {
			if err := b.Backups.BackupOnce(ctx); err != nil {
				slog.Error("Startup backup failed", slog.Any("error", err))
			}
		}
	}

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = b.Client.OpenGateway(ctx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("component", "gateway"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")
}
