package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/benbeisheim/twochess-backend/internal/config"
	"github.com/benbeisheim/twochess-backend/internal/controller"
	"github.com/benbeisheim/twochess-backend/internal/persistence"
	"github.com/benbeisheim/twochess-backend/internal/service"
)

var logLevels = map[string]log.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatal(err)
	}
	if level, ok := logLevels[strings.ToLower(cfg.LogLevel)]; ok {
		log.SetLevel(level)
	} else {
		log.Warnf("unknown log level %q, using info", cfg.LogLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	app := controller.NewApp()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	gameManager := service.NewGameManager(store)
	gameService := service.NewGameService(gameManager)
	controller.RegisterRoutes(app, gameService, splitOrigins(cfg.Server.AllowOrigins))

	go gameManager.RunMatchmaking(ctx, cfg.Matchmaking.Interval)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infof("listening on %s with %s store", cfg.Address(), cfg.Store.Kind)
	if err := app.Listen(cfg.Address()); err != nil {
		log.Fatal(err)
	}
}

// openStore returns the store selected by the configuration, nil for
// in-memory games, and a func releasing it.
func openStore(ctx context.Context, cfg *config.Configuration) (persistence.Store, func(), error) {
	switch cfg.Store.Kind {
	case config.StoreFile:
		store, err := persistence.NewFileStore(cfg.Store.Dir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case config.StoreMongo:
		store, err := persistence.NewMongoStore(ctx, cfg.Database.Address, cfg.Database.DatabaseName, cfg.Database.Collection)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(context.Background()); err != nil {
				log.Errorf("close mongo store: %v", err)
			}
		}, nil
	}
	return nil, func() {}, nil
}

func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" && o != "*" {
			out = append(out, o)
		}
	}
	return out
}
