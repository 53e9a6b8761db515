package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/habit-tracker/internal/config"
	"github.com/iliyamo/habit-tracker/internal/database"
	"github.com/iliyamo/habit-tracker/internal/handler"
	"github.com/iliyamo/habit-tracker/internal/queue"
	"github.com/iliyamo/habit-tracker/internal/repository"
	"github.com/iliyamo/habit-tracker/internal/router"
	"github.com/iliyamo/habit-tracker/internal/simulator"
	"github.com/iliyamo/habit-tracker/internal/store"
	"github.com/iliyamo/habit-tracker/internal/tracker"
	"github.com/iliyamo/habit-tracker/internal/utils"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	docs := store.NewMySQLStore(db)
	if err := docs.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("prepare schema: %v", err)
	}

	users := repository.NewUserRepo(docs)
	catalog := repository.NewCatalogRepo(docs)
	engine := tracker.New(users, catalog)

	// The admin credential is hashed once here and handed to the router;
	// handlers never see the plain password.
	adminHash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	// Background consumer that records habit.completed events.
	go func() {
		if err := queue.StartCompletionConsumer(); err != nil {
			log.Printf("completion consumer stopped: %v", err)
		}
	}()

	if cfg.SimulationEnabled {
		runSimulation(cfg, users, catalog, engine)
	}

	e := echo.New()
	router.RegisterRoutes(e, router.Deps{
		Cfg:               cfg,
		AdminPasswordHash: adminHash,
		Users:             users,
		Auth:              handler.NewAuthHandler(cfg, users),
		Admin:             handler.NewAdminHandler(users, catalog),
		Catalog:           handler.NewCatalogHandler(catalog),
		Tracker:           handler.NewTrackerHandler(engine, true),
		Rdb:               rdb,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// runSimulation seeds the demo dataset before the server starts accepting
// requests.  Failures are logged, not fatal: a demo seeding problem should
// not keep the API down.
func runSimulation(cfg config.Config, users *repository.UserRepo, catalog *repository.CatalogRepo, engine *tracker.Tracker) {
	simCfg, err := simulator.LoadConfig(cfg.SimulationConfigFile)
	if err != nil {
		log.Printf("simulation: %v", err)
		return
	}
	sim := simulator.New(users, catalog, engine, cfg.SimulationSuccessProb)
	interactions, err := sim.Run(context.Background(), simCfg)
	if err != nil {
		log.Printf("simulation failed: %v", err)
		return
	}
	if err := simulator.SaveInteractions(cfg.SimulationLogPath, interactions); err != nil {
		log.Printf("simulation: save interactions: %v", err)
		return
	}
	log.Printf("simulation completed: %d interactions saved to %s", len(interactions), cfg.SimulationLogPath)
}
