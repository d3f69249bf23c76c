package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"obra360_backend/internals/configs"
	database "obra360_backend/internals/databases"
	scheduler "obra360_backend/internals/features/users/auth/scheduler"
	routes "obra360_backend/internals/route"
	"obra360_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	app := routes.NewApp()

	// DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("[ERROR] migrate: %v", err)
	}
	database.WarmUpQueries()
	seeds.RunAllSeeds(database.DB)

	// scheduler after the DB is ready
	cleanup := scheduler.StartBlacklistCleanupScheduler(database.DB)

	routes.SetupRoutes(app, database.DB)

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		log.Printf("[INFO] Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + close DB pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	<-cleanup.Stop().Done()
	_ = app.ShutdownWithContext(ctx)

	database.Close()
}
