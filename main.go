package main

import (
	"os"
	"os/signal"
	"syscall"

	"learnhub/config"
	"learnhub/database"
	"learnhub/logger"
	"learnhub/routers"
	"learnhub/services/auth"
	"learnhub/services/catalog"
	"learnhub/services/progress"
	"learnhub/services/quiz"
	"learnhub/utils"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	logger.Log = log
	defer logger.Log.Sync()

	database.ConnectDb()
	db := database.Database.Db

	admin, err := auth.NewAdminAccount(cfg.AdminEmail, cfg.AdminUsername, cfg.AdminFullName, cfg.AdminPassword, cfg.SaltRound)
	if err != nil {
		logger.Log.Fatal("Failed to initialize admin account", "error", err)
	}
	tokens := auth.NewTokenManager(cfg.JWTKey, cfg.JWTExpiresIn)

	notifier := utils.NewNotifier(db, utils.NewMailer(cfg), utils.NewWebhook(cfg.CompletionWebhookURL))
	tracker := progress.NewTracker(db, notifier)

	app := routers.NewApp(cfg, routers.Services{
		Credentials: auth.NewCredentialStore(db, admin, tokens, cfg.SaltRound),
		Catalog:     catalog.NewService(db, notifier),
		Progress:    tracker,
		Quiz:        quiz.NewEngine(db),
	})

	scheduler, err := utils.InitializeProgressScheduler(cfg.ReconcileCron, tracker)
	if err != nil {
		logger.Log.Fatal("Failed to start progress scheduler", "schedule", cfg.ReconcileCron, "error", err)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		logger.Log.Info("Shutting down")
		<-scheduler.Stop().Done()
		if err := app.Shutdown(); err != nil {
			logger.Log.Error("Server shutdown failed", "error", err)
		}
	}()

	logger.Log.Info("Server is running", "port", cfg.Port, "env", cfg.AppEnv)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Log.Fatal("Server stopped", "error", err)
	}
}
