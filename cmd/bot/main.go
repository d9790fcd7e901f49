package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/domain/homework"
	"homework_status_bot/internal/infra/config"
	idb "homework_status_bot/internal/infra/database"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"
	"homework_status_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Homework Status Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logFile, err := logger.Init(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := logger.Get()

	if !config.CheckTokens(cfg) {
		log.WithField("missing", config.MissingTokens(cfg)).Fatal("Required environment variable is missing.")
	}
	mainLogger := log.WithField("component", "main")
	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Chat ID: %d", cfg.LogLevel, cfg.Environment, cfg.TelegramChatID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional notification history
	var history homework.NotificationRepository = app.NoopNotificationRepository{}
	if cfg.DatabaseURL != "" {
		var db *sql.DB
		db, err = idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not connect to database")
		}
		defer db.Close()
		history = idb.NewPostgresNotificationRepository(db)
		mainLogger.Info("Notification history enabled.")
	}

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:   cfg.TelegramToken,
		Offline: !cfg.BotCommandsEnabled, // Sending alone needs no getMe round trip
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := log.WithField("component", "telebot").WithError(err)
			if c != nil && c.Chat() != nil {
				entry = entry.WithField("chat_id", c.Chat().ID)
			}
			entry.Error("Telegram bot error")
		},
	}
	if cfg.BotCommandsEnabled {
		pref.Poller = &telebot.LongPoller{Timeout: 10 * time.Second}
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Telegram bot")
	}

	notifier := app.NewNotifier(telegram.NewTelebotAdapter(bot), cfg.TelegramChatID, log.WithField("component", "notifier"))
	apiClient := practicum.NewClient(cfg.PracticumEndpoint, cfg.PracticumToken, nil, cfg.HTTPTimeout, log.WithField("component", "practicum"))
	statusService := app.NewStatusService(apiClient, notifier, history, time.Now().Unix(), log.WithField("component", "status_service"))

	pollScheduler, err := scheduler.NewPollScheduler(statusService, cfg.RetryPeriod, cfg.PollCronSpec, log.WithField("component", "scheduler"))
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create poll scheduler")
	}

	if cfg.BotCommandsEnabled {
		telegram.RegisterBotCommands(ctx, bot, cfg.TelegramChatID, statusService, pollScheduler.Spec(), log.WithField("component", "telegram"))
		go bot.Start()
		defer bot.Stop()
		mainLogger.Info("Bot command handlers registered.")
	}

	mainLogger.Info("Start")
	pollScheduler.Run(ctx) // Blocks until SIGINT/SIGTERM

	mainLogger.WithFields(logrus.Fields{"polls": statusService.Snapshot().Polls}).Info("Application shut down gracefully.")
}
