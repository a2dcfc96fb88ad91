package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/omarshaarawi/squadbot/internal/api/sheets"
	"github.com/omarshaarawi/squadbot/internal/api/squad"
	"github.com/omarshaarawi/squadbot/internal/bot"
	"github.com/omarshaarawi/squadbot/internal/config"
	"github.com/omarshaarawi/squadbot/internal/repository/memory"
	"github.com/omarshaarawi/squadbot/internal/scheduler"
	"github.com/omarshaarawi/squadbot/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Error("Error loading .env file", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}

	sheetsClient := sheets.NewClient(cfg.Sheets)
	sheetsAPI := sheets.NewAPI(sheetsClient)
	squadAPI := squad.NewAPI(sheetsAPI, cfg.Sheets.Teams)

	repo := memory.NewRepository(cfg.Cache.TTL, clockwork.NewRealClock())
	squadService := service.NewSquadService(squadAPI, repo)

	telegramBot, err := bot.NewTelegramBot(cfg.TelegramBot.Token, cfg.TelegramBot.ChatID, squadService)
	if err != nil {
		return err
	}

	sched, err := scheduler.NewScheduler(cfg.Report, squadService, telegramBot.SendMessage)
	if err != nil {
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	http.HandleFunc("/", healthCheckHandler)

	go func() {
		if err := http.ListenAndServe(cfg.HTTPAddr, nil); err != nil {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := telegramBot.Start(ctx); err != nil {
			slog.Error("Error running telegram bot", "error", err)
		}
	}()

	slog.Info("SquadBot running", "teams", len(cfg.Sheets.Teams), "cacheTTL", cfg.Cache.TTL)
	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	return nil
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
