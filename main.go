package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"

	"github.com/nordlys/portfolio/config"
	"github.com/nordlys/portfolio/content"
	"github.com/nordlys/portfolio/db"
	"github.com/nordlys/portfolio/events"
	"github.com/nordlys/portfolio/notify"
	"github.com/nordlys/portfolio/playback"
	"github.com/nordlys/portfolio/site"
	"github.com/nordlys/portfolio/spotify"
	"github.com/nordlys/portfolio/utils"
)

func fatal(msg string, err error) {
	slog.With(slog.String("error", err.Error())).Error(msg)
	os.Exit(1)
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", slog.String("error", err.Error()))
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("Failed to load config", err)
	}

	slog.SetDefault(utils.NewLogger(os.Stderr, cfg.GetLogLevel(), cfg.Portfolio.LogFormat))

	store, err := db.Initialize(cfg.Portfolio.DbPath)
	if err != nil {
		fatal("Failed to initialise database", err)
	}

	library, err := content.Load()
	if err != nil {
		fatal("Failed to load content", err)
	}

	page, err := site.New(library)
	if err != nil {
		fatal("Failed to prepare page templates", err)
	}

	httpClient := utils.NewHTTPClient()
	sseServer := events.New()
	ps := playback.NewSystem(sseServer, func(ctx context.Context, url string) ([]string, error) {
		return utils.ExtractDominantColours(ctx, httpClient, url)
	})
	spotifyClient := spotify.NewClient(cfg.Spotify)

	var jobScheduler *gocron.Scheduler
	if cfg.Portfolio.BackgroundJobsEnabled {
		jobScheduler, err = SetupInBackground(cfg, spotifyClient, ps)
		if err != nil {
			fatal("Failed to schedule background jobs", err)
		}
		jobScheduler.StartAsync()
		slog.Info("Background jobs have started up in the background")
	} else {
		slog.Info("Background jobs are disabled")
	}

	router := RegisterRoutes(http.NewServeMux(), &Services{
		Config:   cfg,
		Spotify:  spotifyClient,
		Playback: ps,
		Events:   sseServer,
		Library:  library,
		Site:     page,
		Store:    store,
		Notifier: notify.New(cfg),
	})

	slog.Info("Portfolio is running", slog.String("addr", cfg.Portfolio.Addr), slog.String("url", cfg.Portfolio.SiteURL))

	if err := http.ListenAndServe(cfg.Portfolio.Addr, router); err != nil {
		if jobScheduler != nil {
			jobScheduler.Stop()
		}
		fatal("Server stopped", err)
	}
}
