package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/nordlys/portfolio/config"
	"github.com/nordlys/portfolio/playback"
	"github.com/nordlys/portfolio/spotify"
)

const pollTimeout = 10 * time.Second

// NowPlayingSource is anything that can resolve the current track
type NowPlayingSource interface {
	NowPlaying(ctx context.Context) (spotify.Snapshot, error)
}

func SetupInBackground(cfg config.Config, source NowPlayingSource, ps *playback.System) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(time.UTC)
	// A slow Spotify response should delay the next poll, not stack a second one
	s.SingletonModeAll()

	if _, err := s.Every(cfg.PollInterval()).Do(pollNowPlaying, source, ps, time.Now); err != nil {
		return nil, err
	}

	return s, nil
}

func pollNowPlaying(source NowPlayingSource, ps *playback.System, now func() time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
	defer cancel()

	snapshot, err := source.NowPlaying(ctx)
	if err != nil {
		slog.With(slog.String("error", err.Error())).Error("Failed to poll now playing")
		// A stale entry would keep showing as playing, so show nothing instead
		ps.Clear()
		return
	}
	ps.Update(ctx, snapshot, now())
}
