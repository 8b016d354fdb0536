package site

import (
	"math"
	"time"

	"github.com/nordlys/portfolio/spotify"
)

const (
	statusPlaying = "Now playing..."
	statusPlayed  = "Last listened to..."
)

// Widget is the now playing card in the footer
type Widget struct {
	Visible       bool
	Status        string
	IsPlaying     bool
	Title         string
	Artist        string
	Album         string
	AlbumImageURL string
	SongURL       string
	ShowProgress  bool
	// ProgressPercent is between 0 and 100
	ProgressPercent float64
	// Remaining is how long until the track ends, used to schedule a refresh
	Remaining time.Duration
}

// DemoSnapshot is shown instead of live data when demo mode is on
func DemoSnapshot() spotify.Snapshot {
	progress, duration := 45000, 200000
	return spotify.Snapshot{
		IsPlaying:     false,
		Title:         "Freestyle",
		Artist:        "Westside Gunn",
		Album:         "Peace Fly God",
		AlbumImageURL: "https://i.scdn.co/image/ab67616d0000b8738863bc11d2aa12b54f5aeb36",
		SongURL:       "https://open.spotify.com/track/0VjIjW4GlUZAMYd2vXMi3b",
		ProgressMs:    &progress,
		DurationMs:    &duration,
	}
}

// NewWidget builds the widget for a snapshot fetched at fetchedAt. Progress
// keeps moving between fetches, so it is extrapolated up to now.
func NewWidget(s spotify.Snapshot, fetchedAt, now time.Time) Widget {
	if s.Title == "" {
		return Widget{}
	}
	w := Widget{
		Visible:       true,
		Status:        statusPlayed,
		IsPlaying:     s.IsPlaying,
		Title:         s.Title,
		Artist:        s.Artist,
		Album:         s.Album,
		AlbumImageURL: s.AlbumImageURL,
		SongURL:       s.SongURL,
	}
	if s.IsPlaying {
		w.Status = statusPlaying
	}
	if !s.IsPlaying || s.DurationMs == nil || *s.DurationMs <= 0 {
		return w
	}

	duration := *s.DurationMs
	progress := 0
	if s.ProgressMs != nil {
		progress = *s.ProgressMs
	}
	elapsed := now.Sub(fetchedAt).Milliseconds()
	if elapsed < 0 {
		elapsed = 0
	}
	current := float64(progress) + float64(elapsed)

	w.ShowProgress = true
	w.ProgressPercent = math.Min(current/float64(duration)*100, 100)
	if remaining := float64(duration) - current; remaining > 0 {
		w.Remaining = time.Duration(remaining) * time.Millisecond
	}
	return w
}
