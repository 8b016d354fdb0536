package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordlys/portfolio/config"
	"github.com/nordlys/portfolio/playback"
	"github.com/nordlys/portfolio/spotify"
)

type fakeSource struct {
	snapshot spotify.Snapshot
	err      error
	calls    int
}

func (f *fakeSource) NowPlaying(ctx context.Context) (spotify.Snapshot, error) {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return spotify.Snapshot{}, errors.New("poll context has no deadline")
	}
	return f.snapshot, f.err
}

func TestPollNowPlaying(t *testing.T) {
	t.Parallel()
	fetchedAt := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	source := &fakeSource{snapshot: spotify.Snapshot{IsPlaying: true, Title: "Nights", Artist: "Frank Ocean"}}
	ps := playback.NewSystem(nil, nil)

	pollNowPlaying(source, ps, func() time.Time { return fetchedAt })

	entry, ok := ps.Current()
	require.True(t, ok)
	assert.Equal(t, 1, source.calls)
	assert.Equal(t, "Nights", entry.Snapshot.Title)
	assert.Equal(t, fetchedAt, entry.FetchedAt)
}

func TestPollNowPlaying_ErrorsAreSkipped(t *testing.T) {
	t.Parallel()
	source := &fakeSource{err: spotify.ErrNoAccessToken}
	ps := playback.NewSystem(nil, nil)

	pollNowPlaying(source, ps, time.Now)

	_, ok := ps.Current()
	assert.False(t, ok)
	assert.Equal(t, 1, source.calls)
}

func TestSetupInBackground(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	s, err := SetupInBackground(cfg, &fakeSource{}, playback.NewSystem(nil, nil))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	assert.False(t, s.IsRunning())
}

func TestPollNowPlaying_FailureClearsWidget(t *testing.T) {
	t.Parallel()
	fetchedAt := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return fetchedAt }
	progress, duration := 190000, 200000
	source := &fakeSource{snapshot: spotify.Snapshot{
		IsPlaying:  true,
		Title:      "Freestyle",
		Artist:     "Westside Gunn",
		ProgressMs: &progress,
		DurationMs: &duration,
	}}
	ps := playback.NewSystem(nil, nil)
	svc := &Services{Playback: ps, Now: clock}

	pollNowPlaying(source, ps, clock)
	widget := svc.widget()
	require.True(t, widget.Visible)
	assert.Equal(t, "Now playing...", widget.Status)

	source.err = errors.New("spotify is unreachable")
	pollNowPlaying(source, ps, clock)

	_, ok := ps.Current()
	assert.False(t, ok)
	assert.False(t, svc.widget().Visible)
	assert.Equal(t, 2, source.calls)

	// The next good poll brings the widget back
	source.err = nil
	pollNowPlaying(source, ps, clock)
	assert.True(t, svc.widget().Visible)
}
