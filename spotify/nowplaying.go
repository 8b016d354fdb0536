package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nordlys/portfolio/shared"
)

// Snapshot is a point in time read of what is playing. When nothing is
// playing it describes the most recently played track instead, or carries
// only IsPlaying=false when there is no history either.
type Snapshot struct {
	IsPlaying     bool   `json:"isPlaying"`
	Title         string `json:"title,omitempty"`
	Artist        string `json:"artist,omitempty"`
	Album         string `json:"album,omitempty"`
	AlbumImageURL string `json:"albumImageUrl,omitempty"`
	SongURL       string `json:"songUrl,omitempty"`
	ProgressMs    *int   `json:"progressMs,omitempty"`
	DurationMs    *int   `json:"durationMs,omitempty"`
}

type Artist struct {
	Name string `json:"name"`
}

type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type Album struct {
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

type Track struct {
	Name         string       `json:"name"`
	DurationMs   int          `json:"duration_ms"`
	Artists      []Artist     `json:"artists"`
	Album        Album        `json:"album"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

type CurrentlyPlayingResponse struct {
	IsPlaying            bool   `json:"is_playing"`
	ProgressMs           *int   `json:"progress_ms"`
	CurrentlyPlayingType string `json:"currently_playing_type"`
	Item                 *Track `json:"item"`
}

type RecentlyPlayedResponse struct {
	Items []PlayHistory `json:"items"`
}

type PlayHistory struct {
	Track    *Track `json:"track"`
	PlayedAt string `json:"played_at"`
}

func (t Track) ArtistNames() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

func (t Track) snapshot() Snapshot {
	s := Snapshot{
		Title:   t.Name,
		Artist:  t.ArtistNames(),
		Album:   t.Album.Name,
		SongURL: t.ExternalURLs.Spotify,
	}
	if len(t.Album.Images) != 0 {
		s.AlbumImageURL = t.Album.Images[0].URL
	}
	return s
}

// NowPlaying resolves the currently playing track. Nothing playing (204), a
// non-track item such as a podcast episode or an ad, or a missing item all
// fall back to the most recently played track.
func (c *Client) NowPlaying(ctx context.Context) (Snapshot, error) {
	accessToken, err := c.AccessToken(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrNoAccessToken, err)
	}

	res, err := c.get(ctx, accessToken, nowPlayingEndpoint)
	if err != nil {
		return Snapshot{}, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNoContent {
		return c.RecentlyPlayed(ctx, accessToken), nil
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return Snapshot{}, &UpstreamError{Endpoint: nowPlayingEndpoint, StatusCode: res.StatusCode}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read now playing response: %w", err)
	}

	var playing CurrentlyPlayingResponse
	if err := json.Unmarshal(body, &playing); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse now playing response: %w", err)
	}

	if playing.CurrentlyPlayingType != shared.CATEGORY_TRACK || playing.Item == nil {
		slog.Debug("Currently playing item is not a track, falling back to history",
			slog.String("type", playing.CurrentlyPlayingType))
		return c.RecentlyPlayed(ctx, accessToken), nil
	}

	snapshot := playing.Item.snapshot()
	snapshot.IsPlaying = playing.IsPlaying
	snapshot.ProgressMs = playing.ProgressMs
	duration := playing.Item.DurationMs
	snapshot.DurationMs = &duration
	return snapshot, nil
}

// RecentlyPlayed returns the last track in the play history as a not playing
// snapshot. Failures are logged and collapse to Snapshot{IsPlaying: false}.
func (c *Client) RecentlyPlayed(ctx context.Context, accessToken string) Snapshot {
	notPlaying := Snapshot{IsPlaying: false}

	res, err := c.get(ctx, accessToken, recentlyPlayedEndpoint+"?limit=1")
	if err != nil {
		slog.Error("Failed to contact Spotify for play history", slog.String("error", err.Error()))
		return notPlaying
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		slog.Error("Unexpected status fetching play history", slog.Int("status", res.StatusCode))
		return notPlaying
	}

	var history RecentlyPlayedResponse
	if err := json.NewDecoder(res.Body).Decode(&history); err != nil {
		slog.Error("Failed to parse play history", slog.String("error", err.Error()))
		return notPlaying
	}

	if len(history.Items) == 0 || history.Items[0].Track == nil {
		return notPlaying
	}

	return history.Items[0].Track.snapshot()
}

func (c *Client) get(ctx context.Context, accessToken, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to contact spotify: %w", err)
	}
	return res, nil
}
