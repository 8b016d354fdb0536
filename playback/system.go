package playback

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/r3labs/sse/v2"

	"github.com/nordlys/portfolio/shared"
	"github.com/nordlys/portfolio/spotify"
)

// Entry is the most recent snapshot along with what we derived from it
type Entry struct {
	ID              string           `json:"id"`
	Snapshot        spotify.Snapshot `json:"snapshot"`
	DominantColours []string         `json:"dominant_colours"`
	FetchedAt       time.Time        `json:"fetched_at"`
}

// ColourExtractor returns the dominant colours of the image at url
type ColourExtractor func(ctx context.Context, url string) ([]string, error)

// System holds the live now playing state fed by the background poller. The
// JSON endpoint does not read from it; it only powers the page widget and the
// event stream.
type System struct {
	m       sync.RWMutex
	current Entry
	seen    bool
	events  *sse.Server
	colours ColourExtractor
}

func NewSystem(events *sse.Server, colours ColourExtractor) *System {
	return &System{
		events:  events,
		colours: colours,
	}
}

// GenerateMediaID is deterministic so the same track always maps to the same ID
func GenerateMediaID(s spotify.Snapshot) string {
	if s.Title == "" {
		return ""
	}
	hashString := fmt.Sprintf("%s-%s-%s-%s", s.Title, s.Artist, s.Album, s.SongURL)
	return fmt.Sprintf(
		"%s:%s:%d",
		shared.SOURCE_SPOTIFY,
		shared.CATEGORY_TRACK,
		xxhash.Sum64String(hashString),
	)
}

// Update records a fresh snapshot. Clients are only notified when the track or
// its playing state changes; progress ticks alone are not worth a broadcast.
// It reports whether an event was published.
func (ps *System) Update(ctx context.Context, snapshot spotify.Snapshot, fetchedAt time.Time) bool {
	id := GenerateMediaID(snapshot)

	ps.m.RLock()
	previous, seen := ps.current, ps.seen
	ps.m.RUnlock()

	trackChanged := !seen || previous.ID != id
	stateChanged := trackChanged || previous.Snapshot.IsPlaying != snapshot.IsPlaying

	entry := Entry{
		ID:              id,
		Snapshot:        snapshot,
		DominantColours: previous.DominantColours,
		FetchedAt:       fetchedAt,
	}

	if trackChanged {
		entry.DominantColours = ps.extractColours(ctx, snapshot)
	}

	ps.m.Lock()
	ps.current = entry
	ps.seen = true
	ps.m.Unlock()

	if !stateChanged {
		return false
	}

	slog.Debug("Playback changed",
		slog.String("media_id", id),
		slog.Bool("is_playing", snapshot.IsPlaying))
	ps.broadcastEvent(entry)
	return true
}

func (ps *System) extractColours(ctx context.Context, snapshot spotify.Snapshot) []string {
	if ps.colours == nil || snapshot.AlbumImageURL == "" {
		return nil
	}
	colours, err := ps.colours(ctx, snapshot.AlbumImageURL)
	if err != nil {
		slog.With(slog.String("error", err.Error())).
			With(slog.String("image_url", snapshot.AlbumImageURL)).
			Error("Failed to extract dominant colours")
		return nil
	}
	return colours
}

func (ps *System) broadcastEvent(entry Entry) {
	if ps.events == nil {
		return
	}
	jsonState, err := json.Marshal(entry)
	if err != nil {
		slog.With(slog.String("error", err.Error())).Error("Failed to marshal playback event")
		return
	}
	ps.events.Publish(shared.STREAM_PLAYBACK, &sse.Event{Data: jsonState})
}

// Clear forgets the current entry, leaving the widget nothing to show.
// Subscribers are only told when there was an entry to forget. It reports
// whether an event was published.
func (ps *System) Clear() bool {
	ps.m.Lock()
	wasSeen := ps.seen
	ps.current = Entry{}
	ps.seen = false
	ps.m.Unlock()

	if !wasSeen {
		return false
	}
	slog.Debug("Playback cleared")
	ps.broadcastEvent(Entry{})
	return true
}

// Current returns the last recorded entry, if the poller has run at all
func (ps *System) Current() (Entry, bool) {
	ps.m.RLock()
	defer ps.m.RUnlock()
	return ps.current, ps.seen
}
