package events

import (
	"github.com/r3labs/sse/v2"

	"github.com/nordlys/portfolio/shared"
)

// New returns an SSE server with the playback stream already created.
// Clients subscribe with /events?stream=playback.
func New() *sse.Server {
	server := sse.New()
	server.AutoReplay = false
	server.CreateStream(shared.STREAM_PLAYBACK)
	return server
}
