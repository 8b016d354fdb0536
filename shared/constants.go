package shared

const (
	CATEGORY_TRACK = "track"

	CONTENT_WORK    = "work"
	CONTENT_WRITING = "writing"

	PANEL_QUERY_PARAM = "panel"

	SOURCE_SPOTIFY = "spotify"

	STREAM_PLAYBACK = "playback"

	USER_AGENT = "Portfolio/1.0 <github.com/nordlys/portfolio>"
)
