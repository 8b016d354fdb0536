// Package spotify talks to the Spotify Web API on behalf of the site owner.
//
// The site never stores Spotify tokens. A refresh token obtained once through
// the login/callback flow is placed in configuration by hand and exchanged for
// a short lived access token on every request.
package spotify

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nordlys/portfolio/config"
	"github.com/nordlys/portfolio/utils"
)

const (
	authURL  = "https://accounts.spotify.com/authorize"
	tokenURL = "https://accounts.spotify.com/api/token"
	baseURL  = "https://api.spotify.com"

	nowPlayingEndpoint     = "/v1/me/player/currently-playing"
	recentlyPlayedEndpoint = "/v1/me/player/recently-played"
)

// Scopes requested during login. Reading playback state is all the site needs.
var Scopes = []string{
	"user-read-currently-playing",
	"user-read-playback-state",
	"user-read-recently-played",
}

var (
	// ErrMissingCredentials means the client id, client secret or refresh
	// token is not configured. No request is made in that case.
	ErrMissingCredentials = errors.New("missing Spotify credentials")
	// ErrMissingConfig means the values needed for the login flow are not
	// configured
	ErrMissingConfig = errors.New("missing Spotify configuration")
	// ErrNoAccessToken wraps any failure to obtain an access token
	ErrNoAccessToken = errors.New("failed to get access token")
)

// UpstreamError is returned when the Web API answers with an unexpected status
type UpstreamError struct {
	Endpoint   string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("spotify returned status %d for %s", e.StatusCode, e.Endpoint)
}

type Client struct {
	Config     config.SpotifyConfig
	AuthURL    string
	TokenURL   string
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(cfg config.SpotifyConfig) *Client {
	return &Client{
		Config:     cfg,
		AuthURL:    authURL,
		TokenURL:   tokenURL,
		BaseURL:    baseURL,
		HTTPClient: utils.NewHTTPClient(),
	}
}
