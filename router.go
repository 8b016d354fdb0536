package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/r3labs/sse/v2"
	"github.com/rs/cors"

	"github.com/nordlys/portfolio/config"
	"github.com/nordlys/portfolio/content"
	"github.com/nordlys/portfolio/db"
	"github.com/nordlys/portfolio/notify"
	"github.com/nordlys/portfolio/panel"
	"github.com/nordlys/portfolio/playback"
	"github.com/nordlys/portfolio/site"
	"github.com/nordlys/portfolio/spotify"
)

const (
	errMissingSpotifyConfig = "Missing Spotify configuration"
	errMissingCode          = "Missing code"
	errTokenExchange        = "Token exchange failed"
	errAccessToken          = "Failed to get access token"
	errNowPlaying           = "Failed to fetch now playing"

	callbackMessage = "Success! Copy the refresh_token to your .env file"
	maxKudosBody    = 1 << 10
)

// Services is everything the routes need to do their job
type Services struct {
	Config   config.Config
	Spotify  *spotify.Client
	Playback *playback.System
	Events   *sse.Server
	Library  *content.Library
	Site     *site.Site
	Store    db.Store
	Notifier notify.Notifier
	Now      func() time.Time
}

type callbackResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type kudosRequest struct {
	Slug string `json:"slug"`
}

type kudosResponse struct {
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

func renderJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.With(slog.String("error", err.Error())).Error("Failed to encode response")
	}
}

func renderJSONMessage(w http.ResponseWriter, message string) {
	renderJSON(w, http.StatusOK, map[string]string{"message": message})
}

func renderJSONError(w http.ResponseWriter, status int, message string) {
	renderJSON(w, status, map[string]string{"error": message})
}

func RegisterRoutes(mux *http.ServeMux, svc *Services) http.Handler {
	if svc.Now == nil {
		svc.Now = time.Now
	}

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		page := svc.Site.Build(r.URL.Query(), svc.widget())
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := svc.Site.Render(w, page); err != nil {
			slog.With(slog.String("error", err.Error())).Error("Failed to render page")
		}
	})

	mux.HandleFunc("GET /api", func(w http.ResponseWriter, r *http.Request) {
		renderJSONMessage(w, "This is the base of the portfolio API")
	})

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /api/spotify/login", func(w http.ResponseWriter, r *http.Request) {
		authURL, err := svc.Spotify.AuthCodeURL()
		if err != nil {
			renderJSONError(w, http.StatusInternalServerError, errMissingSpotifyConfig)
			return
		}
		http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
	})

	mux.HandleFunc("GET /api/spotify/callback", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if authErr := query.Get("error"); authErr != "" {
			renderJSONError(w, http.StatusBadRequest, authErr)
			return
		}
		code := query.Get("code")
		if code == "" {
			renderJSONError(w, http.StatusBadRequest, errMissingCode)
			return
		}
		credentials, err := svc.Spotify.ExchangeCode(r.Context(), code)
		if errors.Is(err, spotify.ErrMissingConfig) {
			renderJSONError(w, http.StatusInternalServerError, errMissingSpotifyConfig)
			return
		}
		if err != nil {
			slog.With(slog.String("error", err.Error())).Error("Failed to exchange authorization code")
			message := errTokenExchange
			var exchangeErr *spotify.ExchangeError
			if errors.As(err, &exchangeErr) && exchangeErr.Description != "" {
				message = exchangeErr.Description
			}
			renderJSONError(w, http.StatusBadRequest, message)
			return
		}
		renderJSON(w, http.StatusOK, callbackResponse{
			Message:      callbackMessage,
			AccessToken:  credentials.AccessToken,
			RefreshToken: credentials.RefreshToken,
			ExpiresIn:    credentials.ExpiresIn,
		})
	})

	mux.HandleFunc("GET /api/spotify/now-playing", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		snapshot, err := svc.Spotify.NowPlaying(r.Context())
		if err == nil {
			renderJSON(w, http.StatusOK, snapshot)
			return
		}
		slog.With(slog.String("error", err.Error())).Error("Failed to resolve now playing")
		if errors.Is(err, spotify.ErrNoAccessToken) {
			renderJSONError(w, http.StatusInternalServerError, errAccessToken)
			return
		}
		status := http.StatusInternalServerError
		var upstreamErr *spotify.UpstreamError
		if errors.As(err, &upstreamErr) {
			status = upstreamErr.StatusCode
		}
		renderJSONError(w, status, errNowPlaying)
	})

	mux.HandleFunc("GET /api/kudos", func(w http.ResponseWriter, r *http.Request) {
		slug := r.URL.Query().Get("slug")
		if _, ok := svc.Library.Find(slug); !ok {
			renderJSONError(w, http.StatusNotFound, "No content with that slug")
			return
		}
		count, err := svc.Store.GetKudos(slug)
		if err != nil {
			slog.With(slog.String("error", err.Error())).
				With(slog.String("slug", slug)).
				Error("Failed to read kudos")
			renderJSONError(w, http.StatusInternalServerError, "Failed to read kudos")
			return
		}
		renderJSON(w, http.StatusOK, kudosResponse{Slug: slug, Count: count})
	})

	mux.HandleFunc("POST /api/kudos", func(w http.ResponseWriter, r *http.Request) {
		var req kudosRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxKudosBody)).Decode(&req); err != nil {
			renderJSONError(w, http.StatusBadRequest, "Hmm, something went horribly wrong. Try again?")
			return
		}
		slug := strings.TrimSpace(req.Slug)
		if slug == "" {
			renderJSONError(w, http.StatusBadRequest, "You forgot to include a slug!")
			return
		}
		item, ok := svc.Library.Find(slug)
		if !ok {
			renderJSONError(w, http.StatusNotFound, "No content with that slug")
			return
		}
		count, err := svc.Store.IncrementKudos(slug)
		if err != nil {
			slog.With(slog.String("error", err.Error())).
				With(slog.String("slug", slug)).
				Error("Failed to store kudos")
			renderJSONError(w, http.StatusInternalServerError, "Failed to store kudos")
			return
		}
		kudos := notify.Kudos{
			Slug:  slug,
			Title: item.Title,
			Count: count,
			URL:   panel.Href(strings.TrimSuffix(svc.Config.Portfolio.SiteURL, "/")+"/", panel.SetOpen(nil, slug, true)),
		}
		go func() {
			if err := svc.Notifier.NotifyKudos(kudos); err != nil {
				slog.With(slog.String("error", err.Error())).Error("Failed to pass on kudos")
			}
		}()
		renderJSON(w, http.StatusOK, kudosResponse{Slug: slug, Count: count})
	})

	mux.HandleFunc("GET /events", svc.Events.ServeHTTP)

	c := cors.New(cors.Options{
		AllowedOrigins: svc.Config.Origins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept"},
	})

	return c.Handler(mux)
}

// widget picks what the now playing card shows. The page never calls Spotify
// itself; it shows whatever the poller saw last.
func (svc *Services) widget() site.Widget {
	now := svc.Now()
	if svc.Config.Portfolio.NowPlayingDemo {
		return site.NewWidget(site.DemoSnapshot(), now, now)
	}
	if svc.Playback == nil {
		return site.Widget{}
	}
	entry, ok := svc.Playback.Current()
	if !ok {
		return site.Widget{}
	}
	return site.NewWidget(entry.Snapshot, entry.FetchedAt, now)
}

