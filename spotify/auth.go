package spotify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// Credentials is what the callback hands back for manual copying into
// configuration
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// ExchangeError is a token endpoint rejection. Description carries Spotify's
// error_description when it sent one.
type ExchangeError struct {
	Description string
	err         error
}

func (e *ExchangeError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("token exchange failed: %s", e.Description)
	}
	return fmt.Sprintf("token exchange failed: %v", e.err)
}

func (e *ExchangeError) Unwrap() error {
	return e.err
}

func (c *Client) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.Config.ClientId,
		ClientSecret: c.Config.ClientSecret,
		RedirectURL:  c.Config.RedirectUri,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  c.AuthURL,
			TokenURL: c.TokenURL,
			// Spotify expects HTTP Basic client auth. Pinning the style stops
			// oauth2 from probing with a second request.
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.HTTPClient)
}

// AuthCodeURL is where the owner is sent to grant the site access
func (c *Client) AuthCodeURL() (string, error) {
	if c.Config.ClientId == "" || c.Config.RedirectUri == "" {
		return "", ErrMissingConfig
	}
	return c.oauthConfig().AuthCodeURL(""), nil
}

// ExchangeCode trades an authorization code for a credential pair
func (c *Client) ExchangeCode(ctx context.Context, code string) (Credentials, error) {
	if c.Config.ClientId == "" || c.Config.ClientSecret == "" || c.Config.RedirectUri == "" {
		return Credentials{}, ErrMissingConfig
	}
	token, err := c.oauthConfig().Exchange(c.oauthContext(ctx), code)
	if err != nil {
		return Credentials{}, newExchangeError(err)
	}
	return Credentials{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    expiresIn(token),
	}, nil
}

// AccessToken exchanges the configured refresh token for a new access token.
// Nothing is cached: every call performs exactly one exchange.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if c.Config.ClientId == "" || c.Config.ClientSecret == "" || c.Config.RefreshToken == "" {
		return "", ErrMissingCredentials
	}
	source := c.oauthConfig().TokenSource(c.oauthContext(ctx), &oauth2.Token{
		RefreshToken: c.Config.RefreshToken,
	})
	token, err := source.Token()
	if err != nil {
		return "", newExchangeError(err)
	}
	return token.AccessToken, nil
}

func newExchangeError(err error) *ExchangeError {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return &ExchangeError{Description: retrieveErr.ErrorDescription, err: err}
	}
	return &ExchangeError{err: err}
}

func expiresIn(token *oauth2.Token) int64 {
	switch v := token.Extra("expires_in").(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	}
	if token.Expiry.IsZero() {
		return 0
	}
	return int64(time.Until(token.Expiry).Round(time.Second).Seconds())
}
