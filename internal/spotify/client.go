// Spotify Web API client for the now-playing widget.
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

const (
	authURL  = "https://accounts.spotify.com/authorize"
	tokenURL = "https://accounts.spotify.com/api/token"
	baseURL  = "https://api.spotify.com/v1"

	// RedirectURL is where the loopback callback listener waits during the
	// PKCE handshake.
	RedirectURL = "http://127.0.0.1:5173/callback"
)

// Scopes are the read-only playback scopes the widget needs.
var Scopes = []string{
	"user-read-currently-playing",
	"user-read-playback-state",
}

// NewConfig builds the OAuth2 configuration for the authorization-code PKCE
// flow. No client secret is used.
func NewConfig(clientID string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:    clientID,
		RedirectURL: RedirectURL,
		Scopes:      Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
	}
}

// Client is an authenticated handle on the Spotify API. Refresh rotates the
// held token through the OAuth2 token source; CurrentlyPlaying uses whatever
// token the last refresh produced.
type Client struct {
	config     *oauth2.Config
	httpClient *http.Client
	apiBase    string

	mu    sync.Mutex
	token *oauth2.Token
}

func NewClient(config *oauth2.Config, token *oauth2.Token) *Client {
	return &Client{
		config:     config,
		httpClient: http.DefaultClient,
		apiBase:    baseURL,
		token:      token,
	}
}

// Refresh ensures the held token is valid, refreshing it through the token
// endpoint when it has expired. It returns the current (possibly rotated)
// token so callers can persist it. Failure is an authorization error.
func (c *Client) Refresh(ctx context.Context) (Token, error) {
	c.mu.Lock()
	current := c.token
	c.mu.Unlock()

	fresh, err := c.config.TokenSource(ctx, current).Token()
	if err != nil {
		return Token{}, fmt.Errorf("refresh token: %w", err)
	}

	c.mu.Lock()
	c.token = fresh
	c.mu.Unlock()

	return FromOAuth(fresh, c.config.Scopes), nil
}

// CurrentlyPlaying fetches the user's playback context. It returns nil when
// nothing is playing (the endpoint answers 204 or an empty body). Errors are
// transient remote errors; they never invalidate the client.
func (c *Client) CurrentlyPlaying(ctx context.Context) (*PlayingContext, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	if token == nil {
		return nil, fmt.Errorf("no access token held")
	}

	endpoint := c.apiBase + "/me/player/currently-playing?additional_types=track,episode"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch currently playing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("spotify API error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(body) == 0 {
		return nil, nil
	}

	var playing PlayingContext
	if err := json.Unmarshal(body, &playing); err != nil {
		return nil, fmt.Errorf("decode currently playing: %w", err)
	}

	return &playing, nil
}
