package spotify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func newTestClient(serverURL string) *Client {
	client := NewClient(NewConfig("client-id"), &oauth2.Token{
		AccessToken: "tok",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	})
	client.apiBase = serverURL
	return client
}

func TestCurrentlyPlayingTrack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/player/currently-playing" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("additional_types"); got != "track,episode" {
			t.Errorf("expected additional_types=track,episode, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("expected bearer auth, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"is_playing": true,
			"currently_playing_type": "track",
			"item": {
				"name": "Song One",
				"artists": [{"name": "Artist A"}, {"name": "Artist B"}],
				"album": {
					"name": "Album X",
					"images": [{"url": "https://img/640", "width": 640, "height": 640},
					           {"url": "https://img/300", "width": 300, "height": 300}]
				}
			}
		}`))
	}))
	defer server.Close()

	playing, err := newTestClient(server.URL).CurrentlyPlaying(context.Background())
	if err != nil {
		t.Fatalf("currently playing: %v", err)
	}
	if playing == nil {
		t.Fatal("expected a playing context")
	}

	details, ok := playing.Details()
	if !ok {
		t.Fatal("expected item details")
	}
	if details.Kind != ItemTypeTrack {
		t.Fatalf("expected track, got %q", details.Kind)
	}
	if details.Name != "Song One" || details.Album != "Album X" {
		t.Fatalf("unexpected details: %+v", details)
	}
	if len(details.Artists) != 2 || details.Artists[0] != "Artist A" {
		t.Fatalf("unexpected artists: %v", details.Artists)
	}
	if details.ArtworkURL != "https://img/300" {
		t.Fatalf("expected the 300px rendition, got %q", details.ArtworkURL)
	}
}

func TestCurrentlyPlayingNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	playing, err := newTestClient(server.URL).CurrentlyPlaying(context.Background())
	if err != nil {
		t.Fatalf("expected no error on 204, got %v", err)
	}
	if playing != nil {
		t.Fatalf("expected nil context, got %+v", playing)
	}
}

func TestCurrentlyPlayingEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	playing, err := newTestClient(server.URL).CurrentlyPlaying(context.Background())
	if err != nil {
		t.Fatalf("expected no error on empty body, got %v", err)
	}
	if playing != nil {
		t.Fatalf("expected nil context, got %+v", playing)
	}
}

func TestCurrentlyPlayingServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CurrentlyPlaying(context.Background())
	if err == nil {
		t.Fatal("expected an error on 500")
	}
}

func TestRefreshKeepsValidToken(t *testing.T) {
	client := newTestClient("http://unused")

	token, err := client.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if token.AccessToken != "tok" {
		t.Fatalf("expected the still-valid token back, got %q", token.AccessToken)
	}
}
