package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"aura/internal/spotify"

	"github.com/google/uuid"
	"github.com/pkg/browser"
	"golang.org/x/oauth2"
)

const EventNowPlaying = "nowplaying:update"

const EventAuthLost = "session:authlost"

const pollInterval = 2 * time.Second

const callbackAddr = "127.0.0.1:5173"

const clientIDEnv = "SPOTIFY_CLIENT_ID"

type Emitter func(eventName string, payload any)

// AuthLost is the (empty) payload of EventAuthLost.
type AuthLost struct{}

// NowPlaying is the published playback snapshot. It is recomputed per poll
// tick or on-demand fetch and never persisted.
type NowPlaying struct {
	IsPlaying   bool     `json:"isPlaying"`
	TrackName   string   `json:"trackName"`
	Artists     []string `json:"artists"`
	Album       string   `json:"album"`
	ArtworkURL  string   `json:"artworkUrl"`
	ArtworkPath string   `json:"artworkPath"`
}

// playbackClient is the authenticated remote handle the session owns.
type playbackClient interface {
	Refresh(ctx context.Context) (spotify.Token, error)
	CurrentlyPlaying(ctx context.Context) (*spotify.PlayingContext, error)
}

// Resolver fills in local artwork when the remote context carries none.
type Resolver interface {
	Resolve(track, artist, album string) string
}

// Service owns the authorization lifecycle and the now-playing poller. One
// mutex guards client, watchStarted and cancel; it is held only for
// in-memory mutation and never across a network call — handles are copied
// out first. client and cancel are always cleared together.
type Service struct {
	tokens   *spotify.TokenFile
	resolver Resolver

	dial       func(config *oauth2.Config, token *oauth2.Token) playbackClient
	openURL    func(url string) error
	listenAddr string
	interval   time.Duration

	mu           sync.Mutex
	client       playbackClient
	watchStarted bool
	cancel       context.CancelFunc
	emit         Emitter
}

func NewService(tokens *spotify.TokenFile, resolver Resolver) *Service {
	return &Service{
		tokens:   tokens,
		resolver: resolver,
		dial: func(config *oauth2.Config, token *oauth2.Token) playbackClient {
			return spotify.NewClient(config, token)
		},
		openURL:    browser.OpenURL,
		listenAddr: callbackAddr,
		interval:   pollInterval,
	}
}

func (s *Service) SetEmitter(emitter Emitter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emit = emitter
}

// Connect establishes an authenticated session. With a live client it only
// refreshes; with a usable stored token it recovers silently; otherwise it
// runs the interactive PKCE handshake through the system browser.
func (s *Service) Connect(ctx context.Context) error {
	s.mu.Lock()
	existing := s.client
	s.mu.Unlock()

	if existing != nil {
		token, err := existing.Refresh(ctx)
		if err != nil {
			log.Printf("session: refresh on connect failed: %v", err)
			return nil
		}
		s.persist(token)
		return nil
	}

	clientID := os.Getenv(clientIDEnv)
	if clientID == "" {
		return fmt.Errorf("missing %s", clientIDEnv)
	}
	config := spotify.NewConfig(clientID)

	cached, err := s.tokens.Read()
	if err != nil {
		return err
	}
	if cached != nil {
		if s.adopt(ctx, config, cached) {
			return nil
		}
		// The stored grant no longer refreshes; forget it and fall through
		// to the interactive flow.
		if deleteErr := s.tokens.Delete(); deleteErr != nil {
			log.Printf("session: drop stale token: %v", deleteErr)
		}
	}

	return s.authenticate(ctx, config)
}

// Restore silently resumes a prior session. It never opens a browser and
// never errors merely because no token is stored.
func (s *Service) Restore(ctx context.Context) (bool, error) {
	s.mu.Lock()
	existing := s.client
	s.mu.Unlock()

	if existing != nil {
		if token, err := existing.Refresh(ctx); err == nil {
			s.persist(token)
		}
		return true, nil
	}

	cached, err := s.tokens.Read()
	if err != nil {
		return false, err
	}
	if cached == nil {
		return false, nil
	}

	clientID := os.Getenv(clientIDEnv)
	if clientID == "" {
		return false, fmt.Errorf("missing %s", clientIDEnv)
	}

	if s.adopt(ctx, spotify.NewConfig(clientID), cached) {
		return true, nil
	}

	if deleteErr := s.tokens.Delete(); deleteErr != nil {
		log.Printf("session: drop stale token: %v", deleteErr)
	}
	return false, nil
}

// adopt seeds a client from a stored token and refreshes it. Success stores
// the client and starts the poller.
func (s *Service) adopt(ctx context.Context, config *oauth2.Config, cached *spotify.Token) bool {
	client := s.dial(config, cached.OAuth())
	token, err := client.Refresh(ctx)
	if err != nil {
		return false
	}

	s.persist(token)
	s.install(client)
	return true
}

func (s *Service) authenticate(ctx context.Context, config *oauth2.Config) error {
	verifier := oauth2.GenerateVerifier()
	state := uuid.NewString()
	authorizeURL := config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))

	listener, err := startCallbackListener(s.listenAddr)
	if err != nil {
		return err
	}
	defer listener.Stop()

	if err := s.openURL(authorizeURL); err != nil {
		return fmt.Errorf("open authorization page: %w", err)
	}

	var delivered authCode
	select {
	case code, ok := <-listener.codes:
		if !ok {
			return errors.New("authorization canceled before a code arrived")
		}
		delivered = code
	case <-ctx.Done():
		return ctx.Err()
	}

	if delivered.state != state {
		return errors.New("authorization state mismatch")
	}

	token, err := config.Exchange(ctx, delivered.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	s.persist(spotify.FromOAuth(token, config.Scopes))
	s.install(s.dial(config, token))
	return nil
}

func (s *Service) install(client playbackClient) {
	s.mu.Lock()
	s.client = client
	s.mu.Unlock()

	s.StartPolling()
}

// StartPolling begins the background now-playing loop. Idempotent: a second
// call while a loop is live is a no-op.
func (s *Service) StartPolling() {
	s.mu.Lock()
	if s.client == nil || s.watchStarted {
		s.mu.Unlock()
		return
	}
	s.watchStarted = true
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	client := s.client
	s.mu.Unlock()

	go s.poll(ctx, client)
}

func (s *Service) poll(ctx context.Context, client playbackClient) {
	for {
		token, err := client.Refresh(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.Printf("session: periodic refresh failed, dropping session: %v", err)
			s.invalidate()
			return
		}
		s.persist(token)

		playing, fetchErr := client.CurrentlyPlaying(ctx)
		if ctx.Err() != nil {
			return
		}

		var snapshot NowPlaying
		if fetchErr != nil {
			// Rate limits, 5xx and network blips are transient: report
			// nothing playing and keep the session.
			log.Printf("session: now-playing fetch failed: %v", fetchErr)
			snapshot = emptySnapshot()
		} else {
			snapshot = s.snapshotFrom(playing)
		}
		s.emitEvent(EventNowPlaying, snapshot)

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.interval):
		}
	}
}

// invalidate drops the session after an unrecoverable auth failure: loop
// canceled, client and flags cleared together, stored token removed, one
// auth-lost notification emitted.
func (s *Service) invalidate() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = nil
	s.client = nil
	s.watchStarted = false
	s.mu.Unlock()

	if err := s.tokens.Delete(); err != nil {
		log.Printf("session: drop stored token: %v", err)
	}
	s.emitEvent(EventAuthLost, AuthLost{})
}

// Teardown cancels any poll loop and clears the session. The stored token
// survives, so a later restore can resume.
func (s *Service) Teardown() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = nil
	s.client = nil
	s.watchStarted = false
	s.mu.Unlock()
}

// CurrentPlaying fetches playback on demand and resolves local artwork the
// same way a poll tick does.
func (s *Service) CurrentPlaying(ctx context.Context) (NowPlaying, error) {
	s.mu.Lock()
	client := s.client
	s.mu.Unlock()

	if client == nil {
		return NowPlaying{}, errors.New("not connected")
	}

	playing, err := client.CurrentlyPlaying(ctx)
	if err != nil {
		return NowPlaying{}, err
	}

	return s.snapshotFrom(playing), nil
}

func (s *Service) snapshotFrom(playing *spotify.PlayingContext) NowPlaying {
	details, ok := playing.Details()
	if !ok {
		snapshot := emptySnapshot()
		if playing != nil {
			snapshot.IsPlaying = playing.IsPlaying
		}
		return snapshot
	}

	snapshot := NowPlaying{
		IsPlaying:  playing.IsPlaying,
		TrackName:  details.Name,
		Artists:    details.Artists,
		Album:      details.Album,
		ArtworkURL: details.ArtworkURL,
	}

	if snapshot.ArtworkURL == "" && details.Kind == spotify.ItemTypeTrack && s.resolver != nil {
		primary := ""
		if len(details.Artists) > 0 {
			primary = details.Artists[0]
		}
		snapshot.ArtworkPath = s.resolver.Resolve(details.Name, primary, details.Album)
	}

	return snapshot
}

func emptySnapshot() NowPlaying {
	return NowPlaying{Artists: []string{}}
}

func (s *Service) persist(token spotify.Token) {
	if err := s.tokens.Write(token); err != nil {
		log.Printf("session: persist token: %v", err)
	}
}

func (s *Service) emitEvent(name string, payload any) {
	s.mu.Lock()
	emitter := s.emit
	s.mu.Unlock()

	if emitter != nil {
		emitter(name, payload)
	}
}
