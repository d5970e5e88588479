package main

import (
	"aura/internal/session"
	"context"
)

type PlaybackService struct {
	session *session.Service
}

func NewPlaybackService(sessionService *session.Service) *PlaybackService {
	return &PlaybackService{session: sessionService}
}

// GetCurrentPlaying fetches the current playback on demand, resolving local
// artwork when the remote context has none.
func (s *PlaybackService) GetCurrentPlaying() (session.NowPlaying, error) {
	return s.session.CurrentPlaying(context.Background())
}
