package main

import (
	"aura/internal/session"
	"context"
)

type AuthService struct {
	session *session.Service
}

func NewAuthService(sessionService *session.Service) *AuthService {
	return &AuthService{session: sessionService}
}

// Connect starts or resumes authorization, opening the system browser only
// when no stored token can be refreshed.
func (s *AuthService) Connect() error {
	return s.session.Connect(context.Background())
}

// Restore silently resumes a prior session. The boolean reports whether a
// session was recovered; a missing token is not an error.
func (s *AuthService) Restore() (bool, error) {
	return s.session.Restore(context.Background())
}

// Disconnect tears down the live session and stops polling. The stored token
// is kept so Restore can resume later.
func (s *AuthService) Disconnect() {
	s.session.Teardown()
}
