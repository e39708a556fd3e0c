package session

import (
	"context"
	"time"
)

type RepositoryStub struct {
	sessions map[string]Session
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{sessions: map[string]Session{}}
}

func (s *RepositoryStub) Create(ctx context.Context, session Session) error {
	s.sessions[session.Token] = session
	return nil
}

func (s *RepositoryStub) GetByToken(ctx context.Context, token string) (Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return Session{}, ErrInvalidSession
	}
	return session, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func (s *RepositoryStub) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var deleted int64
	for token, session := range s.sessions {
		if session.ExpiredAt(now) {
			delete(s.sessions, token)
			deleted++
		}
	}
	return deleted, nil
}

func (s *RepositoryStub) Cleanup() {
	s.sessions = map[string]Session{}
}
