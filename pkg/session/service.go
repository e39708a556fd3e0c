package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/klokku/moneypro/internal/clock"
	"github.com/klokku/moneypro/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Login(ctx context.Context, email, password string) (Session, user.User, error)
	Resolve(ctx context.Context, token string) (user.User, error)
	Logout(ctx context.Context, token string) (int, error)
}

type ServiceImpl struct {
	repo        Repository
	userService user.Service
	clock       clock.Clock
	ttl         time.Duration
}

func NewService(repo Repository, userService user.Service, clock clock.Clock, ttl time.Duration) *ServiceImpl {
	return &ServiceImpl{repo: repo, userService: userService, clock: clock, ttl: ttl}
}

func (s *ServiceImpl) Login(ctx context.Context, email, password string) (Session, user.User, error) {
	u, err := s.userService.Authenticate(ctx, email, password)
	if err != nil {
		return Session{}, user.User{}, err
	}

	token, err := generateSecureToken()
	if err != nil {
		return Session{}, user.User{}, fmt.Errorf("generating session token: %w", err)
	}
	now := s.clock.Now()
	session := Session{
		Token:     token,
		UserId:    u.Id,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return Session{}, user.User{}, err
	}
	log.Debugf("session created for user %s, expires at %v", u.Uid, session.ExpiresAt)
	return session, u, nil
}

// Resolve returns the owner of a live session. Expired sessions are removed.
func (s *ServiceImpl) Resolve(ctx context.Context, token string) (user.User, error) {
	if token == "" {
		return user.User{}, ErrInvalidSession
	}
	session, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return user.User{}, err
	}
	if session.ExpiredAt(s.clock.Now()) {
		if err := s.repo.Delete(ctx, token); err != nil {
			log.Warnf("failed to delete expired session: %v", err)
		}
		return user.User{}, ErrExpiredSession
	}

	u, err := s.userService.GetUser(ctx, session.UserId)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, ErrInvalidSession
		}
		return user.User{}, err
	}
	return u, nil
}

// Logout revokes the session and returns the id of the user who owned it.
func (s *ServiceImpl) Logout(ctx context.Context, token string) (int, error) {
	session, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return 0, err
	}
	if err := s.repo.Delete(ctx, token); err != nil {
		return 0, err
	}
	return session.UserId, nil
}

func generateSecureToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
