package session

import (
	"errors"
	"time"
)

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrExpiredSession = errors.New("session expired")
)

const CookieName = "session_token"

type Session struct {
	Token     string
	UserId    int
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s Session) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
