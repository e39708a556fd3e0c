package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Create(ctx context.Context, session Session) error
	GetByToken(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Create(ctx context.Context, session Session) error {
	query := `INSERT INTO sessions (token, user_id, expires_at, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.Exec(ctx, query, session.Token, session.UserId, session.ExpiresAt, session.CreatedAt)
	if err != nil {
		err := fmt.Errorf("could not store session: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) GetByToken(ctx context.Context, token string) (Session, error) {
	query := `SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = $1`
	var session Session
	err := r.db.QueryRow(ctx, query, token).Scan(
		&session.Token,
		&session.UserId,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrInvalidSession
	}
	if err != nil {
		err := fmt.Errorf("could not query session: %w", err)
		log.Error(err)
		return Session{}, err
	}
	return session, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		err := fmt.Errorf("could not delete session: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		err := fmt.Errorf("could not delete expired sessions: %w", err)
		log.Error(err)
		return 0, err
	}
	return result.RowsAffected(), nil
}
