package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrUserNotFound = errors.New("user not found")

type Repo interface {
	CreateUser(ctx context.Context, user User) (int, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateUser(ctx context.Context, userId int, user User) (User, error)
	UpdatePasswordHash(ctx context.Context, userId int, hash string) error
}

type UserRepoImpl struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepoImpl {
	return &UserRepoImpl{db: db}
}

const selectUser = `SELECT id, uid, email, name, password_hash, created_at FROM users`

func (u *UserRepoImpl) CreateUser(ctx context.Context, user User) (int, error) {
	query := `INSERT INTO users (uid, email, name, password_hash) VALUES ($1, $2, $3, $4) RETURNING id`
	var id int
	err := u.db.QueryRow(ctx, query, user.Uid, user.Email, user.Name, user.PasswordHash).Scan(&id)
	if err != nil {
		log.Errorf("failed to create user: %v", err)
		return 0, err
	}
	return id, nil
}

func (u *UserRepoImpl) GetUser(ctx context.Context, id int) (User, error) {
	return u.getOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (u *UserRepoImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return u.getOne(ctx, selectUser+` WHERE uid = $1`, uid)
}

func (u *UserRepoImpl) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return u.getOne(ctx, selectUser+` WHERE email = $1`, email)
}

func (u *UserRepoImpl) getOne(ctx context.Context, query string, arg any) (User, error) {
	var user User
	err := u.db.QueryRow(ctx, query, arg).Scan(
		&user.Id,
		&user.Uid,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debugf("user %v not found", arg)
		return User{}, ErrUserNotFound
	} else if err != nil {
		log.Errorf("failed to get user: %v", err)
		return User{}, err
	}
	return user, nil
}

func (u *UserRepoImpl) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := u.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		log.Errorf("failed to check email: %v", err)
		return false, err
	}
	return exists, nil
}

func (u *UserRepoImpl) UpdateUser(ctx context.Context, userId int, user User) (User, error) {
	result, err := u.db.Exec(ctx, `UPDATE users SET name = $1, email = $2 WHERE id = $3`, user.Name, user.Email, userId)
	if err != nil {
		log.Errorf("failed to update user: %v", err)
		return User{}, err
	}
	if result.RowsAffected() == 0 {
		log.Info("no rows affected of updating user")
		return User{}, fmt.Errorf("%w: %d", ErrUserNotFound, userId)
	}
	return user, nil
}

func (u *UserRepoImpl) UpdatePasswordHash(ctx context.Context, userId int, hash string) error {
	result, err := u.db.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, hash, userId)
	if err != nil {
		log.Errorf("failed to update password: %v", err)
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", ErrUserNotFound, userId)
	}
	return nil
}
