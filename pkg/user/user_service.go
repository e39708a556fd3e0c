package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	// MaxPasswordLength is the bcrypt input limit, in bytes.
	MaxPasswordLength = 72
)

var (
	ErrUserDataInvalid    = errors.New("invalid user data")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Service interface {
	Register(ctx context.Context, name, email, password string) (User, error)
	Authenticate(ctx context.Context, email, password string) (User, error)
	GetCurrentUser(ctx context.Context) (User, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	UpdateProfile(ctx context.Context, name, email string) (User, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
}

type UserServiceImpl struct {
	repo Repo
	cost int
}

func NewUserService(repo Repo) *UserServiceImpl {
	return &UserServiceImpl{repo: repo, cost: bcrypt.DefaultCost}
}

func (u *UserServiceImpl) Register(ctx context.Context, name, email, password string) (User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if err := validateProfile(name, email); err != nil {
		return User{}, err
	}
	if err := validatePassword(password); err != nil {
		return User{}, err
	}

	taken, err := u.repo.EmailExists(ctx, email)
	if err != nil {
		return User{}, err
	}
	if taken {
		return User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.cost)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}

	user := User{
		Uid:          uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}
	id, err := u.repo.CreateUser(ctx, user)
	if err != nil {
		return User{}, err
	}
	user.Id = id
	log.Infof("registered user %s", user.Uid)
	return user, nil
}

func (u *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (User, error) {
	user, err := u.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Debugf("password mismatch for user %s", user.Uid)
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (u *UserServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return u.repo.GetUser(ctx, userId)
}

func (u *UserServiceImpl) GetUser(ctx context.Context, id int) (User, error) {
	return u.repo.GetUser(ctx, id)
}

func (u *UserServiceImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return u.repo.GetUserByUid(ctx, uid)
}

func (u *UserServiceImpl) UpdateProfile(ctx context.Context, name, email string) (User, error) {
	current, err := u.GetCurrentUser(ctx)
	if err != nil {
		return User{}, err
	}
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if err := validateProfile(name, email); err != nil {
		return User{}, err
	}
	if email != current.Email {
		taken, err := u.repo.EmailExists(ctx, email)
		if err != nil {
			return User{}, err
		}
		if taken {
			return User{}, ErrEmailTaken
		}
	}

	current.Name = name
	current.Email = email
	return u.repo.UpdateUser(ctx, current.Id, current)
}

func (u *UserServiceImpl) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	current, err := u.GetCurrentUser(ctx)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(current.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), u.cost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return u.repo.UpdatePasswordHash(ctx, current.Id, string(hash))
}

func validateProfile(name, email string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrUserDataInvalid)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email %q", ErrUserDataInvalid, email)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must have at least %d characters", ErrUserDataInvalid, MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: password must have at most %d bytes", ErrUserDataInvalid, MaxPasswordLength)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
