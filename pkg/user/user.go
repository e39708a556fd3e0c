package user

import "time"

type User struct {
	Id           int
	Uid          string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}
