package users

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyTaken  = errors.New("user with that email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrGenreNotFound      = errors.New("genre not found")
	ErrNotSelf            = errors.New("account belongs to another user")
)
