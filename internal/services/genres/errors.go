package genres

import "errors"

var (
	ErrGenreNotFound      = errors.New("genre not found")
	ErrGenreAlreadyExists = errors.New("genre with that tmdb id or name already exists")
)
