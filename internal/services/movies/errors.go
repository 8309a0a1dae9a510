package movies

import "errors"

var (
	ErrMovieNotFound      = errors.New("movie not found")
	ErrMovieAlreadyExists = errors.New("movie with that tmdb id already exists")
	ErrGenreNotFound      = errors.New("genre not found")
)
