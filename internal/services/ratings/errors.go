package ratings

import "errors"

var (
	ErrRatingNotFound = errors.New("rating not found")
	ErrMovieNotFound  = errors.New("movie not found")
	ErrAlreadyRated   = errors.New("movie is already rated by this user")
	ErrInvalidScore   = errors.New("score must be between 1 and 10")
	ErrNotOwner       = errors.New("rating belongs to another user")
)
