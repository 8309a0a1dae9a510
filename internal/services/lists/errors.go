package lists

import "errors"

var (
	ErrListNotFound       = errors.New("list not found")
	ErrOwnerNotFound      = errors.New("list owner not found")
	ErrMovieNotFound      = errors.New("movie not found")
	ErrMovieAlreadyInList = errors.New("movie is already in the list")
	ErrMovieNotInList     = errors.New("movie is not in the list")
	ErrNotOwner           = errors.New("list belongs to another user")
)
