package models

import (
	"cinefinder/proj/internal/domain/fields"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash []byte     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// AnonymousUser marks an unauthenticated request.
var AnonymousUser = &User{}

func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

type Movie struct {
	ID          uuid.UUID             `json:"id"`
	TmdbID      int                   `json:"tmdbId"` // id in the external TMDB catalog, unique
	Title       string                `json:"title"`
	Description string                `json:"description,omitempty"`
	ReleaseDate *time.Time            `json:"releaseDate,omitempty"`
	PosterURL   string                `json:"posterUrl,omitempty"`
	TrailerURL  string                `json:"trailerUrl,omitempty"`
	Director    string                `json:"director,omitempty"`
	Duration    *fields.MovieDuration `json:"duration,omitempty"` // minutes
	AvgRating   *float64              `json:"avgRating"`          // nil until the movie gets its first rating
	CreatedAt   time.Time             `json:"-"`
}

type Genre struct {
	ID          uuid.UUID `json:"id"`
	TmdbID      int       `json:"tmdbId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"-"`
}

type List struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	IsPublic    bool       `json:"isPublic"`
	OwnerID     uuid.UUID  `json:"ownerId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type Rating struct {
	ID        uuid.UUID `json:"id"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	UserID    uuid.UUID `json:"userId"`
	MovieID   uuid.UUID `json:"movieId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListMovie is one row of a list's ordered membership. Position is a dense
// 1-based sequence within the list.
type ListMovie struct {
	ListID   uuid.UUID `json:"listId"`
	MovieID  uuid.UUID `json:"movieId"`
	Position int       `json:"position"`
	AddedAt  time.Time `json:"addedAt"`
}

// GenrePreference associates a user with a genre at a preference level.
type GenrePreference struct {
	UserID  uuid.UUID `json:"userId"`
	GenreID uuid.UUID `json:"genreId"`
	Level   int       `json:"level"`
}

// Joined read models returned by the storage layer.

type GenreInfo struct {
	Genre
	MovieCount int `json:"movieCount"`
}

// RatingSummary is a rating row flattened with the rater's name, used on the
// movie details view.
type RatingSummary struct {
	ID        uuid.UUID `json:"id"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListEntry is a list membership row flattened with the movie it points at.
type ListEntry struct {
	Movie
	Position int       `json:"position"`
	AddedAt  time.Time `json:"addedAt"`
}

type FavoriteGenre struct {
	Genre
	Level int `json:"level"`
}
