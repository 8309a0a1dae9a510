package filters

import (
	"time"

	"github.com/google/uuid"
)

// Per-entity search criteria. Nil pointers and empty strings mean
// "not filtered"; string matches are partial and case-insensitive.

type MovieFilters struct {
	Title       string
	Director    string
	GenreIDs    []uuid.UUID
	YearFrom    *int
	YearTo      *int
	MinAvg      *float64
	DurationMin *int
	DurationMax *int
}

type RatingFilters struct {
	MovieID    *uuid.UUID
	UserID     *uuid.UUID
	ScoreMin   *int
	ScoreMax   *int
	From       *time.Time
	To         *time.Time
	HasComment *bool
}

type ListFilters struct {
	OwnerID  *uuid.UUID
	IsPublic *bool
	Name     string
	From     *time.Time
	To       *time.Time
}

type UserFilters struct {
	Name  string
	Email string
	From  *time.Time
	To    *time.Time
}
