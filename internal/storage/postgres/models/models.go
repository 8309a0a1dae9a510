package models

import (
	"errors"

	"cinefinder/proj/internal/storage"
	"cinefinder/proj/internal/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Models struct {
	Movies  *MovieModel
	Genres  *GenreModel
	Lists   *ListModel
	Ratings *RatingModel
	Users   *UserModel
}

func New(db *postgres.Storage) *Models {
	return &Models{
		Movies:  &MovieModel{db.Conn},
		Genres:  &GenreModel{db.Conn},
		Lists:   &ListModel{db.Conn},
		Ratings: &RatingModel{db.Conn},
		Users:   &UserModel{db.Conn},
	}
}

// translateErr maps driver errors to storage sentinels. Unique violations
// become ErrConflict; missing rows and broken references become ErrNotFound.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case postgres.ErrConflictCode:
			return storage.ErrConflict
		case postgres.ErrForeignKeyCode:
			return storage.ErrNotFound
		}
	}
	return err
}
