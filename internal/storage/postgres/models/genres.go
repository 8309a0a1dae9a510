package models

import (
	"context"
	"fmt"
	"strings"

	"cinefinder/proj/internal/domain/filters"
	"cinefinder/proj/internal/domain/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GenreModel struct {
	DB *pgxpool.Pool
}

const genreColumns = "g.id, g.tmdb_id, g.name, g.description, g.created_at"

var genreSortColumns = map[filters.SortKey]string{
	filters.SortName:       "g.name",
	filters.SortMovieCount: "movie_count",
}

func (m *GenreModel) Get(ctx context.Context, id uuid.UUID) (*models.Genre, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf("SELECT %s FROM genres g WHERE g.id = $1", genreColumns),
		id,
	)
	genre, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Genre])
	if err != nil {
		return nil, translateErr(err)
	}
	return &genre, nil
}

func (m *GenreModel) GetByTmdbID(ctx context.Context, tmdbID int) (*models.Genre, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf("SELECT %s FROM genres g WHERE g.tmdb_id = $1", genreColumns),
		tmdbID,
	)
	genre, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Genre])
	if err != nil {
		return nil, translateErr(err)
	}
	return &genre, nil
}

func (m *GenreModel) Insert(ctx context.Context, genre *models.Genre) (*models.Genre, error) {
	rows, _ := m.DB.Query(
		ctx,
		`INSERT INTO genres (id, tmdb_id, name, description) VALUES ($1, $2, $3, $4)
		RETURNING id, tmdb_id, name, description, created_at`,
		genre.ID, genre.TmdbID, genre.Name, genre.Description,
	)
	inserted, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Genre])
	if err != nil {
		return nil, translateErr(err)
	}
	return &inserted, nil
}

func (m *GenreModel) Update(ctx context.Context, genre *models.Genre) (*models.Genre, error) {
	rows, _ := m.DB.Query(
		ctx,
		`UPDATE genres SET tmdb_id = $1, name = $2, description = $3 WHERE id = $4
		RETURNING id, tmdb_id, name, description, created_at`,
		genre.TmdbID, genre.Name, genre.Description, genre.ID,
	)
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Genre])
	if err != nil {
		return nil, translateErr(err)
	}
	return &updated, nil
}

func (m *GenreModel) Delete(ctx context.Context, id uuid.UUID) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM genres WHERE id = $1", id)
	if err != nil {
		return translateErr(err)
	}
	if status.RowsAffected() == 0 {
		return translateErr(pgx.ErrNoRows)
	}
	return nil
}

func (m *GenreModel) List(ctx context.Context, name string, f filters.Filters) ([]models.GenreInfo, int, error) {
	where := ""
	args := make([]any, 0, 3)
	if n := strings.TrimSpace(name); n != "" {
		args = append(args, n)
		where = fmt.Sprintf("WHERE g.name ILIKE '%%' || $%d || '%%'", len(args))
	}
	args = append(args, f.Limit(), f.Offset())

	query := fmt.Sprintf(
		`SELECT count(*) OVER(), %s, count(mg.movie_id) AS movie_count
		FROM genres g
		LEFT JOIN movie_genres mg ON mg.genre_id = g.id
		%s
		GROUP BY g.id
		ORDER BY %s, g.id ASC
		LIMIT $%d OFFSET $%d`,
		genreColumns, where,
		f.OrderBy(genreSortColumns, "g.name ASC"),
		len(args)-1, len(args),
	)

	rows, _ := m.DB.Query(ctx, query, args...)
	type row struct {
		Count int
		models.GenreInfo
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, translateErr(err)
	}
	if len(outputRows) == 0 {
		return []models.GenreInfo{}, 0, nil
	}
	genres := make([]models.GenreInfo, 0, len(outputRows))
	for _, r := range outputRows {
		genres = append(genres, r.GenreInfo)
	}
	return genres, outputRows[0].Count, nil
}

// Popular returns the ten genres with the most associated movies, ties broken
// by id ascending.
func (m *GenreModel) Popular(ctx context.Context) ([]models.GenreInfo, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf(
			`SELECT %s, count(mg.movie_id) AS movie_count
			FROM genres g
			LEFT JOIN movie_genres mg ON mg.genre_id = g.id
			GROUP BY g.id
			ORDER BY movie_count DESC, g.id ASC
			LIMIT 10`,
			genreColumns,
		),
	)
	genres, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.GenreInfo])
	if err != nil {
		return nil, translateErr(err)
	}
	return genres, nil
}
