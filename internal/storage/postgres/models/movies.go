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

type MovieModel struct {
	DB *pgxpool.Pool
}

const movieColumns = `m.id, m.tmdb_id, m.title, m.description, m.release_date,
	m.poster_url, m.trailer_url, m.director, m.duration, m.avg_rating, m.created_at`

var movieSortColumns = map[filters.SortKey]string{
	filters.SortTitle:       "m.title",
	filters.SortReleaseDate: "m.release_date",
	filters.SortAvgRating:   "m.avg_rating",
	filters.SortDuration:    "m.duration",
}

func (m *MovieModel) Get(ctx context.Context, id uuid.UUID) (*models.Movie, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf("SELECT %s FROM movies m WHERE m.id = $1", movieColumns),
		id,
	)
	movie, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		return nil, translateErr(err)
	}
	return &movie, nil
}

func (m *MovieModel) GetByTmdbID(ctx context.Context, tmdbID int) (*models.Movie, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf("SELECT %s FROM movies m WHERE m.tmdb_id = $1", movieColumns),
		tmdbID,
	)
	movie, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		return nil, translateErr(err)
	}
	return &movie, nil
}

func (m *MovieModel) Insert(ctx context.Context, movie *models.Movie, genreIDs []uuid.UUID) (*models.Movie, error) {
	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, _ := tx.Query(
		ctx,
		`INSERT INTO movies (id, tmdb_id, title, description, release_date, poster_url, trailer_url, director, duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, tmdb_id, title, description, release_date, poster_url, trailer_url, director, duration, avg_rating, created_at`,
		movie.ID, movie.TmdbID, movie.Title, movie.Description, movie.ReleaseDate,
		movie.PosterURL, movie.TrailerURL, movie.Director, movie.Duration,
	)
	inserted, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		return nil, translateErr(err)
	}
	if err := replaceMovieGenres(ctx, tx, inserted.ID, genreIDs); err != nil {
		return nil, translateErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &inserted, nil
}

// Update replaces all mutable fields. A nil genreIDs leaves the genre set
// untouched; an empty slice clears it.
func (m *MovieModel) Update(ctx context.Context, movie *models.Movie, genreIDs []uuid.UUID) (*models.Movie, error) {
	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, _ := tx.Query(
		ctx,
		`UPDATE movies SET tmdb_id = $1, title = $2, description = $3, release_date = $4,
			poster_url = $5, trailer_url = $6, director = $7, duration = $8
		WHERE id = $9
		RETURNING id, tmdb_id, title, description, release_date, poster_url, trailer_url, director, duration, avg_rating, created_at`,
		movie.TmdbID, movie.Title, movie.Description, movie.ReleaseDate,
		movie.PosterURL, movie.TrailerURL, movie.Director, movie.Duration, movie.ID,
	)
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		return nil, translateErr(err)
	}
	if genreIDs != nil {
		if err := replaceMovieGenres(ctx, tx, updated.ID, genreIDs); err != nil {
			return nil, translateErr(err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (m *MovieModel) Delete(ctx context.Context, id uuid.UUID) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM movies WHERE id = $1", id)
	if err != nil {
		return translateErr(err)
	}
	if status.RowsAffected() == 0 {
		return translateErr(pgx.ErrNoRows)
	}
	return nil
}

func (m *MovieModel) List(ctx context.Context, mf filters.MovieFilters, f filters.Filters) ([]models.Movie, int, error) {
	where := make([]string, 0, 8)
	args := make([]any, 0, 8)
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if t := strings.TrimSpace(mf.Title); t != "" {
		where = append(where, fmt.Sprintf("m.title ILIKE '%%' || %s || '%%'", arg(t)))
	}
	if d := strings.TrimSpace(mf.Director); d != "" {
		where = append(where, fmt.Sprintf("m.director ILIKE '%%' || %s || '%%'", arg(d)))
	}
	if len(mf.GenreIDs) > 0 {
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM movie_genres mg WHERE mg.movie_id = m.id AND mg.genre_id = ANY(%s))",
			arg(mf.GenreIDs),
		))
	}
	if mf.YearFrom != nil {
		where = append(where, fmt.Sprintf("EXTRACT(YEAR FROM m.release_date) >= %s", arg(*mf.YearFrom)))
	}
	if mf.YearTo != nil {
		where = append(where, fmt.Sprintf("EXTRACT(YEAR FROM m.release_date) <= %s", arg(*mf.YearTo)))
	}
	if mf.MinAvg != nil {
		where = append(where, fmt.Sprintf("m.avg_rating >= %s", arg(*mf.MinAvg)))
	}
	if mf.DurationMin != nil {
		where = append(where, fmt.Sprintf("m.duration >= %s", arg(*mf.DurationMin)))
	}
	if mf.DurationMax != nil {
		where = append(where, fmt.Sprintf("m.duration <= %s", arg(*mf.DurationMax)))
	}

	query := fmt.Sprintf("SELECT count(*) OVER(), %s FROM movies m", movieColumns)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(
		" ORDER BY %s, m.id ASC LIMIT %s OFFSET %s",
		f.OrderBy(movieSortColumns, "m.title ASC"),
		arg(f.Limit()), arg(f.Offset()),
	)

	rows, _ := m.DB.Query(ctx, query, args...)
	type row struct {
		Count int
		models.Movie
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, translateErr(err)
	}
	if len(outputRows) == 0 {
		return []models.Movie{}, 0, nil
	}
	movies := make([]models.Movie, 0, len(outputRows))
	for _, r := range outputRows {
		movies = append(movies, r.Movie)
	}
	return movies, outputRows[0].Count, nil
}

// TopRated returns the n highest-rated movies. Ties and unrated movies sort
// by id ascending so the result is stable between calls.
func (m *MovieModel) TopRated(ctx context.Context, n int) ([]models.Movie, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf(
			"SELECT %s FROM movies m ORDER BY m.avg_rating DESC NULLS LAST, m.id ASC LIMIT $1",
			movieColumns,
		),
		n,
	)
	movies, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		return nil, translateErr(err)
	}
	return movies, nil
}

func (m *MovieModel) ByGenre(ctx context.Context, genreID uuid.UUID) ([]models.Movie, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf(
			`SELECT %s FROM movies m
			JOIN movie_genres mg ON mg.movie_id = m.id
			WHERE mg.genre_id = $1
			ORDER BY m.title ASC`,
			movieColumns,
		),
		genreID,
	)
	movies, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		return nil, translateErr(err)
	}
	return movies, nil
}

func (m *MovieModel) Genres(ctx context.Context, movieID uuid.UUID) ([]models.Genre, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT g.id, g.tmdb_id, g.name, g.description, g.created_at
		FROM genres g
		JOIN movie_genres mg ON mg.genre_id = g.id
		WHERE mg.movie_id = $1
		ORDER BY g.name ASC`,
		movieID,
	)
	genres, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Genre])
	if err != nil {
		return nil, translateErr(err)
	}
	return genres, nil
}

func replaceMovieGenres(ctx context.Context, tx pgx.Tx, movieID uuid.UUID, genreIDs []uuid.UUID) error {
	if _, err := tx.Exec(ctx, "DELETE FROM movie_genres WHERE movie_id = $1", movieID); err != nil {
		return err
	}
	for _, genreID := range genreIDs {
		_, err := tx.Exec(
			ctx,
			"INSERT INTO movie_genres (movie_id, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			movieID, genreID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
