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

type RatingModel struct {
	DB *pgxpool.Pool
}

const ratingColumns = "r.id, r.score, r.comment, r.user_id, r.movie_id, r.created_at"

var ratingSortColumns = map[filters.SortKey]string{
	filters.SortScore:     "r.score",
	filters.SortCreatedAt: "r.created_at",
}

func (m *RatingModel) Get(ctx context.Context, id uuid.UUID) (*models.Rating, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf("SELECT %s FROM ratings r WHERE r.id = $1", ratingColumns),
		id,
	)
	rating, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Rating])
	if err != nil {
		return nil, translateErr(err)
	}
	return &rating, nil
}

// Insert stores the rating and refreshes the movie's average in the same
// transaction, so the average can never be observed out of step with the
// rating set.
func (m *RatingModel) Insert(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, _ := tx.Query(
		ctx,
		`INSERT INTO ratings (id, score, comment, user_id, movie_id) VALUES ($1, $2, $3, $4, $5)
		RETURNING id, score, comment, user_id, movie_id, created_at`,
		rating.ID, rating.Score, rating.Comment, rating.UserID, rating.MovieID,
	)
	inserted, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Rating])
	if err != nil {
		return nil, translateErr(err)
	}
	if err := refreshMovieAvg(ctx, tx, inserted.MovieID); err != nil {
		return nil, translateErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &inserted, nil
}

func (m *RatingModel) Update(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rows, _ := tx.Query(
		ctx,
		`UPDATE ratings SET score = $1, comment = $2 WHERE id = $3
		RETURNING id, score, comment, user_id, movie_id, created_at`,
		rating.Score, rating.Comment, rating.ID,
	)
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Rating])
	if err != nil {
		return nil, translateErr(err)
	}
	if err := refreshMovieAvg(ctx, tx, updated.MovieID); err != nil {
		return nil, translateErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (m *RatingModel) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var movieID uuid.UUID
	err = tx.QueryRow(ctx, "DELETE FROM ratings WHERE id = $1 RETURNING movie_id", id).Scan(&movieID)
	if err != nil {
		return translateErr(err)
	}
	if err := refreshMovieAvg(ctx, tx, movieID); err != nil {
		return translateErr(err)
	}
	return tx.Commit(ctx)
}

func (m *RatingModel) List(ctx context.Context, rf filters.RatingFilters, f filters.Filters) ([]models.Rating, int, error) {
	where := make([]string, 0, 7)
	args := make([]any, 0, 7)
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if rf.MovieID != nil {
		where = append(where, fmt.Sprintf("r.movie_id = %s", arg(*rf.MovieID)))
	}
	if rf.UserID != nil {
		where = append(where, fmt.Sprintf("r.user_id = %s", arg(*rf.UserID)))
	}
	if rf.ScoreMin != nil {
		where = append(where, fmt.Sprintf("r.score >= %s", arg(*rf.ScoreMin)))
	}
	if rf.ScoreMax != nil {
		where = append(where, fmt.Sprintf("r.score <= %s", arg(*rf.ScoreMax)))
	}
	if rf.From != nil {
		where = append(where, fmt.Sprintf("r.created_at >= %s", arg(*rf.From)))
	}
	if rf.To != nil {
		where = append(where, fmt.Sprintf("r.created_at <= %s", arg(*rf.To)))
	}
	if rf.HasComment != nil {
		if *rf.HasComment {
			where = append(where, "r.comment <> ''")
		} else {
			where = append(where, "r.comment = ''")
		}
	}

	query := fmt.Sprintf("SELECT count(*) OVER(), %s FROM ratings r", ratingColumns)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(
		" ORDER BY %s, r.id ASC LIMIT %s OFFSET %s",
		f.OrderBy(ratingSortColumns, "r.created_at DESC"),
		arg(f.Limit()), arg(f.Offset()),
	)

	rows, _ := m.DB.Query(ctx, query, args...)
	type row struct {
		Count int
		models.Rating
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, translateErr(err)
	}
	if len(outputRows) == 0 {
		return []models.Rating{}, 0, nil
	}
	ratings := make([]models.Rating, 0, len(outputRows))
	for _, r := range outputRows {
		ratings = append(ratings, r.Rating)
	}
	return ratings, outputRows[0].Count, nil
}

// ListByMovie returns a movie's ratings flattened with rater names, newest
// first.
func (m *RatingModel) ListByMovie(ctx context.Context, movieID uuid.UUID) ([]models.RatingSummary, error) {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT r.id, r.score, r.comment, u.name AS user_name, r.created_at
		FROM ratings r
		JOIN users u ON u.id = r.user_id
		WHERE r.movie_id = $1
		ORDER BY r.created_at DESC`,
		movieID,
	)
	summaries, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.RatingSummary])
	if err != nil {
		return nil, translateErr(err)
	}
	return summaries, nil
}

// refreshMovieAvg recomputes the full mean over the movie's current ratings.
// Zero when none remain, matching the published average of a movie whose
// last rating was removed.
func refreshMovieAvg(ctx context.Context, tx pgx.Tx, movieID uuid.UUID) error {
	_, err := tx.Exec(
		ctx,
		`UPDATE movies
		SET avg_rating = (SELECT COALESCE(AVG(score)::float8, 0) FROM ratings WHERE movie_id = $1)
		WHERE id = $1`,
		movieID,
	)
	return err
}
