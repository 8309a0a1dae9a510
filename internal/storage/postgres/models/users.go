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

type UserModel struct {
	DB *pgxpool.Pool
}

const userColumns = "u.id, u.name, u.email, u.password_hash, u.created_at, u.updated_at"

var userSortColumns = map[filters.SortKey]string{
	filters.SortName:      "u.name",
	filters.SortEmail:     "u.email",
	filters.SortCreatedAt: "u.created_at",
}

func (m *UserModel) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf("SELECT %s FROM users u WHERE u.id = $1", userColumns),
		id,
	)
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (m *UserModel) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf("SELECT %s FROM users u WHERE u.email = $1", userColumns),
		email,
	)
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (m *UserModel) Insert(ctx context.Context, user *models.User) (*models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		`INSERT INTO users (id, name, email, password_hash) VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, password_hash, created_at, updated_at`,
		user.ID, user.Name, user.Email, user.PasswordHash,
	)
	inserted, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, translateErr(err)
	}
	return &inserted, nil
}

func (m *UserModel) Update(ctx context.Context, user *models.User) (*models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		`UPDATE users SET name = $1, email = $2, updated_at = now() WHERE id = $3
		RETURNING id, name, email, password_hash, created_at, updated_at`,
		user.Name, user.Email, user.ID,
	)
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		return nil, translateErr(err)
	}
	return &updated, nil
}

func (m *UserModel) Delete(ctx context.Context, id uuid.UUID) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return translateErr(err)
	}
	if status.RowsAffected() == 0 {
		return translateErr(pgx.ErrNoRows)
	}
	return nil
}

func (m *UserModel) List(ctx context.Context, uf filters.UserFilters, f filters.Filters) ([]models.User, int, error) {
	where := make([]string, 0, 4)
	args := make([]any, 0, 4)
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if n := strings.TrimSpace(uf.Name); n != "" {
		where = append(where, fmt.Sprintf("u.name ILIKE '%%' || %s || '%%'", arg(n)))
	}
	if e := strings.TrimSpace(uf.Email); e != "" {
		where = append(where, fmt.Sprintf("u.email ILIKE '%%' || %s || '%%'", arg(e)))
	}
	if uf.From != nil {
		where = append(where, fmt.Sprintf("u.created_at >= %s", arg(*uf.From)))
	}
	if uf.To != nil {
		where = append(where, fmt.Sprintf("u.created_at <= %s", arg(*uf.To)))
	}

	query := fmt.Sprintf("SELECT count(*) OVER(), %s FROM users u", userColumns)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(
		" ORDER BY %s, u.id ASC LIMIT %s OFFSET %s",
		f.OrderBy(userSortColumns, "u.name ASC"),
		arg(f.Limit()), arg(f.Offset()),
	)

	rows, _ := m.DB.Query(ctx, query, args...)
	type row struct {
		Count int
		models.User
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, translateErr(err)
	}
	if len(outputRows) == 0 {
		return []models.User{}, 0, nil
	}
	users := make([]models.User, 0, len(outputRows))
	for _, r := range outputRows {
		users = append(users, r.User)
	}
	return users, outputRows[0].Count, nil
}

// SetGenrePreference inserts or updates the preference level for a genre.
func (m *UserModel) SetGenrePreference(ctx context.Context, pref *models.GenrePreference) error {
	_, err := m.DB.Exec(
		ctx,
		`INSERT INTO user_genre_prefs (user_id, genre_id, level) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, genre_id) DO UPDATE SET level = EXCLUDED.level`,
		pref.UserID, pref.GenreID, pref.Level,
	)
	return translateErr(err)
}

func (m *UserModel) FavoriteGenres(ctx context.Context, userID uuid.UUID) ([]models.FavoriteGenre, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf(
			`SELECT %s, p.level
			FROM user_genre_prefs p
			JOIN genres g ON g.id = p.genre_id
			WHERE p.user_id = $1
			ORDER BY p.level DESC, g.name ASC`,
			genreColumns,
		),
		userID,
	)
	prefs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.FavoriteGenre])
	if err != nil {
		return nil, translateErr(err)
	}
	return prefs, nil
}
