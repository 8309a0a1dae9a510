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

type ListModel struct {
	DB *pgxpool.Pool
}

const listColumns = "l.id, l.name, l.description, l.is_public, l.owner_id, l.created_at, l.updated_at"

var listSortColumns = map[filters.SortKey]string{
	filters.SortName:      "l.name",
	filters.SortCreatedAt: "l.created_at",
}

func (m *ListModel) Get(ctx context.Context, id uuid.UUID) (*models.List, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf("SELECT %s FROM lists l WHERE l.id = $1", listColumns),
		id,
	)
	list, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.List])
	if err != nil {
		return nil, translateErr(err)
	}
	return &list, nil
}

func (m *ListModel) Insert(ctx context.Context, list *models.List) (*models.List, error) {
	rows, _ := m.DB.Query(
		ctx,
		`INSERT INTO lists (id, name, description, is_public, owner_id) VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, description, is_public, owner_id, created_at, updated_at`,
		list.ID, list.Name, list.Description, list.IsPublic, list.OwnerID,
	)
	inserted, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.List])
	if err != nil {
		return nil, translateErr(err)
	}
	return &inserted, nil
}

func (m *ListModel) Update(ctx context.Context, list *models.List) (*models.List, error) {
	rows, _ := m.DB.Query(
		ctx,
		`UPDATE lists SET name = $1, description = $2, is_public = $3, updated_at = now()
		WHERE id = $4
		RETURNING id, name, description, is_public, owner_id, created_at, updated_at`,
		list.Name, list.Description, list.IsPublic, list.ID,
	)
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.List])
	if err != nil {
		return nil, translateErr(err)
	}
	return &updated, nil
}

func (m *ListModel) Delete(ctx context.Context, id uuid.UUID) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM lists WHERE id = $1", id)
	if err != nil {
		return translateErr(err)
	}
	if status.RowsAffected() == 0 {
		return translateErr(pgx.ErrNoRows)
	}
	return nil
}

// Entries returns a list's movies in membership order.
func (m *ListModel) Entries(ctx context.Context, listID uuid.UUID) ([]models.ListEntry, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf(
			`SELECT %s, lm.position, lm.added_at
			FROM list_movies lm
			JOIN movies m ON m.id = lm.movie_id
			WHERE lm.list_id = $1
			ORDER BY lm.position ASC`,
			movieColumns,
		),
		listID,
	)
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ListEntry])
	if err != nil {
		return nil, translateErr(err)
	}
	return entries, nil
}

// AddMovie appends the movie at max(position)+1, starting from 1 on an empty
// list. The membership primary key turns a duplicate add into ErrConflict.
func (m *ListModel) AddMovie(ctx context.Context, listID, movieID uuid.UUID) (int, error) {
	var position int
	err := m.DB.QueryRow(
		ctx,
		`INSERT INTO list_movies (list_id, movie_id, position)
		SELECT $1, $2, COALESCE(MAX(position), 0) + 1 FROM list_movies WHERE list_id = $1
		RETURNING position`,
		listID, movieID,
	).Scan(&position)
	if err != nil {
		return 0, translateErr(err)
	}
	return position, nil
}

// RemoveMovie deletes the membership row and renumbers the remainder to a
// dense 1-based sequence, preserving relative order, in one transaction.
func (m *ListModel) RemoveMovie(ctx context.Context, listID, movieID uuid.UUID) error {
	tx, err := m.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	status, err := tx.Exec(
		ctx,
		"DELETE FROM list_movies WHERE list_id = $1 AND movie_id = $2",
		listID, movieID,
	)
	if err != nil {
		return translateErr(err)
	}
	if status.RowsAffected() == 0 {
		return translateErr(pgx.ErrNoRows)
	}
	_, err = tx.Exec(
		ctx,
		`UPDATE list_movies lm SET position = t.rn
		FROM (
			SELECT movie_id, row_number() OVER (ORDER BY position ASC) AS rn
			FROM list_movies WHERE list_id = $1
		) t
		WHERE lm.list_id = $1 AND lm.movie_id = t.movie_id`,
		listID,
	)
	if err != nil {
		return translateErr(err)
	}
	return tx.Commit(ctx)
}

func (m *ListModel) List(ctx context.Context, lf filters.ListFilters, f filters.Filters) ([]models.List, int, error) {
	where := make([]string, 0, 5)
	args := make([]any, 0, 5)
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if lf.OwnerID != nil {
		where = append(where, fmt.Sprintf("l.owner_id = %s", arg(*lf.OwnerID)))
	}
	if lf.IsPublic != nil {
		where = append(where, fmt.Sprintf("l.is_public = %s", arg(*lf.IsPublic)))
	}
	if n := strings.TrimSpace(lf.Name); n != "" {
		where = append(where, fmt.Sprintf("l.name ILIKE '%%' || %s || '%%'", arg(n)))
	}
	if lf.From != nil {
		where = append(where, fmt.Sprintf("l.created_at >= %s", arg(*lf.From)))
	}
	if lf.To != nil {
		where = append(where, fmt.Sprintf("l.created_at <= %s", arg(*lf.To)))
	}

	query := fmt.Sprintf("SELECT count(*) OVER(), %s FROM lists l", listColumns)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(
		" ORDER BY %s, l.id ASC LIMIT %s OFFSET %s",
		f.OrderBy(listSortColumns, "l.created_at DESC"),
		arg(f.Limit()), arg(f.Offset()),
	)

	rows, _ := m.DB.Query(ctx, query, args...)
	type row struct {
		Count int
		models.List
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, translateErr(err)
	}
	if len(outputRows) == 0 {
		return []models.List{}, 0, nil
	}
	lists := make([]models.List, 0, len(outputRows))
	for _, r := range outputRows {
		lists = append(lists, r.List)
	}
	return lists, outputRows[0].Count, nil
}
