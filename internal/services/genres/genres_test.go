package genres

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"cinefinder/proj/internal/domain/filters"
	"cinefinder/proj/internal/domain/models"
	"cinefinder/proj/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenreStorage struct {
	genres map[uuid.UUID]*models.Genre
}

func newFakeGenreStorage() *fakeGenreStorage {
	return &fakeGenreStorage{genres: make(map[uuid.UUID]*models.Genre)}
}

func (s *fakeGenreStorage) Get(_ context.Context, id uuid.UUID) (*models.Genre, error) {
	g, ok := s.genres[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (s *fakeGenreStorage) Insert(_ context.Context, genre *models.Genre) (*models.Genre, error) {
	for _, existing := range s.genres {
		if existing.TmdbID == genre.TmdbID || existing.Name == genre.Name {
			return nil, storage.ErrConflict
		}
	}
	if _, ok := s.genres[genre.ID]; ok {
		return nil, storage.ErrConflict
	}
	cp := *genre
	cp.CreatedAt = time.Now()
	s.genres[cp.ID] = &cp
	return &cp, nil
}

func (s *fakeGenreStorage) Update(_ context.Context, genre *models.Genre) (*models.Genre, error) {
	if _, ok := s.genres[genre.ID]; !ok {
		return nil, storage.ErrNotFound
	}
	for _, existing := range s.genres {
		if existing.ID != genre.ID && (existing.TmdbID == genre.TmdbID || existing.Name == genre.Name) {
			return nil, storage.ErrConflict
		}
	}
	cp := *genre
	s.genres[cp.ID] = &cp
	return &cp, nil
}

func (s *fakeGenreStorage) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.genres[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.genres, id)
	return nil
}

func (s *fakeGenreStorage) List(_ context.Context, name string, f filters.Filters) ([]models.GenreInfo, int, error) {
	var out []models.GenreInfo
	for _, g := range s.genres {
		out = append(out, models.GenreInfo{Genre: *g})
	}
	return out, len(out), nil
}

func (s *fakeGenreStorage) Popular(_ context.Context) ([]models.GenreInfo, error) {
	return nil, nil
}

func TestCreateAssignsID(t *testing.T) {
	svc := New(slog.Default(), newFakeGenreStorage())
	ctx := context.Background()

	scifi, err := svc.Create(ctx, &models.Genre{TmdbID: 878, Name: "Science Fiction"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, scifi.ID)

	drama, err := svc.Create(ctx, &models.Genre{TmdbID: 18, Name: "Drama"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, drama.ID)
	assert.NotEqual(t, scifi.ID, drama.ID)
}

func TestCreateDuplicate(t *testing.T) {
	svc := New(slog.Default(), newFakeGenreStorage())
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.Genre{TmdbID: 878, Name: "Science Fiction"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &models.Genre{TmdbID: 878, Name: "Sci-Fi"})
	assert.ErrorIs(t, err, ErrGenreAlreadyExists)
}

func TestUpdatePatchesOnlyGivenFields(t *testing.T) {
	svc := New(slog.Default(), newFakeGenreStorage())
	ctx := context.Background()

	genre, err := svc.Create(ctx, &models.Genre{TmdbID: 878, Name: "Science Fiction", Description: "space"})
	require.NoError(t, err)

	name := "Sci-Fi"
	updated, err := svc.Update(ctx, genre.ID, nil, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "Sci-Fi", updated.Name)
	assert.Equal(t, 878, updated.TmdbID)
	assert.Equal(t, "space", updated.Description)
}

func TestUpdateClearsDescription(t *testing.T) {
	svc := New(slog.Default(), newFakeGenreStorage())
	ctx := context.Background()

	genre, err := svc.Create(ctx, &models.Genre{TmdbID: 878, Name: "Science Fiction", Description: "space"})
	require.NoError(t, err)

	empty := ""
	updated, err := svc.Update(ctx, genre.ID, nil, nil, &empty)
	require.NoError(t, err)
	assert.Empty(t, updated.Description)
	assert.Equal(t, "Science Fiction", updated.Name)
}

func TestGetNotFound(t *testing.T) {
	svc := New(slog.Default(), newFakeGenreStorage())
	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrGenreNotFound)
}

func TestDeleteNotFound(t *testing.T) {
	svc := New(slog.Default(), newFakeGenreStorage())
	err := svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrGenreNotFound)
}
