package ratings

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

// fakeRatingStorage keeps ratings in memory and recomputes the movie average
// on every write, like the real storage does inside its transactions.
type fakeRatingStorage struct {
	ratings map[uuid.UUID]*models.Rating
	movies  map[uuid.UUID]bool
	avgs    map[uuid.UUID]float64
}

func newFakeRatingStorage(movieIDs ...uuid.UUID) *fakeRatingStorage {
	s := &fakeRatingStorage{
		ratings: make(map[uuid.UUID]*models.Rating),
		movies:  make(map[uuid.UUID]bool),
		avgs:    make(map[uuid.UUID]float64),
	}
	for _, id := range movieIDs {
		s.movies[id] = true
	}
	return s
}

func (s *fakeRatingStorage) recompute(movieID uuid.UUID) {
	sum, n := 0, 0
	for _, r := range s.ratings {
		if r.MovieID == movieID {
			sum += r.Score
			n++
		}
	}
	if n == 0 {
		s.avgs[movieID] = 0
		return
	}
	s.avgs[movieID] = float64(sum) / float64(n)
}

func (s *fakeRatingStorage) Get(_ context.Context, id uuid.UUID) (*models.Rating, error) {
	r, ok := s.ratings[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *fakeRatingStorage) Insert(_ context.Context, rating *models.Rating) (*models.Rating, error) {
	if !s.movies[rating.MovieID] {
		return nil, storage.ErrNotFound
	}
	for _, existing := range s.ratings {
		if existing.UserID == rating.UserID && existing.MovieID == rating.MovieID {
			return nil, storage.ErrConflict
		}
	}
	if _, ok := s.ratings[rating.ID]; ok {
		return nil, storage.ErrConflict
	}
	cp := *rating
	cp.CreatedAt = time.Now()
	s.ratings[cp.ID] = &cp
	s.recompute(cp.MovieID)
	return &cp, nil
}

func (s *fakeRatingStorage) Update(_ context.Context, rating *models.Rating) (*models.Rating, error) {
	if _, ok := s.ratings[rating.ID]; !ok {
		return nil, storage.ErrNotFound
	}
	cp := *rating
	s.ratings[cp.ID] = &cp
	s.recompute(cp.MovieID)
	return &cp, nil
}

func (s *fakeRatingStorage) Delete(_ context.Context, id uuid.UUID) error {
	r, ok := s.ratings[id]
	if !ok {
		return storage.ErrNotFound
	}
	delete(s.ratings, id)
	s.recompute(r.MovieID)
	return nil
}

func (s *fakeRatingStorage) List(_ context.Context, rf filters.RatingFilters, f filters.Filters) ([]models.Rating, int, error) {
	var out []models.Rating
	for _, r := range s.ratings {
		if rf.UserID != nil && r.UserID != *rf.UserID {
			continue
		}
		if rf.MovieID != nil && r.MovieID != *rf.MovieID {
			continue
		}
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (s *fakeRatingStorage) ListByMovie(_ context.Context, movieID uuid.UUID) ([]models.RatingSummary, error) {
	var out []models.RatingSummary
	for _, r := range s.ratings {
		if r.MovieID == movieID {
			out = append(out, models.RatingSummary{ID: r.ID, Score: r.Score, Comment: r.Comment, CreatedAt: r.CreatedAt})
		}
	}
	return out, nil
}

func TestAverageFollowsEveryWrite(t *testing.T) {
	movieID := uuid.New()
	fake := newFakeRatingStorage(movieID)
	svc := New(slog.Default(), fake)
	ctx := context.Background()

	alice, bob := uuid.New(), uuid.New()
	_, err := svc.Create(ctx, alice, movieID, 8, "loved it")
	require.NoError(t, err)
	bobsRating, err := svc.Create(ctx, bob, movieID, 6, "")
	require.NoError(t, err)
	assert.Equal(t, 7.0, fake.avgs[movieID])

	err = svc.Delete(ctx, bob, bobsRating.ID)
	require.NoError(t, err)
	assert.Equal(t, 8.0, fake.avgs[movieID])
}

func TestAverageIsZeroAfterLastRatingRemoved(t *testing.T) {
	movieID := uuid.New()
	fake := newFakeRatingStorage(movieID)
	svc := New(slog.Default(), fake)
	ctx := context.Background()

	userID := uuid.New()
	rating, err := svc.Create(ctx, userID, movieID, 9, "")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, userID, rating.ID))
	assert.Equal(t, 0.0, fake.avgs[movieID])
}

func TestCreateAssignsID(t *testing.T) {
	movieID := uuid.New()
	svc := New(slog.Default(), newFakeRatingStorage(movieID))
	ctx := context.Background()

	first, err := svc.Create(ctx, uuid.New(), movieID, 8, "")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.ID)

	second, err := svc.Create(ctx, uuid.New(), movieID, 6, "")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, second.ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateDuplicatePair(t *testing.T) {
	movieID := uuid.New()
	svc := New(slog.Default(), newFakeRatingStorage(movieID))
	ctx := context.Background()

	userID := uuid.New()
	_, err := svc.Create(ctx, userID, movieID, 8, "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, userID, movieID, 5, "changed my mind")
	assert.ErrorIs(t, err, ErrAlreadyRated)
}

func TestCreateScoreOutOfRange(t *testing.T) {
	movieID := uuid.New()
	svc := New(slog.Default(), newFakeRatingStorage(movieID))
	ctx := context.Background()

	for _, score := range []int{0, -1, 11} {
		_, err := svc.Create(ctx, uuid.New(), movieID, score, "")
		assert.ErrorIs(t, err, ErrInvalidScore, "score %d", score)
	}
}

func TestCreateUnknownMovie(t *testing.T) {
	svc := New(slog.Default(), newFakeRatingStorage())
	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), 7, "")
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestUpdateByNonOwner(t *testing.T) {
	movieID := uuid.New()
	svc := New(slog.Default(), newFakeRatingStorage(movieID))
	ctx := context.Background()

	owner := uuid.New()
	rating, err := svc.Create(ctx, owner, movieID, 8, "")
	require.NoError(t, err)

	score := 3
	_, err = svc.Update(ctx, uuid.New(), rating.ID, &score, nil)
	assert.ErrorIs(t, err, ErrNotOwner)
	err = svc.Delete(ctx, uuid.New(), rating.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestUpdatePartial(t *testing.T) {
	movieID := uuid.New()
	fake := newFakeRatingStorage(movieID)
	svc := New(slog.Default(), fake)
	ctx := context.Background()

	userID := uuid.New()
	rating, err := svc.Create(ctx, userID, movieID, 8, "solid")
	require.NoError(t, err)

	comment := "actually great"
	updated, err := svc.Update(ctx, userID, rating.ID, nil, &comment)
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Score)
	assert.Equal(t, "actually great", updated.Comment)

	score := 10
	updated, err = svc.Update(ctx, userID, rating.ID, &score, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Score)
	assert.Equal(t, "actually great", updated.Comment)
	assert.Equal(t, 10.0, fake.avgs[movieID])
}

func TestUpdateClearsComment(t *testing.T) {
	movieID := uuid.New()
	svc := New(slog.Default(), newFakeRatingStorage(movieID))
	ctx := context.Background()

	userID := uuid.New()
	rating, err := svc.Create(ctx, userID, movieID, 8, "solid")
	require.NoError(t, err)

	empty := ""
	updated, err := svc.Update(ctx, userID, rating.ID, nil, &empty)
	require.NoError(t, err)
	assert.Empty(t, updated.Comment)
	assert.Equal(t, 8, updated.Score)
}

func TestUpdateScoreOutOfRange(t *testing.T) {
	movieID := uuid.New()
	svc := New(slog.Default(), newFakeRatingStorage(movieID))
	ctx := context.Background()

	userID := uuid.New()
	rating, err := svc.Create(ctx, userID, movieID, 8, "")
	require.NoError(t, err)

	for _, score := range []int{0, -1, 11} {
		_, err := svc.Update(ctx, userID, rating.ID, &score, nil)
		assert.ErrorIs(t, err, ErrInvalidScore, "score %d", score)
	}
}

func TestGetNotFound(t *testing.T) {
	svc := New(slog.Default(), newFakeRatingStorage())
	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrRatingNotFound)
}
