package movies

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cinefinder/proj/internal/domain/fields"
	"cinefinder/proj/internal/domain/filters"
	"cinefinder/proj/internal/domain/models"
	"cinefinder/proj/internal/storage"

	"github.com/google/uuid"
)

const (
	DefaultTopCount = 10
	MaxTopCount     = 50
)

type MoviesStorage interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Movie, error)
	Insert(ctx context.Context, movie *models.Movie, genreIDs []uuid.UUID) (*models.Movie, error)
	Update(ctx context.Context, movie *models.Movie, genreIDs []uuid.UUID) (*models.Movie, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, mf filters.MovieFilters, f filters.Filters) ([]models.Movie, int, error)
	TopRated(ctx context.Context, n int) ([]models.Movie, error)
	ByGenre(ctx context.Context, genreID uuid.UUID) ([]models.Movie, error)
	Genres(ctx context.Context, movieID uuid.UUID) ([]models.Genre, error)
}

type RatingsProvider interface {
	ListByMovie(ctx context.Context, movieID uuid.UUID) ([]models.RatingSummary, error)
}

type MovieService struct {
	log     *slog.Logger
	storage MoviesStorage
	ratings RatingsProvider
}

func New(log *slog.Logger, storage MoviesStorage, ratings RatingsProvider) *MovieService {
	return &MovieService{
		log:     log,
		storage: storage,
		ratings: ratings,
	}
}

// DetailedMovie is a movie together with its genres and rating activity.
type DetailedMovie struct {
	models.Movie
	Genres       []models.Genre         `json:"genres"`
	Ratings      []models.RatingSummary `json:"ratings"`
	RatingsCount int                    `json:"ratingsCount"`
}

// UpdateMovieInput carries a partial movie update. Nil fields stay untouched;
// a nil GenreIDs keeps the current genre set, an empty one clears it.
type UpdateMovieInput struct {
	TmdbID      *int
	Title       *string
	Description *string
	ReleaseDate *time.Time
	PosterURL   *string
	TrailerURL  *string
	Director    *string
	Duration    *fields.MovieDuration
	GenreIDs    []uuid.UUID
}

func (s *MovieService) Get(ctx context.Context, id uuid.UUID) (*models.Movie, error) {
	const op = "movies.MovieService.Get"
	log := s.log.With("op", op, "id", id)
	movie, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return movie, nil
}

func (s *MovieService) GetDetailed(ctx context.Context, id uuid.UUID) (*DetailedMovie, error) {
	const op = "movies.MovieService.GetDetailed"
	log := s.log.With("op", op, "id", id)
	movie, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	genres, err := s.storage.Genres(ctx, id)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	ratings, err := s.ratings.ListByMovie(ctx, id)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return &DetailedMovie{
		Movie:        *movie,
		Genres:       genres,
		Ratings:      ratings,
		RatingsCount: len(ratings),
	}, nil
}

func (s *MovieService) Create(ctx context.Context, movie *models.Movie, genreIDs []uuid.UUID) (*models.Movie, error) {
	const op = "movies.MovieService.Create"
	log := s.log.With("op", op, "title", movie.Title, "tmdbID", movie.TmdbID)
	movie.ID = uuid.New()
	created, err := s.storage.Insert(ctx, movie, genreIDs)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("movie already exists")
			return nil, ErrMovieAlreadyExists
		} else if errors.Is(err, storage.ErrNotFound) {
			log.Info("unknown genre id")
			return nil, ErrGenreNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return created, nil
}

func (s *MovieService) Update(ctx context.Context, id uuid.UUID, input UpdateMovieInput) (*models.Movie, error) {
	const op = "movies.MovieService.Update"
	log := s.log.With("op", op, "id", id)
	movie, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.TmdbID != nil {
		movie.TmdbID = *input.TmdbID
	}
	if input.Title != nil {
		movie.Title = *input.Title
	}
	if input.Description != nil {
		movie.Description = *input.Description
	}
	if input.ReleaseDate != nil {
		movie.ReleaseDate = input.ReleaseDate
	}
	if input.PosterURL != nil {
		movie.PosterURL = *input.PosterURL
	}
	if input.TrailerURL != nil {
		movie.TrailerURL = *input.TrailerURL
	}
	if input.Director != nil {
		movie.Director = *input.Director
	}
	if input.Duration != nil {
		movie.Duration = input.Duration
	}
	updated, err := s.storage.Update(ctx, movie, input.GenreIDs)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("tmdb id taken by another movie")
			return nil, ErrMovieAlreadyExists
		} else if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie or genre not found")
			return nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *MovieService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "movies.MovieService.Delete"
	log := s.log.With("op", op, "id", id)
	if err := s.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return ErrMovieNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *MovieService) Search(ctx context.Context, mf filters.MovieFilters, f filters.Filters) ([]models.Movie, filters.Metadata, error) {
	const op = "movies.MovieService.Search"
	log := s.log.With("op", op)
	movies, total, err := s.storage.List(ctx, mf, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return movies, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}

func (s *MovieService) TopRated(ctx context.Context, n int) ([]models.Movie, error) {
	const op = "movies.MovieService.TopRated"
	log := s.log.With("op", op, "n", n)
	if n < 1 {
		n = DefaultTopCount
	}
	if n > MaxTopCount {
		n = MaxTopCount
	}
	movies, err := s.storage.TopRated(ctx, n)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return movies, nil
}

func (s *MovieService) ByGenre(ctx context.Context, genreID uuid.UUID) ([]models.Movie, error) {
	const op = "movies.MovieService.ByGenre"
	log := s.log.With("op", op, "genreID", genreID)
	movies, err := s.storage.ByGenre(ctx, genreID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return movies, nil
}
