package genres

import (
	"context"
	"errors"
	"log/slog"

	"cinefinder/proj/internal/domain/filters"
	"cinefinder/proj/internal/domain/models"
	"cinefinder/proj/internal/storage"

	"github.com/google/uuid"
)

type GenresStorage interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Genre, error)
	Insert(ctx context.Context, genre *models.Genre) (*models.Genre, error)
	Update(ctx context.Context, genre *models.Genre) (*models.Genre, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, name string, f filters.Filters) ([]models.GenreInfo, int, error)
	Popular(ctx context.Context) ([]models.GenreInfo, error)
}

type GenreService struct {
	log     *slog.Logger
	storage GenresStorage
}

func New(log *slog.Logger, storage GenresStorage) *GenreService {
	return &GenreService{
		log:     log,
		storage: storage,
	}
}

func (s *GenreService) Get(ctx context.Context, id uuid.UUID) (*models.Genre, error) {
	const op = "genres.GenreService.Get"
	log := s.log.With("op", op, "id", id)
	genre, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("genre not found")
			return nil, ErrGenreNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return genre, nil
}

func (s *GenreService) Create(ctx context.Context, genre *models.Genre) (*models.Genre, error) {
	const op = "genres.GenreService.Create"
	log := s.log.With("op", op, "name", genre.Name, "tmdbID", genre.TmdbID)
	genre.ID = uuid.New()
	created, err := s.storage.Insert(ctx, genre)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("genre already exists")
			return nil, ErrGenreAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return created, nil
}

// Update patches the genre. Nil fields are left untouched, a pointer to an
// empty description clears it.
func (s *GenreService) Update(ctx context.Context, id uuid.UUID, tmdbID *int, name, description *string) (*models.Genre, error) {
	const op = "genres.GenreService.Update"
	log := s.log.With("op", op, "id", id)
	genre, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if tmdbID != nil {
		genre.TmdbID = *tmdbID
	}
	if name != nil {
		genre.Name = *name
	}
	if description != nil {
		genre.Description = *description
	}
	updated, err := s.storage.Update(ctx, genre)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("genre already exists")
			return nil, ErrGenreAlreadyExists
		} else if errors.Is(err, storage.ErrNotFound) {
			log.Info("genre not found")
			return nil, ErrGenreNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *GenreService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "genres.GenreService.Delete"
	log := s.log.With("op", op, "id", id)
	if err := s.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("genre not found")
			return ErrGenreNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *GenreService) Search(ctx context.Context, name string, f filters.Filters) ([]models.GenreInfo, filters.Metadata, error) {
	const op = "genres.GenreService.Search"
	log := s.log.With("op", op, "name", name)
	genres, total, err := s.storage.List(ctx, name, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return genres, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}

func (s *GenreService) Popular(ctx context.Context) ([]models.GenreInfo, error) {
	const op = "genres.GenreService.Popular"
	log := s.log.With("op", op)
	genres, err := s.storage.Popular(ctx)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return genres, nil
}
