package ratings

import (
	"context"
	"errors"
	"log/slog"

	"cinefinder/proj/internal/domain/filters"
	"cinefinder/proj/internal/domain/models"
	"cinefinder/proj/internal/storage"

	"github.com/google/uuid"
)

const (
	MinScore = 1
	MaxScore = 10
)

type RatingsStorage interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Rating, error)
	Insert(ctx context.Context, rating *models.Rating) (*models.Rating, error)
	Update(ctx context.Context, rating *models.Rating) (*models.Rating, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, rf filters.RatingFilters, f filters.Filters) ([]models.Rating, int, error)
	ListByMovie(ctx context.Context, movieID uuid.UUID) ([]models.RatingSummary, error)
}

type RatingService struct {
	log     *slog.Logger
	storage RatingsStorage
}

func New(log *slog.Logger, storage RatingsStorage) *RatingService {
	return &RatingService{
		log:     log,
		storage: storage,
	}
}

func (s *RatingService) Get(ctx context.Context, id uuid.UUID) (*models.Rating, error) {
	const op = "ratings.RatingService.Get"
	log := s.log.With("op", op, "id", id)
	rating, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("rating not found")
			return nil, ErrRatingNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return rating, nil
}

func (s *RatingService) Create(ctx context.Context, userID, movieID uuid.UUID, score int, comment string) (*models.Rating, error) {
	const op = "ratings.RatingService.Create"
	log := s.log.With("op", op, "userID", userID, "movieID", movieID, "score", score)
	if score < MinScore || score > MaxScore {
		return nil, ErrInvalidScore
	}
	rating, err := s.storage.Insert(ctx, &models.Rating{
		ID:      uuid.New(),
		Score:   score,
		Comment: comment,
		UserID:  userID,
		MovieID: movieID,
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("movie already rated by user")
			return nil, ErrAlreadyRated
		} else if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie or user not found")
			return nil, ErrMovieNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return rating, nil
}

// Update patches the caller's own rating. Nil fields are left untouched,
// a pointer to an empty comment clears it.
func (s *RatingService) Update(ctx context.Context, userID, id uuid.UUID, score *int, comment *string) (*models.Rating, error) {
	const op = "ratings.RatingService.Update"
	log := s.log.With("op", op, "userID", userID, "id", id)
	if score != nil && (*score < MinScore || *score > MaxScore) {
		return nil, ErrInvalidScore
	}
	rating, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rating.UserID != userID {
		log.Info("rating owned by another user", "ownerID", rating.UserID)
		return nil, ErrNotOwner
	}
	if score != nil {
		rating.Score = *score
	}
	if comment != nil {
		rating.Comment = *comment
	}
	updated, err := s.storage.Update(ctx, rating)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("rating not found")
			return nil, ErrRatingNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *RatingService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const op = "ratings.RatingService.Delete"
	log := s.log.With("op", op, "userID", userID, "id", id)
	rating, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if rating.UserID != userID {
		log.Info("rating owned by another user", "ownerID", rating.UserID)
		return ErrNotOwner
	}
	if err := s.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("rating not found")
			return ErrRatingNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *RatingService) Search(ctx context.Context, rf filters.RatingFilters, f filters.Filters) ([]models.Rating, filters.Metadata, error) {
	const op = "ratings.RatingService.Search"
	log := s.log.With("op", op)
	ratings, total, err := s.storage.List(ctx, rf, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return ratings, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}

func (s *RatingService) ByMovie(ctx context.Context, movieID uuid.UUID) ([]models.RatingSummary, error) {
	const op = "ratings.RatingService.ByMovie"
	log := s.log.With("op", op, "movieID", movieID)
	summaries, err := s.storage.ListByMovie(ctx, movieID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return summaries, nil
}

func (s *RatingService) ByUser(ctx context.Context, userID uuid.UUID, f filters.Filters) ([]models.Rating, filters.Metadata, error) {
	return s.Search(ctx, filters.RatingFilters{UserID: &userID}, f)
}
