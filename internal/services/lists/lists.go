package lists

import (
	"context"
	"errors"
	"log/slog"

	"cinefinder/proj/internal/domain/filters"
	"cinefinder/proj/internal/domain/models"
	"cinefinder/proj/internal/storage"

	"github.com/google/uuid"
)

type ListsStorage interface {
	Get(ctx context.Context, id uuid.UUID) (*models.List, error)
	Insert(ctx context.Context, list *models.List) (*models.List, error)
	Update(ctx context.Context, list *models.List) (*models.List, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Entries(ctx context.Context, listID uuid.UUID) ([]models.ListEntry, error)
	AddMovie(ctx context.Context, listID, movieID uuid.UUID) (int, error)
	RemoveMovie(ctx context.Context, listID, movieID uuid.UUID) error
	List(ctx context.Context, lf filters.ListFilters, f filters.Filters) ([]models.List, int, error)
}

type ListService struct {
	log     *slog.Logger
	storage ListsStorage
}

func New(log *slog.Logger, storage ListsStorage) *ListService {
	return &ListService{
		log:     log,
		storage: storage,
	}
}

// DetailedList is a list with its movies in watch order.
type DetailedList struct {
	models.List
	Movies []models.ListEntry `json:"movies"`
}

func (s *ListService) get(ctx context.Context, id uuid.UUID) (*models.List, error) {
	list, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrListNotFound
		}
		return nil, err
	}
	return list, nil
}

// getOwned loads a list and checks the caller owns it.
func (s *ListService) getOwned(ctx context.Context, userID, id uuid.UUID) (*models.List, error) {
	list, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if list.OwnerID != userID {
		return nil, ErrNotOwner
	}
	return list, nil
}

// Get returns the list when it is public or owned by the caller.
func (s *ListService) Get(ctx context.Context, userID, id uuid.UUID) (*models.List, error) {
	const op = "lists.ListService.Get"
	log := s.log.With("op", op, "id", id)
	list, err := s.get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrListNotFound) {
			log.Info("list not found")
		} else {
			log.Error(err.Error())
		}
		return nil, err
	}
	if !list.IsPublic && list.OwnerID != userID {
		log.Info("private list requested by non owner", "userID", userID)
		return nil, ErrNotOwner
	}
	return list, nil
}

func (s *ListService) GetDetailed(ctx context.Context, userID, id uuid.UUID) (*DetailedList, error) {
	const op = "lists.ListService.GetDetailed"
	log := s.log.With("op", op, "id", id)
	list, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	entries, err := s.storage.Entries(ctx, id)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return &DetailedList{List: *list, Movies: entries}, nil
}

func (s *ListService) Create(ctx context.Context, ownerID uuid.UUID, name, description string, isPublic bool) (*models.List, error) {
	const op = "lists.ListService.Create"
	log := s.log.With("op", op, "ownerID", ownerID, "name", name)
	list, err := s.storage.Insert(ctx, &models.List{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		IsPublic:    isPublic,
		OwnerID:     ownerID,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("owner not found")
			return nil, ErrOwnerNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return list, nil
}

// Update patches an owned list. Nil fields are left untouched, a pointer to
// an empty description clears it.
func (s *ListService) Update(ctx context.Context, userID, id uuid.UUID, name, description *string, isPublic *bool) (*models.List, error) {
	const op = "lists.ListService.Update"
	log := s.log.With("op", op, "userID", userID, "id", id)
	list, err := s.getOwned(ctx, userID, id)
	if err != nil {
		log.Info(err.Error())
		return nil, err
	}
	if name != nil {
		list.Name = *name
	}
	if description != nil {
		list.Description = *description
	}
	if isPublic != nil {
		list.IsPublic = *isPublic
	}
	updated, err := s.storage.Update(ctx, list)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("list not found")
			return nil, ErrListNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *ListService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const op = "lists.ListService.Delete"
	log := s.log.With("op", op, "userID", userID, "id", id)
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		log.Info(err.Error())
		return err
	}
	if err := s.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrListNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

// AddMovie appends the movie to the end of an owned list and returns its
// position.
func (s *ListService) AddMovie(ctx context.Context, userID, listID, movieID uuid.UUID) (int, error) {
	const op = "lists.ListService.AddMovie"
	log := s.log.With("op", op, "userID", userID, "listID", listID, "movieID", movieID)
	if _, err := s.getOwned(ctx, userID, listID); err != nil {
		log.Info(err.Error())
		return 0, err
	}
	position, err := s.storage.AddMovie(ctx, listID, movieID)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("movie already in list")
			return 0, ErrMovieAlreadyInList
		} else if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not found")
			return 0, ErrMovieNotFound
		}
		log.Error(err.Error())
		return 0, err
	}
	return position, nil
}

func (s *ListService) RemoveMovie(ctx context.Context, userID, listID, movieID uuid.UUID) error {
	const op = "lists.ListService.RemoveMovie"
	log := s.log.With("op", op, "userID", userID, "listID", listID, "movieID", movieID)
	if _, err := s.getOwned(ctx, userID, listID); err != nil {
		log.Info(err.Error())
		return err
	}
	if err := s.storage.RemoveMovie(ctx, listID, movieID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("movie not in list")
			return ErrMovieNotInList
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *ListService) Search(ctx context.Context, lf filters.ListFilters, f filters.Filters) ([]models.List, filters.Metadata, error) {
	const op = "lists.ListService.Search"
	log := s.log.With("op", op)
	lists, total, err := s.storage.List(ctx, lf, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return lists, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}

func (s *ListService) Public(ctx context.Context, f filters.Filters) ([]models.List, filters.Metadata, error) {
	public := true
	return s.Search(ctx, filters.ListFilters{IsPublic: &public}, f)
}

// ByUser returns the lists a user owns. Callers other than the owner only
// see the public ones.
func (s *ListService) ByUser(ctx context.Context, callerID, ownerID uuid.UUID, f filters.Filters) ([]models.List, filters.Metadata, error) {
	lf := filters.ListFilters{OwnerID: &ownerID}
	if callerID != ownerID {
		public := true
		lf.IsPublic = &public
	}
	return s.Search(ctx, lf, f)
}
