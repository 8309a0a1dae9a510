package main

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"cinefinder/proj/internal/config"
	"cinefinder/proj/internal/domain/filters"
	"cinefinder/proj/internal/domain/models"
	"cinefinder/proj/internal/services"
	"cinefinder/proj/internal/services/users"
	"cinefinder/proj/internal/storage"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// fakeUsersStorage backs the users service in handler and middleware tests.
type fakeUsersStorage struct {
	users map[uuid.UUID]*models.User
}

func (s *fakeUsersStorage) Get(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return u, nil
}

func (s *fakeUsersStorage) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeUsersStorage) Insert(_ context.Context, user *models.User) (*models.User, error) {
	if _, ok := s.users[user.ID]; ok {
		return nil, storage.ErrConflict
	}
	cp := *user
	s.users[cp.ID] = &cp
	return &cp, nil
}

func (s *fakeUsersStorage) Update(_ context.Context, user *models.User) (*models.User, error) {
	s.users[user.ID] = user
	return user, nil
}

func (s *fakeUsersStorage) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.users, id)
	return nil
}

func (s *fakeUsersStorage) List(_ context.Context, uf filters.UserFilters, f filters.Filters) ([]models.User, int, error) {
	return nil, 0, nil
}

func (s *fakeUsersStorage) SetGenrePreference(_ context.Context, pref *models.GenrePreference) error {
	return nil
}

func (s *fakeUsersStorage) FavoriteGenres(_ context.Context, userID uuid.UUID) ([]models.FavoriteGenre, error) {
	return nil, nil
}

type noopMailer struct{}

func (noopMailer) Send(recipient string, tmplName string, tmplData any) error { return nil }

type noopExecutor struct{}

func (noopExecutor) Add(task func()) {}

func NewTestApplication(t *testing.T) (*Application, *fakeUsersStorage) {
	t.Helper()
	cfg := &config.Config{}
	log := slog.Default()
	usersStorage := &fakeUsersStorage{users: make(map[uuid.UUID]*models.User)}
	app := &Application{
		cfg: cfg,
		log: log,
		services: &services.Services{
			Users: users.New(log, usersStorage, noopMailer{}, noopExecutor{}, "test-secret", time.Hour),
		},
		validator:    govalidator.New(govalidator.WithRequiredStructEnabled()),
		queryDecoder: newQueryDecoder(),
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
	return app, usersStorage
}
