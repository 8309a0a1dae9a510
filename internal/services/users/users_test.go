package users

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
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStorage struct {
	users  map[uuid.UUID]*models.User
	prefs  map[uuid.UUID][]models.GenrePreference
	genres map[uuid.UUID]bool
}

func newFakeUserStorage(genreIDs ...uuid.UUID) *fakeUserStorage {
	s := &fakeUserStorage{
		users:  make(map[uuid.UUID]*models.User),
		prefs:  make(map[uuid.UUID][]models.GenrePreference),
		genres: make(map[uuid.UUID]bool),
	}
	for _, id := range genreIDs {
		s.genres[id] = true
	}
	return s
}

func (s *fakeUserStorage) Get(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStorage) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeUserStorage) Insert(_ context.Context, user *models.User) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, storage.ErrConflict
		}
	}
	if _, ok := s.users[user.ID]; ok {
		return nil, storage.ErrConflict
	}
	cp := *user
	cp.CreatedAt = time.Now()
	s.users[cp.ID] = &cp
	return &cp, nil
}

func (s *fakeUserStorage) Update(_ context.Context, user *models.User) (*models.User, error) {
	if _, ok := s.users[user.ID]; !ok {
		return nil, storage.ErrNotFound
	}
	for _, u := range s.users {
		if u.Email == user.Email && u.ID != user.ID {
			return nil, storage.ErrConflict
		}
	}
	cp := *user
	s.users[cp.ID] = &cp
	return &cp, nil
}

func (s *fakeUserStorage) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *fakeUserStorage) List(_ context.Context, uf filters.UserFilters, f filters.Filters) ([]models.User, int, error) {
	var out []models.User
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (s *fakeUserStorage) SetGenrePreference(_ context.Context, pref *models.GenrePreference) error {
	if !s.genres[pref.GenreID] {
		return storage.ErrNotFound
	}
	for i, existing := range s.prefs[pref.UserID] {
		if existing.GenreID == pref.GenreID {
			s.prefs[pref.UserID][i].Level = pref.Level
			return nil
		}
	}
	s.prefs[pref.UserID] = append(s.prefs[pref.UserID], *pref)
	return nil
}

func (s *fakeUserStorage) FavoriteGenres(_ context.Context, userID uuid.UUID) ([]models.FavoriteGenre, error) {
	var out []models.FavoriteGenre
	for _, pref := range s.prefs[userID] {
		fav := models.FavoriteGenre{Level: pref.Level}
		fav.ID = pref.GenreID
		out = append(out, fav)
	}
	return out, nil
}

type fakeMailer struct {
	sent []string
}

func (m *fakeMailer) Send(recipient string, tmplName string, tmplData any) error {
	m.sent = append(m.sent, recipient)
	return nil
}

// inlineExecutor runs tasks synchronously so tests can assert right away.
type inlineExecutor struct{}

func (inlineExecutor) Add(task func()) { task() }

func newTestService(fake *fakeUserStorage, mailer *fakeMailer) *UserService {
	return New(slog.Default(), fake, mailer, inlineExecutor{}, "test-secret", time.Hour)
}

func TestRegisterHashesPasswordAndSendsWelcome(t *testing.T) {
	fake := newFakeUserStorage()
	mailer := &fakeMailer{}
	svc := newTestService(fake, mailer)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cretpass", string(user.PasswordHash))
	assert.NoError(t, bcrypt.CompareHashAndPassword(user.PasswordHash, []byte("s3cretpass")))
	assert.Equal(t, []string{"alice@example.com"}, mailer.sent)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(newFakeUserStorage(), &fakeMailer{})
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "s3cretpass")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "impostor", "alice@example.com", "otherpass1")
	assert.ErrorIs(t, err, ErrEmailAlreadyTaken)
}

func TestRegisterAssignsID(t *testing.T) {
	svc := newTestService(newFakeUserStorage(), &fakeMailer{})
	ctx := context.Background()

	alice, err := svc.Register(ctx, "alice", "alice@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, alice.ID)

	bob, err := svc.Register(ctx, "bob", "bob@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, bob.ID)
	assert.NotEqual(t, alice.ID, bob.ID)
}

func TestLoginAndVerifyToken(t *testing.T) {
	svc := newTestService(newFakeUserStorage(), &fakeMailer{})
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "s3cretpass")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "alice@example.com", "s3cretpass")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestLoginBadCredentials(t *testing.T) {
	svc := newTestService(newFakeUserStorage(), &fakeMailer{})
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "s3cretpass")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "s3cretpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := newTestService(newFakeUserStorage(), &fakeMailer{})
	_, err := svc.VerifyToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateOtherUserForbidden(t *testing.T) {
	svc := newTestService(newFakeUserStorage(), &fakeMailer{})
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "s3cretpass")
	require.NoError(t, err)

	name := "mallory"
	_, err = svc.Update(ctx, uuid.New(), user.ID, &name, nil)
	assert.ErrorIs(t, err, ErrNotSelf)
	err = svc.Delete(ctx, uuid.New(), user.ID)
	assert.ErrorIs(t, err, ErrNotSelf)
}

func TestUpdateEmailCollision(t *testing.T) {
	svc := newTestService(newFakeUserStorage(), &fakeMailer{})
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "s3cretpass")
	require.NoError(t, err)
	bob, err := svc.Register(ctx, "bob", "bob@example.com", "s3cretpass")
	require.NoError(t, err)

	email := "alice@example.com"
	_, err = svc.Update(ctx, bob.ID, bob.ID, nil, &email)
	assert.ErrorIs(t, err, ErrEmailAlreadyTaken)
}

func TestUpdatePatchesOnlyGivenFields(t *testing.T) {
	svc := newTestService(newFakeUserStorage(), &fakeMailer{})
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "s3cretpass")
	require.NoError(t, err)

	name := "alice b"
	updated, err := svc.Update(ctx, user.ID, user.ID, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "alice b", updated.Name)
	assert.Equal(t, "alice@example.com", updated.Email)
}

func TestFavoriteGenres(t *testing.T) {
	genreID := uuid.New()
	svc := newTestService(newFakeUserStorage(genreID), &fakeMailer{})
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "s3cretpass")
	require.NoError(t, err)

	require.NoError(t, svc.SetFavoriteGenre(ctx, user.ID, genreID, 5))
	// upsert bumps the level instead of adding a second row
	require.NoError(t, svc.SetFavoriteGenre(ctx, user.ID, genreID, 9))

	favs, err := svc.FavoriteGenres(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, 9, favs[0].Level)

	err = svc.SetFavoriteGenre(ctx, user.ID, uuid.New(), 3)
	assert.ErrorIs(t, err, ErrGenreNotFound)
}
