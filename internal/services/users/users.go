package users

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cinefinder/proj/internal/domain/filters"
	"cinefinder/proj/internal/domain/models"
	"cinefinder/proj/internal/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UsersStorage interface {
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, uf filters.UserFilters, f filters.Filters) ([]models.User, int, error)
	SetGenrePreference(ctx context.Context, pref *models.GenrePreference) error
	FavoriteGenres(ctx context.Context, userID uuid.UUID) ([]models.FavoriteGenre, error)
}

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type TaskExecutor interface {
	Add(task func())
}

type UserService struct {
	log          *slog.Logger
	storage      UsersStorage
	mailer       MailProvider
	taskExecutor TaskExecutor
	jwtSecret    string
	tokenTTL     time.Duration
}

func New(
	log *slog.Logger,
	storage UsersStorage,
	mailer MailProvider,
	taskExecutor TaskExecutor,
	jwtSecret string,
	tokenTTL time.Duration,
) *UserService {
	return &UserService{
		log:          log,
		storage:      storage,
		mailer:       mailer,
		taskExecutor: taskExecutor,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
	}
}

func (s *UserService) sendWelcomeEmail(email, name string) {
	s.log.Info("sending welcome email", "email", email)
	err := s.mailer.Send(email, "user_welcome.html", map[string]any{
		"name": name,
	})
	if err != nil {
		s.log.Error("Error sending welcome email", "errMsg", err.Error())
	}
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	const op = "users.UserService.Register"
	log := s.log.With("op", op, "email", email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	user, err := s.storage.Insert(ctx, &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("email already taken")
			return nil, ErrEmailAlreadyTaken
		}
		log.Error(err.Error())
		return nil, err
	}
	s.taskExecutor.Add(func() {
		s.sendWelcomeEmail(user.Email, user.Name)
	})
	return user, nil
}

// Login checks the credentials and returns a signed access token. Lookup and
// password failures collapse into the same error on purpose.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	const op = "users.UserService.Login"
	log := s.log.With("op", op, "email", email)
	user, err := s.storage.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("unknown email")
			return "", ErrInvalidCredentials
		}
		log.Error(err.Error())
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		log.Info("wrong password")
		return "", ErrInvalidCredentials
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": user.ID.String(),
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		log.Error(err.Error())
		return "", err
	}
	return signed, nil
}

// VerifyToken checks a token produced by Login and returns the user id it
// was issued for.
func (s *UserService) VerifyToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidCredentials
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrInvalidCredentials
	}
	uid, ok := claims["uid"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidCredentials
	}
	id, err := uuid.Parse(uid)
	if err != nil {
		return uuid.Nil, ErrInvalidCredentials
	}
	return id, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "users.UserService.Get"
	log := s.log.With("op", op, "id", id)
	user, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}

// Update patches the caller's own profile. Nil fields are left untouched.
func (s *UserService) Update(ctx context.Context, callerID, id uuid.UUID, name, email *string) (*models.User, error) {
	const op = "users.UserService.Update"
	log := s.log.With("op", op, "callerID", callerID, "id", id)
	if callerID != id {
		log.Info("attempt to update another user")
		return nil, ErrNotSelf
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		user.Name = *name
	}
	if email != nil {
		user.Email = *email
	}
	updated, err := s.storage.Update(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("email already taken")
			return nil, ErrEmailAlreadyTaken
		} else if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	const op = "users.UserService.Delete"
	log := s.log.With("op", op, "callerID", callerID, "id", id)
	if callerID != id {
		log.Info("attempt to delete another user")
		return ErrNotSelf
	}
	if err := s.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return ErrUserNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *UserService) Search(ctx context.Context, uf filters.UserFilters, f filters.Filters) ([]models.User, filters.Metadata, error) {
	const op = "users.UserService.Search"
	log := s.log.With("op", op)
	users, total, err := s.storage.List(ctx, uf, f)
	if err != nil {
		log.Error(err.Error())
		return nil, filters.Metadata{}, err
	}
	return users, filters.CalculateMetadata(total, f.Page, f.PageSize), nil
}

func (s *UserService) SetFavoriteGenre(ctx context.Context, userID, genreID uuid.UUID, level int) error {
	const op = "users.UserService.SetFavoriteGenre"
	log := s.log.With("op", op, "userID", userID, "genreID", genreID, "level", level)
	err := s.storage.SetGenrePreference(ctx, &models.GenrePreference{
		UserID:  userID,
		GenreID: genreID,
		Level:   level,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("genre not found")
			return ErrGenreNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *UserService) FavoriteGenres(ctx context.Context, userID uuid.UUID) ([]models.FavoriteGenre, error) {
	const op = "users.UserService.FavoriteGenres"
	log := s.log.With("op", op, "userID", userID)
	genres, err := s.storage.FavoriteGenres(ctx, userID)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return genres, nil
}
