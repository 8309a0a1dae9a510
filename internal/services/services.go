package services

import (
	"log/slog"

	"cinefinder/proj/internal/config"
	"cinefinder/proj/internal/mails"
	"cinefinder/proj/internal/services/genres"
	"cinefinder/proj/internal/services/lists"
	"cinefinder/proj/internal/services/movies"
	"cinefinder/proj/internal/services/ratings"
	"cinefinder/proj/internal/services/users"
	storagemodels "cinefinder/proj/internal/storage/postgres/models"
)

type Services struct {
	Movies  *movies.MovieService
	Genres  *genres.GenreService
	Lists   *lists.ListService
	Ratings *ratings.RatingService
	Users   *users.UserService
}

func New(log *slog.Logger, cfg *config.Config, models *storagemodels.Models, taskExecutor users.TaskExecutor) *Services {
	mailer := mails.New(
		cfg.SMTPServer.Host,
		cfg.SMTPServer.Port,
		cfg.SMTPServer.Timeout,
		cfg.SMTPServer.Username,
		cfg.SMTPServer.Password,
		cfg.SMTPServer.Sender,
		cfg.SMTPServer.RetriesCount,
	)
	return &Services{
		Movies:  movies.New(log, models.Movies, models.Ratings),
		Genres:  genres.New(log, models.Genres),
		Lists:   lists.New(log, models.Lists),
		Ratings: ratings.New(log, models.Ratings),
		Users:   users.New(log, models.Users, mailer, taskExecutor, cfg.Auth.Secret, cfg.Auth.TokenTTL),
	}
}
