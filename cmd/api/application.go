package main

import (
	"log/slog"
	"reflect"
	"time"

	"cinefinder/proj/internal/api/tasks"
	"cinefinder/proj/internal/config"
	"cinefinder/proj/internal/services"
	"cinefinder/proj/internal/storage/postgres"
	storagemodels "cinefinder/proj/internal/storage/postgres/models"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/schema"
)

type Application struct {
	cfg          *config.Config
	log          *slog.Logger
	Http         *Http
	services     *services.Services
	validator    *govalidator.Validate
	queryDecoder *schema.Decoder
	bgTasks      *tasks.BackgroundTasks
}

func newQueryDecoder() *schema.Decoder {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	decoder.RegisterConverter(uuid.UUID{}, func(s string) reflect.Value {
		id, err := uuid.Parse(s)
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(id)
	})
	decoder.RegisterConverter(time.Time{}, func(s string) reflect.Value {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return reflect.Value{}
		}
		return reflect.ValueOf(t)
	})
	return decoder
}

func NewApplication(cfg *config.Config, log *slog.Logger, storage *postgres.Storage) *Application {
	bgTasks := tasks.New(log, cfg.BgTasks.MaxWorkers, cfg.BgTasks.MaxQueueSize)
	bgTasks.Run()
	models := storagemodels.New(storage)
	app := &Application{
		cfg:          cfg,
		log:          log,
		services:     services.New(log, cfg, models, bgTasks),
		validator:    govalidator.New(govalidator.WithRequiredStructEnabled()),
		queryDecoder: newQueryDecoder(),
		bgTasks:      bgTasks,
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
	return app
}
