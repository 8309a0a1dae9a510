package main

import (
	"errors"
	"net/http"

	"cinefinder/proj/internal/domain/models"
	"cinefinder/proj/internal/lib/validator"
	"cinefinder/proj/internal/services/genres"

	"github.com/google/uuid"
)

type createGenreRequest struct {
	TmdbID      int    `json:"tmdbId" validate:"required,gt=0"`
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

type updateGenreRequest struct {
	ID          *uuid.UUID `json:"id"`
	TmdbID      *int       `json:"tmdbId" validate:"omitempty,gt=0"`
	Name        *string    `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
}

func (app *Application) handleGenreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, genres.ErrGenreNotFound):
		app.Http.NotFound(w, r, err.Error())
	case errors.Is(err, genres.ErrGenreAlreadyExists):
		app.Http.Conflict(w, r, err.Error())
	default:
		app.Http.ServerError(w, r, err, "")
	}
}

func (app *Application) getGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractUUIDParam(w, r, "id")
	if !ok {
		return
	}
	genre, err := app.services.Genres.Get(r.Context(), id)
	if err != nil {
		app.handleGenreError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"genre": genre}, "")
}

func (app *Application) createGenre(w http.ResponseWriter, r *http.Request) {
	var req createGenreRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, req); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	genre, err := app.services.Genres.Create(r.Context(), &models.Genre{
		TmdbID:      req.TmdbID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		app.handleGenreError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/genres/"+genre.ID.String())
	app.Http.Created(w, r, envelop{"genre": genre}, "Genre successfully created")
}

func (app *Application) updateGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var req updateGenreRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if req.ID != nil && *req.ID != id {
		app.Http.BadRequest(w, r, "body id does not match the URL")
		return
	}
	if errs := validator.ValidateStruct(app.validator, req); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	genre, err := app.services.Genres.Update(r.Context(), id, req.TmdbID, req.Name, req.Description)
	if err != nil {
		app.handleGenreError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"genre": genre}, "Genre successfully updated")
}

func (app *Application) deleteGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractUUIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := app.services.Genres.Delete(r.Context(), id); err != nil {
		app.handleGenreError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}

type genreSearchQuery struct {
	paginationQuery
	Name string `schema:"name"`
}

func (app *Application) searchGenres(w http.ResponseWriter, r *http.Request) {
	var q genreSearchQuery
	if !app.decodeQuery(w, r, &q) {
		return
	}
	found, meta, err := app.services.Genres.Search(r.Context(), q.Name, q.filters())
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	items := make([]resource, len(found))
	for i, genre := range found {
		items[i] = resource{Item: genre, Links: selfLink("genres", genre.ID)}
	}
	app.Http.Ok(w, r, paginated(r, items, meta), "")
}

func (app *Application) getPopularGenres(w http.ResponseWriter, r *http.Request) {
	found, err := app.services.Genres.Popular(r.Context())
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"genres": found}, "")
}
