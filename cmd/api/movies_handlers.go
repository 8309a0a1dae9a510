package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"cinefinder/proj/internal/domain/fields"
	"cinefinder/proj/internal/domain/filters"
	"cinefinder/proj/internal/domain/models"
	"cinefinder/proj/internal/lib/validator"
	"cinefinder/proj/internal/services/movies"

	"github.com/google/uuid"
)

const releaseDateLayout = "2006-01-02"

type createMovieRequest struct {
	TmdbID      int         `json:"tmdbId" validate:"required,gt=0"`
	Title       string      `json:"title" validate:"required,max=255"`
	Description string      `json:"description" validate:"max=2000"`
	ReleaseDate string      `json:"releaseDate" errorMsg:"Must be a date in YYYY-MM-DD format"`
	PosterURL   string      `json:"posterUrl" validate:"omitempty,url"`
	TrailerURL  string      `json:"trailerUrl" validate:"omitempty,url"`
	Director    string      `json:"director" validate:"max=255"`
	Duration    int32       `json:"duration" validate:"omitempty,gt=0"`
	GenreIDs    []uuid.UUID `json:"genreIds" validate:"unique"`
}

type updateMovieRequest struct {
	ID          *uuid.UUID  `json:"id"`
	TmdbID      *int        `json:"tmdbId" validate:"omitempty,gt=0"`
	Title       *string     `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string     `json:"description" validate:"omitempty,max=2000"`
	ReleaseDate *string     `json:"releaseDate"`
	PosterURL   *string     `json:"posterUrl" validate:"omitempty,url"`
	TrailerURL  *string     `json:"trailerUrl" validate:"omitempty,url"`
	Director    *string     `json:"director" validate:"omitempty,max=255"`
	Duration    *int32      `json:"duration" validate:"omitempty,gt=0"`
	GenreIDs    []uuid.UUID `json:"genreIds" validate:"omitempty,unique"`
}

func (app *Application) handleMovieError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, movies.ErrMovieNotFound):
		app.Http.NotFound(w, r, err.Error())
	case errors.Is(err, movies.ErrMovieAlreadyExists):
		app.Http.Conflict(w, r, err.Error())
	case errors.Is(err, movies.ErrGenreNotFound):
		app.Http.UnprocessableEntity(w, r, map[string]string{"genreIds": "unknown genre id"})
	default:
		app.Http.ServerError(w, r, err, "")
	}
}

func (app *Application) getMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractUUIDParam(w, r, "id")
	if !ok {
		return
	}
	movie, err := app.services.Movies.GetDetailed(r.Context(), id)
	if err != nil {
		app.handleMovieError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"movie": movie}, "")
}

func (app *Application) createMovie(w http.ResponseWriter, r *http.Request) {
	var req createMovieRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, req); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	movie := &models.Movie{
		TmdbID:      req.TmdbID,
		Title:       req.Title,
		Description: req.Description,
		PosterURL:   req.PosterURL,
		TrailerURL:  req.TrailerURL,
		Director:    req.Director,
	}
	if req.ReleaseDate != "" {
		date, err := time.Parse(releaseDateLayout, req.ReleaseDate)
		if err != nil {
			app.Http.UnprocessableEntity(w, r, map[string]string{"releaseDate": "Must be a date in YYYY-MM-DD format"})
			return
		}
		movie.ReleaseDate = &date
	}
	if req.Duration != 0 {
		duration := fields.MovieDuration(req.Duration)
		movie.Duration = &duration
	}
	created, err := app.services.Movies.Create(r.Context(), movie, req.GenreIDs)
	if err != nil {
		app.handleMovieError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/movies/"+created.ID.String())
	app.Http.Created(w, r, envelop{"movie": created}, "Movie successfully created")
}

func (app *Application) updateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var req updateMovieRequest
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
	input := movies.UpdateMovieInput{
		TmdbID:      req.TmdbID,
		Title:       req.Title,
		Description: req.Description,
		PosterURL:   req.PosterURL,
		TrailerURL:  req.TrailerURL,
		Director:    req.Director,
		GenreIDs:    req.GenreIDs,
	}
	if req.ReleaseDate != nil {
		date, err := time.Parse(releaseDateLayout, *req.ReleaseDate)
		if err != nil {
			app.Http.UnprocessableEntity(w, r, map[string]string{"releaseDate": "Must be a date in YYYY-MM-DD format"})
			return
		}
		input.ReleaseDate = &date
	}
	if req.Duration != nil {
		duration := fields.MovieDuration(*req.Duration)
		input.Duration = &duration
	}
	movie, err := app.services.Movies.Update(r.Context(), id, input)
	if err != nil {
		app.handleMovieError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"movie": movie}, "Movie successfully updated")
}

func (app *Application) deleteMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractUUIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := app.services.Movies.Delete(r.Context(), id); err != nil {
		app.handleMovieError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}

type movieSearchQuery struct {
	paginationQuery
	Title       string      `schema:"title"`
	Director    string      `schema:"director"`
	GenreIDs    []uuid.UUID `schema:"genreId"`
	YearFrom    *int        `schema:"yearFrom"`
	YearTo      *int        `schema:"yearTo"`
	MinAvg      *float64    `schema:"minAvgRating"`
	DurationMin *int        `schema:"durationFrom"`
	DurationMax *int        `schema:"durationTo"`
}

func (app *Application) searchMovies(w http.ResponseWriter, r *http.Request) {
	var q movieSearchQuery
	if !app.decodeQuery(w, r, &q) {
		return
	}
	mf := filters.MovieFilters{
		Title:       q.Title,
		Director:    q.Director,
		GenreIDs:    q.GenreIDs,
		YearFrom:    q.YearFrom,
		YearTo:      q.YearTo,
		MinAvg:      q.MinAvg,
		DurationMin: q.DurationMin,
		DurationMax: q.DurationMax,
	}
	found, meta, err := app.services.Movies.Search(r.Context(), mf, q.filters())
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	items := make([]resource, len(found))
	for i, movie := range found {
		items[i] = resource{Item: movie, Links: selfLink("movies", movie.ID)}
	}
	app.Http.Ok(w, r, paginated(r, items, meta), "")
}

func (app *Application) getTopRatedMovies(w http.ResponseWriter, r *http.Request) {
	top, _ := strconv.Atoi(r.URL.Query().Get("top"))
	found, err := app.services.Movies.TopRated(r.Context(), top)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"movies": found}, "")
}

func (app *Application) getMoviesByGenre(w http.ResponseWriter, r *http.Request) {
	genreID, ok := app.extractUUIDParam(w, r, "id")
	if !ok {
		return
	}
	found, err := app.services.Movies.ByGenre(r.Context(), genreID)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"movies": found}, "")
}
