package main

import (
	"errors"
	"net/http"
	"time"

	"cinefinder/proj/internal/domain/filters"
	"cinefinder/proj/internal/lib/validator"
	"cinefinder/proj/internal/services/ratings"

	"github.com/google/uuid"
)

type createRatingRequest struct {
	MovieID uuid.UUID `json:"movieId" validate:"required"`
	Score   int       `json:"score" validate:"required,gte=1,lte=10"`
	Comment string    `json:"comment" validate:"max=1000"`
}

type updateRatingRequest struct {
	ID      *uuid.UUID `json:"id"`
	Score   *int       `json:"score" validate:"omitempty,gte=1,lte=10"`
	Comment *string    `json:"comment" validate:"omitempty,max=1000"`
}

func (app *Application) handleRatingError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ratings.ErrRatingNotFound), errors.Is(err, ratings.ErrMovieNotFound):
		app.Http.NotFound(w, r, err.Error())
	case errors.Is(err, ratings.ErrAlreadyRated):
		app.Http.Conflict(w, r, err.Error())
	case errors.Is(err, ratings.ErrInvalidScore):
		app.Http.UnprocessableEntity(w, r, map[string]string{"score": err.Error()})
	case errors.Is(err, ratings.ErrNotOwner):
		app.Http.Forbidden(w, r, err.Error())
	default:
		app.Http.ServerError(w, r, err, "")
	}
}

func (app *Application) getRating(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractUUIDParam(w, r, "id")
	if !ok {
		return
	}
	rating, err := app.services.Ratings.Get(r.Context(), id)
	if err != nil {
		app.handleRatingError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"rating": rating}, "")
}

func (app *Application) createRating(w http.ResponseWriter, r *http.Request) {
	var req createRatingRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, req); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	user := app.contextUser(r)
	rating, err := app.services.Ratings.Create(r.Context(), user.ID, req.MovieID, req.Score, req.Comment)
	if err != nil {
		app.handleRatingError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/ratings/"+rating.ID.String())
	app.Http.Created(w, r, envelop{"rating": rating}, "Rating successfully created")
}

func (app *Application) updateRating(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var req updateRatingRequest
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
	user := app.contextUser(r)
	rating, err := app.services.Ratings.Update(r.Context(), user.ID, id, req.Score, req.Comment)
	if err != nil {
		app.handleRatingError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"rating": rating}, "Rating successfully updated")
}

func (app *Application) deleteRating(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractUUIDParam(w, r, "id")
	if !ok {
		return
	}
	user := app.contextUser(r)
	if err := app.services.Ratings.Delete(r.Context(), user.ID, id); err != nil {
		app.handleRatingError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}

type ratingSearchQuery struct {
	paginationQuery
	MovieID    *uuid.UUID `schema:"movieId"`
	UserID     *uuid.UUID `schema:"userId"`
	ScoreMin   *int       `schema:"scoreFrom"`
	ScoreMax   *int       `schema:"scoreTo"`
	From       *time.Time `schema:"from"`
	To         *time.Time `schema:"to"`
	HasComment *bool      `schema:"hasComment"`
}

func (app *Application) searchRatings(w http.ResponseWriter, r *http.Request) {
	var q ratingSearchQuery
	if !app.decodeQuery(w, r, &q) {
		return
	}
	rf := filters.RatingFilters{
		MovieID:    q.MovieID,
		UserID:     q.UserID,
		ScoreMin:   q.ScoreMin,
		ScoreMax:   q.ScoreMax,
		From:       q.From,
		To:         q.To,
		HasComment: q.HasComment,
	}
	found, meta, err := app.services.Ratings.Search(r.Context(), rf, q.filters())
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	items := make([]resource, len(found))
	for i, rating := range found {
		items[i] = resource{Item: rating, Links: selfLink("ratings", rating.ID)}
	}
	app.Http.Ok(w, r, paginated(r, items, meta), "")
}

func (app *Application) getMovieRatings(w http.ResponseWriter, r *http.Request) {
	movieID, ok := app.extractUUIDParam(w, r, "id")
	if !ok {
		return
	}
	found, err := app.services.Ratings.ByMovie(r.Context(), movieID)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"ratings": found}, "")
}

func (app *Application) getUserRatings(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.extractUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var q paginationQuery
	if !app.decodeQuery(w, r, &q) {
		return
	}
	found, meta, err := app.services.Ratings.ByUser(r.Context(), userID, q.filters())
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	items := make([]resource, len(found))
	for i, rating := range found {
		items[i] = resource{Item: rating, Links: selfLink("ratings", rating.ID)}
	}
	app.Http.Ok(w, r, paginated(r, items, meta), "")
}
