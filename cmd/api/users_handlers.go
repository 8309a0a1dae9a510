package main

import (
	"errors"
	"net/http"
	"time"

	"cinefinder/proj/internal/domain/filters"
	"cinefinder/proj/internal/lib/validator"
	"cinefinder/proj/internal/services/users"

	"github.com/google/uuid"
)

type signupRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72" errorMsg:"Password must be between 8 and 72 characters long"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	ID    *uuid.UUID `json:"id"`
	Name  *string    `json:"name" validate:"omitempty,min=1,max=255"`
	Email *string    `json:"email" validate:"omitempty,email"`
}

type setFavoriteGenreRequest struct {
	GenreID uuid.UUID `json:"genreId" validate:"required"`
	Level   int       `json:"level" validate:"required,gte=1,lte=10"`
}

func (app *Application) handleUserError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		app.Http.NotFound(w, r, err.Error())
	case errors.Is(err, users.ErrEmailAlreadyTaken):
		app.Http.Conflict(w, r, err.Error())
	case errors.Is(err, users.ErrInvalidCredentials):
		app.Http.Unauthorized(w, r, err.Error())
	case errors.Is(err, users.ErrNotSelf):
		app.Http.Forbidden(w, r, err.Error())
	case errors.Is(err, users.ErrGenreNotFound):
		app.Http.UnprocessableEntity(w, r, map[string]string{"genreId": "unknown genre"})
	default:
		app.Http.ServerError(w, r, err, "")
	}
}

func (app *Application) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, req); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	user, err := app.services.Users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		app.handleUserError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/users/"+user.ID.String())
	app.Http.Created(w, r, envelop{"user": user}, "Account successfully created")
}

func (app *Application) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, req); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	token, err := app.services.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		app.handleUserError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"accessToken": token}, "Successfully logged in")
}

func (app *Application) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractUUIDParam(w, r, "id")
	if !ok {
		return
	}
	user, err := app.services.Users.Get(r.Context(), id)
	if err != nil {
		app.handleUserError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractUUIDParam(w, r, "id")
	if !ok {
		return
	}
	var req updateUserRequest
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
	caller := app.contextUser(r)
	user, err := app.services.Users.Update(r.Context(), caller.ID, id, req.Name, req.Email)
	if err != nil {
		app.handleUserError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "Account successfully updated")
}

func (app *Application) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractUUIDParam(w, r, "id")
	if !ok {
		return
	}
	caller := app.contextUser(r)
	if err := app.services.Users.Delete(r.Context(), caller.ID, id); err != nil {
		app.handleUserError(w, r, err)
		return
	}
	app.Http.NoContent(w, r)
}

type userSearchQuery struct {
	paginationQuery
	Name  string     `schema:"name"`
	Email string     `schema:"email"`
	From  *time.Time `schema:"from"`
	To    *time.Time `schema:"to"`
}

func (app *Application) searchUsers(w http.ResponseWriter, r *http.Request) {
	var q userSearchQuery
	if !app.decodeQuery(w, r, &q) {
		return
	}
	uf := filters.UserFilters{
		Name:  q.Name,
		Email: q.Email,
		From:  q.From,
		To:    q.To,
	}
	found, meta, err := app.services.Users.Search(r.Context(), uf, q.filters())
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	items := make([]resource, len(found))
	for i, user := range found {
		items[i] = resource{Item: user, Links: selfLink("users", user.ID)}
	}
	app.Http.Ok(w, r, paginated(r, items, meta), "")
}

func (app *Application) setFavoriteGenre(w http.ResponseWriter, r *http.Request) {
	var req setFavoriteGenreRequest
	if err := app.readJSON(w, r, &req); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, req); errs != nil {
		app.Http.UnprocessableEntity(w, r, errs)
		return
	}
	user := app.contextUser(r)
	if err := app.services.Users.SetFavoriteGenre(r.Context(), user.ID, req.GenreID, req.Level); err != nil {
		app.handleUserError(w, r, err)
		return
	}
	app.Http.Ok(w, r, nil, "Favorite genre saved")
}

func (app *Application) getFavoriteGenres(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.extractUUIDParam(w, r, "id")
	if !ok {
		return
	}
	found, err := app.services.Users.FavoriteGenres(r.Context(), userID)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"genres": found}, "")
}
